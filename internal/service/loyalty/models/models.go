package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Request модели

// UpsertRuleRequest запрос на создание или изменение правила уровня
// Для существующего правила меняются только указанные поля
type UpsertRuleRequest struct {
	TenantID  uuid.UUID        `json:"-"`
	Tier      string           `json:"tier"`
	MinPoints *int             `json:"minPoints,omitempty"`
	MaxPoints *int             `json:"maxPoints,omitempty"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
	Benefits  []string         `json:"benefits,omitempty"`
}

// ApplyTo применяет изменения к правилу
func (r *UpsertRuleRequest) ApplyTo(rule *domain.LoyaltyRule) {
	if r.MinPoints != nil {
		rule.MinPoints = *r.MinPoints
	}
	if r.MaxPoints != nil {
		rule.MaxPoints = r.MaxPoints
	}
	if r.Discount != nil {
		rule.Discount = decimal.NewNullDecimal(*r.Discount)
	}
	if r.Benefits != nil {
		rule.Benefits = r.Benefits
	}
}

// Response модели

// ClientLoyaltyResponse баланс и уровень клиента после начисления или списания
type ClientLoyaltyResponse struct {
	ClientID      uuid.UUID `json:"clientId"`
	LoyaltyPoints int       `json:"loyaltyPoints"`
	LoyaltyTier   string    `json:"loyaltyTier"`
	TierChanged   bool      `json:"tierChanged"`
}

// RuleResponse правило уровня
type RuleResponse struct {
	ID        uuid.UUID `json:"id"`
	Tier      string    `json:"tier"`
	MinPoints int       `json:"minPoints"`
	MaxPoints *int      `json:"maxPoints,omitempty"`
	Discount  string    `json:"discount"` // Процент скидки, "0" если не задан
	Benefits  []string  `json:"benefits"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RuleListResponse правила уровней салона
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// BenefitsResponse привилегии клиента по текущему уровню
type BenefitsResponse struct {
	ClientID         uuid.UUID `json:"clientId"`
	LoyaltyPoints    int       `json:"loyaltyPoints"`
	LoyaltyTier      string    `json:"loyaltyTier"`
	Benefits         []string  `json:"benefits"`
	Discount         string    `json:"discount"`
	NextTier         *string   `json:"nextTier,omitempty"`
	PointsToNextTier *int      `json:"pointsToNextTier,omitempty"`
}

// StatsResponse статистика программы лояльности салона
type StatsResponse struct {
	TotalClients  int            `json:"totalClients"`
	TotalPoints   int64          `json:"totalPoints"`
	AveragePoints float64        `json:"averagePoints"`
	ClientsByTier map[string]int `json:"clientsByTier"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.LoyaltyRule) RuleResponse {
	benefits := r.Benefits
	if benefits == nil {
		benefits = []string{}
	}

	return RuleResponse{
		ID:        r.ID,
		Tier:      string(r.Tier),
		MinPoints: r.MinPoints,
		MaxPoints: r.MaxPoints,
		Discount:  r.Discount.Decimal.String(),
		Benefits:  benefits,
		UpdatedAt: r.UpdatedAt,
	}
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.LoyaltyRule) *RuleListResponse {
	result := &RuleListResponse{Rules: make([]RuleResponse, 0, len(rules))}
	for _, r := range rules {
		result.Rules = append(result.Rules, FromDomainRule(r))
	}
	return result
}

// FromDomainStats конвертирует статистику в DTO
func FromDomainStats(s *domain.LoyaltyStats) *StatsResponse {
	byTier := make(map[string]int, len(s.ClientsByTier))
	for tier, count := range s.ClientsByTier {
		byTier[string(tier)] = count
	}

	return &StatsResponse{
		TotalClients:  s.TotalClients,
		TotalPoints:   s.TotalPoints,
		AveragePoints: s.AveragePoints(),
		ClientsByTier: byTier,
	}
}
