package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	clientRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
)

var maxDiscount = decimal.NewFromInt(domain.MaxPercentage)

// Service сервис программы лояльности
// Уровень клиента пересчитывается при каждом изменении баланса по порогам салона
type Service struct {
	clientRepo ClientRepository
	ruleRepo   RuleRepository
	policies   PolicyProvider
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса лояльности
func NewService(
	clientRepo ClientRepository,
	ruleRepo RuleRepository,
	policies PolicyProvider,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		clientRepo: clientRepo,
		ruleRepo:   ruleRepo,
		policies:   policies,
		txManager:  txManager,
		logger:     logger,
	}
}

// AddPoints начисляет баллы клиенту
func (s *Service) AddPoints(ctx context.Context, tenantID, clientID uuid.UUID, points int) (*models.ClientLoyaltyResponse, error) {
	s.logger.Info("AddPoints: client id=%s, tenant=%s, points=%d", clientID, tenantID, points)

	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrInvalidInput)
	}
	if points > domain.MaxLoyaltyPoints {
		return nil, fmt.Errorf("%w: points must be at most %d", ErrInvalidInput, domain.MaxLoyaltyPoints)
	}

	return s.adjust(ctx, "AddPoints", tenantID, clientID, points)
}

// RedeemPoints списывает баллы клиента
// Списание больше баланса возвращает ErrInsufficientPoints
func (s *Service) RedeemPoints(ctx context.Context, tenantID, clientID uuid.UUID, points int) (*models.ClientLoyaltyResponse, error) {
	s.logger.Info("RedeemPoints: client id=%s, tenant=%s, points=%d", clientID, tenantID, points)

	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrInvalidInput)
	}
	if points > domain.MaxLoyaltyPoints {
		return nil, fmt.Errorf("%w: points must be at most %d", ErrInvalidInput, domain.MaxLoyaltyPoints)
	}

	return s.adjust(ctx, "RedeemPoints", tenantID, clientID, -points)
}

func (s *Service) adjust(ctx context.Context, op string, tenantID, clientID uuid.UUID, delta int) (*models.ClientLoyaltyResponse, error) {
	var resp *models.ClientLoyaltyResponse

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем клиента с блокировкой строки
		client, err := s.clientRepo.GetByID(txCtx, tenantID, clientID)
		if err != nil {
			if errors.Is(err, clientRepo.ErrClientNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("%w: %s - get client: %v", ErrInternal, op, err)
		}

		// 2. Проверяем баланс
		if delta > 0 && client.LoyaltyPoints > domain.MaxLoyaltyPoints-delta {
			return fmt.Errorf("%w: balance %d plus %d exceeds %d",
				ErrInvalidInput, client.LoyaltyPoints, delta, domain.MaxLoyaltyPoints)
		}
		newPoints := client.LoyaltyPoints + delta
		if newPoints < 0 {
			return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientPoints, client.LoyaltyPoints, -delta)
		}

		// 3. Пересчитываем уровень
		thresholds, err := s.thresholds(txCtx, tenantID)
		if err != nil {
			return err
		}
		previousTier := client.LoyaltyTier
		client.LoyaltyPoints = newPoints
		client.LoyaltyTier = domain.TierFor(newPoints, thresholds)

		// 4. Сохраняем
		updated, err := s.clientRepo.UpdateLoyalty(txCtx, client)
		if err != nil {
			if errors.Is(err, clientRepo.ErrClientNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("%w: %s - update client: %v", ErrInternal, op, err)
		}

		resp = &models.ClientLoyaltyResponse{
			ClientID:      updated.ID,
			LoyaltyPoints: updated.LoyaltyPoints,
			LoyaltyTier:   string(updated.LoyaltyTier),
			TierChanged:   previousTier != updated.LoyaltyTier,
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrClientNotFound):
			s.logger.Warn("%s: client id=%s not found", op, clientID)
		case errors.Is(err, ErrInsufficientPoints), errors.Is(err, ErrInvalidInput):
			s.logger.Warn("%s: client id=%s: %v", op, clientID, err)
		case errors.Is(err, ErrInternal):
			s.logger.Error("%s: failed for client id=%s: %v", op, clientID, err)
		default:
			s.logger.Error("%s: transaction failed for client id=%s: %v", op, clientID, err)
			return nil, fmt.Errorf("%w: %s - transaction: %v", ErrInternal, op, err)
		}
		return nil, err
	}

	s.logger.Info("%s: client id=%s now has %d points (%s)", op, clientID, resp.LoyaltyPoints, resp.LoyaltyTier)
	return resp, nil
}

// GetTierRules получает правила уровней салона
func (s *Service) GetTierRules(ctx context.Context, tenantID uuid.UUID) (*models.RuleListResponse, error) {
	s.logger.Info("GetTierRules: fetching rules for tenant=%s", tenantID)

	rules, err := s.ruleRepo.GetRules(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetTierRules: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetTierRules - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(rules), nil
}

// UpsertTierRule создает или изменяет правило уровня
// Минимумы уровней после изменения должны оставаться упорядоченными
func (s *Service) UpsertTierRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpsertTierRule: tier=%s for tenant=%s", req.Tier, req.TenantID)

	tier, err := domain.ParseLoyaltyTier(req.Tier)
	if err != nil {
		s.logger.Warn("UpsertTierRule: invalid tier=%s", req.Tier)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.LoyaltyRule

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Берем существующее правило уровня или создаем новое
		rules, err := s.ruleRepo.GetRules(txCtx, req.TenantID)
		if err != nil {
			return fmt.Errorf("%w: UpsertTierRule - get rules: %v", ErrInternal, err)
		}

		rule := &domain.LoyaltyRule{TenantID: req.TenantID, Tier: tier}
		if existing, ok := domain.RuleFor(rules, tier); ok {
			cp := *existing
			rule = &cp
		}
		req.ApplyTo(rule)

		// 2. Проверяем правило и порядок порогов с учетом остальных уровней
		if err := validateRule(rule); err != nil {
			return err
		}

		policy, err := s.policies.Effective(txCtx, req.TenantID)
		if err != nil {
			return fmt.Errorf("%w: UpsertTierRule - get policy: %v", ErrInternal, err)
		}
		merged := append(withoutTier(rules, tier), rule)
		if !domain.ThresholdsFromRules(merged, policy.LoyaltyThresholds).IsOrdered() {
			return fmt.Errorf("%w: tier minimums must satisfy bronze <= silver <= gold", ErrInvalidInput)
		}

		// 3. Сохраняем
		saved, err := s.ruleRepo.Upsert(txCtx, rule)
		if err != nil {
			return fmt.Errorf("%w: UpsertTierRule - repository error: %v", ErrInternal, err)
		}

		result = saved
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			s.logger.Warn("UpsertTierRule: validation failed for tenant=%s: %v", req.TenantID, err)
		case errors.Is(err, ErrInternal):
			s.logger.Error("UpsertTierRule: failed for tenant=%s: %v", req.TenantID, err)
		default:
			s.logger.Error("UpsertTierRule: transaction failed for tenant=%s: %v", req.TenantID, err)
			return nil, fmt.Errorf("%w: UpsertTierRule - transaction: %v", ErrInternal, err)
		}
		return nil, err
	}

	s.logger.Info("UpsertTierRule: successfully saved tier=%s for tenant=%s", tier, req.TenantID)
	resp := models.FromDomainRule(result)
	return &resp, nil
}

// GetClientBenefits возвращает привилегии клиента по его уровню и сколько баллов осталось до следующего
func (s *Service) GetClientBenefits(ctx context.Context, tenantID, clientID uuid.UUID) (*models.BenefitsResponse, error) {
	s.logger.Info("GetClientBenefits: client id=%s, tenant=%s", clientID, tenantID)

	client, err := s.clientRepo.GetByID(ctx, tenantID, clientID)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("GetClientBenefits: client id=%s not found", clientID)
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetClientBenefits: repository error for client id=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: GetClientBenefits - repository error: %v", ErrInternal, err)
	}

	rules, err := s.ruleRepo.GetRules(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetClientBenefits: failed to get rules for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetClientBenefits - get rules: %v", ErrInternal, err)
	}

	resp := &models.BenefitsResponse{
		ClientID:      client.ID,
		LoyaltyPoints: client.LoyaltyPoints,
		LoyaltyTier:   string(client.LoyaltyTier),
		Benefits:      []string{},
		Discount:      decimal.Zero.String(),
	}
	if rule, ok := domain.RuleFor(rules, client.LoyaltyTier); ok {
		if rule.Benefits != nil {
			resp.Benefits = rule.Benefits
		}
		if rule.Discount.Valid {
			resp.Discount = rule.Discount.Decimal.String()
		}
	}

	policy, err := s.policies.Effective(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetClientBenefits: failed to get policy for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetClientBenefits - get policy: %v", ErrInternal, err)
	}
	thresholds := domain.ThresholdsFromRules(rules, policy.LoyaltyThresholds)
	if next, minPoints, ok := nextTier(client.LoyaltyTier, thresholds); ok {
		name := string(next)
		remaining := minPoints - client.LoyaltyPoints
		if remaining < 0 {
			remaining = 0
		}
		resp.NextTier = &name
		resp.PointsToNextTier = &remaining
	}

	return resp, nil
}

// GetStats возвращает статистику программы лояльности салона
func (s *Service) GetStats(ctx context.Context, tenantID uuid.UUID) (*models.StatsResponse, error) {
	s.logger.Info("GetStats: tenant=%s", tenantID)

	stats, err := s.clientRepo.LoyaltyStats(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetStats: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetStats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}

// thresholds возвращает пороги уровней: минимумы из правил салона, иначе из политики
func (s *Service) thresholds(ctx context.Context, tenantID uuid.UUID) (domain.LoyaltyThresholds, error) {
	policy, err := s.policies.Effective(ctx, tenantID)
	if err != nil {
		return domain.LoyaltyThresholds{}, fmt.Errorf("%w: get policy: %v", ErrInternal, err)
	}

	rules, err := s.ruleRepo.GetRules(ctx, tenantID)
	if err != nil {
		return domain.LoyaltyThresholds{}, fmt.Errorf("%w: get rules: %v", ErrInternal, err)
	}

	return domain.ThresholdsFromRules(rules, policy.LoyaltyThresholds), nil
}

func validateRule(rule *domain.LoyaltyRule) error {
	if rule.MinPoints < 0 {
		return fmt.Errorf("%w: minPoints must not be negative", ErrInvalidInput)
	}
	if rule.MaxPoints != nil && *rule.MaxPoints < rule.MinPoints {
		return fmt.Errorf("%w: maxPoints must not be less than minPoints", ErrInvalidInput)
	}
	if rule.Discount.Valid && (rule.Discount.Decimal.IsNegative() || rule.Discount.Decimal.GreaterThan(maxDiscount)) {
		return fmt.Errorf("%w: discount must be between 0 and %d", ErrInvalidInput, domain.MaxPercentage)
	}
	return nil
}

func withoutTier(rules []*domain.LoyaltyRule, tier domain.LoyaltyTier) []*domain.LoyaltyRule {
	result := make([]*domain.LoyaltyRule, 0, len(rules)+1)
	for _, r := range rules {
		if r.Tier != tier {
			result = append(result, r)
		}
	}
	return result
}

func nextTier(current domain.LoyaltyTier, t domain.LoyaltyThresholds) (domain.LoyaltyTier, int, bool) {
	switch current {
	case domain.TierBronze:
		return domain.TierSilver, t.Silver, true
	case domain.TierSilver:
		return domain.TierGold, t.Gold, true
	default:
		return "", 0, false
	}
}
