package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модели

// UpdatePolicyRequest запрос на изменение политики салона
// Поддерживает частичное обновление: меняются только указанные поля
type UpdatePolicyRequest struct {
	TenantID          uuid.UUID          `json:"-"`
	DepositPercentage *decimal.Decimal   `json:"depositPercentage,omitempty"`
	BufferTimeMinutes *int               `json:"bufferTimeMinutes,omitempty"`
	SlotStepMinutes   *int               `json:"slotStepMinutes,omitempty"`
	LoyaltyThresholds *ThresholdsDTO     `json:"loyaltyThresholds,omitempty"`
	BusinessHours     []BusinessHoursDTO `json:"businessHours,omitempty"` // Полная замена расписания
}

// ApplyTo применяет изменения к переопределениям салона
func (r *UpdatePolicyRequest) ApplyTo(p *domain.TenantPolicy) {
	if r.DepositPercentage != nil {
		p.DepositPercentage = decimal.NewNullDecimal(*r.DepositPercentage)
	}
	if r.BufferTimeMinutes != nil {
		p.BufferTimeMinutes = r.BufferTimeMinutes
	}
	if r.SlotStepMinutes != nil {
		p.SlotStepMinutes = r.SlotStepMinutes
	}
	if r.LoyaltyThresholds != nil {
		p.BronzeThreshold = &r.LoyaltyThresholds.Bronze
		p.SilverThreshold = &r.LoyaltyThresholds.Silver
		p.GoldThreshold = &r.LoyaltyThresholds.Gold
	}
}

// ThresholdsDTO минимальные баллы уровней лояльности
type ThresholdsDTO struct {
	Bronze int `json:"bronze"`
	Silver int `json:"silver"`
	Gold   int `json:"gold"`
}

// BusinessHoursDTO часы работы салона в один день недели
type BusinessHoursDTO struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 - воскресенье, 6 - суббота
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
	IsClosed  bool   `json:"isClosed"`
}

// ToDomain конвертирует DTO в domain модель с проверкой формата
func (h BusinessHoursDTO) ToDomain() (domain.BusinessHours, error) {
	if h.DayOfWeek < int(time.Sunday) || h.DayOfWeek > int(time.Saturday) {
		return domain.BusinessHours{}, fmt.Errorf("dayOfWeek must be between 0 and 6, got %d", h.DayOfWeek)
	}

	hours := domain.BusinessHours{
		DayOfWeek: time.Weekday(h.DayOfWeek),
		IsClosed:  h.IsClosed,
	}
	if h.IsClosed {
		return hours, nil
	}

	open, err := types.NewTimeStringFromString(h.OpenTime)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("openTime: %v", err)
	}
	closeTime, err := types.NewTimeStringFromString(h.CloseTime)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("closeTime: %v", err)
	}
	if !open.IsBefore(closeTime) {
		return domain.BusinessHours{}, fmt.Errorf("openTime must be before closeTime on day %d", h.DayOfWeek)
	}

	hours.OpenTime = open
	hours.CloseTime = closeTime
	return hours, nil
}

// Response модели

// PolicyResponse действующая политика салона (значения по умолчанию уже подставлены)
type PolicyResponse struct {
	TenantID          uuid.UUID          `json:"tenantId"`
	Name              string             `json:"name"`
	DepositPercentage string             `json:"depositPercentage"`
	BufferTimeMinutes int                `json:"bufferTimeMinutes"`
	SlotStepMinutes   int                `json:"slotStepMinutes"`
	LoyaltyThresholds ThresholdsDTO      `json:"loyaltyThresholds"`
	BusinessHours     []BusinessHoursDTO `json:"businessHours"`
	UpdatedAt         *time.Time         `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainPolicy собирает ответ из переопределений салона и действующей политики
func FromDomainPolicy(tenantID uuid.UUID, tenant *domain.TenantPolicy, effective domain.BookingPolicy) *PolicyResponse {
	resp := &PolicyResponse{
		TenantID:          tenantID,
		DepositPercentage: effective.DepositPercentage.String(),
		BufferTimeMinutes: effective.BufferTimeMinutes,
		SlotStepMinutes:   effective.SlotStepMinutes,
		LoyaltyThresholds: ThresholdsDTO{
			Bronze: effective.LoyaltyThresholds.Bronze,
			Silver: effective.LoyaltyThresholds.Silver,
			Gold:   effective.LoyaltyThresholds.Gold,
		},
		BusinessHours: make([]BusinessHoursDTO, 0, 7),
	}

	if tenant == nil {
		return resp
	}

	resp.Name = tenant.Name
	if !tenant.UpdatedAt.IsZero() {
		updatedAt := tenant.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	for _, h := range tenant.BusinessHours {
		resp.BusinessHours = append(resp.BusinessHours, BusinessHoursDTO{
			DayOfWeek: int(h.DayOfWeek),
			OpenTime:  h.OpenTime.String(),
			CloseTime: h.CloseTime.String(),
			IsClosed:  h.IsClosed,
		})
	}

	return resp
}
