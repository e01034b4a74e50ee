package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	policyRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-SalonService/internal/service/policy/models"
)

var maxPercentage = decimal.NewFromInt(domain.MaxPercentage)

// Service сервис политики салона: депозит, буфер, шаг слотов, пороги лояльности и часы работы
type Service struct {
	policyRepo PolicyRepository
	txManager  TransactionManager
	defaults   domain.BookingPolicy
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик
// defaults - значения из конфигурации, применяются там, где салон их не переопределил
func NewService(
	policyRepo PolicyRepository,
	txManager TransactionManager,
	defaults domain.BookingPolicy,
	logger Logger,
) *Service {
	return &Service{
		policyRepo: policyRepo,
		txManager:  txManager,
		defaults:   defaults,
		logger:     logger,
	}
}

// Effective возвращает действующую политику салона
// Салон без записи в хранилище получает значения по умолчанию
func (s *Service) Effective(ctx context.Context, tenantID uuid.UUID) (domain.BookingPolicy, error) {
	tenant, err := s.policyRepo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Effective: no policy for tenant=%s, using defaults", tenantID)
			return s.defaults, nil
		}
		s.logger.Error("Effective: repository error for tenant=%s: %v", tenantID, err)
		return domain.BookingPolicy{}, fmt.Errorf("%w: Effective - repository error: %v", ErrInternal, err)
	}

	return tenant.Resolve(s.defaults), nil
}

// BusinessHours возвращает часы работы салона в указанный день недели
// false - расписание на этот день не задано
func (s *Service) BusinessHours(ctx context.Context, tenantID uuid.UUID, day time.Weekday) (domain.BusinessHours, bool, error) {
	tenant, err := s.policyRepo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.BusinessHours{}, false, nil
		}
		s.logger.Error("BusinessHours: repository error for tenant=%s: %v", tenantID, err)
		return domain.BusinessHours{}, false, fmt.Errorf("%w: BusinessHours - repository error: %v", ErrInternal, err)
	}

	hours, ok := tenant.HoursFor(day)
	return hours, ok, nil
}

// Get получает политику салона вместе с часами работы
func (s *Service) Get(ctx context.Context, tenantID uuid.UUID) (*models.PolicyResponse, error) {
	s.logger.Info("Get: fetching policy for tenant=%s", tenantID)

	tenant, err := s.policyRepo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Get: tenant=%s not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("Get: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(tenantID, tenant, tenant.Resolve(s.defaults)), nil
}

// Update изменяет политику салона
// Поддерживает частичное обновление; расписание, если передано, заменяется целиком
func (s *Service) Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating policy for tenant=%s", req.TenantID)

	// 1. Проверяем формат расписания до обращения к хранилищу
	var hours []domain.BusinessHours
	if req.BusinessHours != nil {
		var err error
		hours, err = toDomainHours(req.BusinessHours)
		if err != nil {
			s.logger.Warn("Update: invalid business hours for tenant=%s: %v", req.TenantID, err)
			return nil, err
		}
	}

	var result *domain.TenantPolicy

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Получаем текущие переопределения
		current, err := s.policyRepo.Get(txCtx, req.TenantID)
		if err != nil {
			if errors.Is(err, policyRepo.ErrPolicyNotFound) {
				return ErrTenantNotFound
			}
			return fmt.Errorf("%w: Update - get policy: %v", ErrInternal, err)
		}

		// 3. Применяем изменения к копии и проверяем итоговую политику
		updated := *current
		req.ApplyTo(&updated)
		if err := validatePolicy(updated.Resolve(s.defaults)); err != nil {
			return err
		}

		// 4. Сохраняем
		saved, err := s.policyRepo.Update(txCtx, &updated)
		if err != nil {
			if errors.Is(err, policyRepo.ErrPolicyNotFound) {
				return ErrTenantNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if hours != nil {
			if err := s.policyRepo.ReplaceBusinessHours(txCtx, req.TenantID, hours); err != nil {
				return fmt.Errorf("%w: Update - replace business hours: %v", ErrInternal, err)
			}
			saved.BusinessHours = hours
		}

		result = saved
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTenantNotFound):
			s.logger.Warn("Update: tenant=%s not found", req.TenantID)
		case errors.Is(err, ErrInvalidInput):
			s.logger.Warn("Update: validation failed for tenant=%s: %v", req.TenantID, err)
		case errors.Is(err, ErrInternal):
			s.logger.Error("Update: failed for tenant=%s: %v", req.TenantID, err)
		default:
			s.logger.Error("Update: transaction failed for tenant=%s: %v", req.TenantID, err)
			return nil, fmt.Errorf("%w: Update - transaction: %v", ErrInternal, err)
		}
		return nil, err
	}

	s.logger.Info("Update: successfully updated policy for tenant=%s", req.TenantID)
	return models.FromDomainPolicy(req.TenantID, result, result.Resolve(s.defaults)), nil
}

// SetBusinessHours заменяет часы работы салона
func (s *Service) SetBusinessHours(ctx context.Context, tenantID uuid.UUID, dto []models.BusinessHoursDTO) (*models.PolicyResponse, error) {
	return s.Update(ctx, &models.UpdatePolicyRequest{
		TenantID:      tenantID,
		BusinessHours: nonNilHours(dto),
	})
}

func validatePolicy(p domain.BookingPolicy) error {
	if p.DepositPercentage.IsNegative() || p.DepositPercentage.GreaterThan(maxPercentage) {
		return fmt.Errorf("%w: depositPercentage must be between 0 and %d", ErrInvalidInput, domain.MaxPercentage)
	}
	if p.BufferTimeMinutes < 0 || p.BufferTimeMinutes > domain.MaxBufferTimeMinutes {
		return fmt.Errorf("%w: bufferTimeMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBufferTimeMinutes)
	}
	if p.SlotStepMinutes <= 0 || p.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxSlotStepMinutes)
	}
	if p.LoyaltyThresholds.Bronze < 0 {
		return fmt.Errorf("%w: loyalty thresholds must not be negative", ErrInvalidInput)
	}
	if !p.LoyaltyThresholds.IsOrdered() {
		return fmt.Errorf("%w: loyalty thresholds must satisfy bronze <= silver <= gold", ErrInvalidInput)
	}
	return nil
}

func toDomainHours(dto []models.BusinessHoursDTO) ([]domain.BusinessHours, error) {
	seen := make(map[int]bool, len(dto))
	hours := make([]domain.BusinessHours, 0, len(dto))

	for _, d := range dto {
		if seen[d.DayOfWeek] {
			return nil, fmt.Errorf("%w: duplicate dayOfWeek %d", ErrInvalidInput, d.DayOfWeek)
		}
		seen[d.DayOfWeek] = true

		h, err := d.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		hours = append(hours, h)
	}

	return hours, nil
}

// nonNilHours отличает "очистить расписание" от "не менять расписание"
func nonNilHours(dto []models.BusinessHoursDTO) []models.BusinessHoursDTO {
	if dto == nil {
		return []models.BusinessHoursDTO{}
	}
	return dto
}
