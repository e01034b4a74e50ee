package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

// Service сервис жизненного цикла записей
// Владеет машиной состояний: PENDING -> CONFIRMED -> CHECK_IN -> COMPLETED, отмена из любого нетерминального
type Service struct {
	appointmentRepo AppointmentRepository
	availability    AvailabilityChecker
	policies        PolicyProvider
	publisher       EventPublisher
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	availability AvailabilityChecker,
	policies PolicyProvider,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		policies:        policies,
		publisher:       publisher,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись салона по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for tenant=%s", id, tenantID)

	appt, err := s.appointmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// List получает записи салона с фильтрацией по сотруднику, клиенту, статусу и периоду
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for tenant=%s", req.TenantID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments for tenant=%s", len(appointments), req.TenantID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Confirm подтверждает запись после оплаты депозита: PENDING -> CONFIRMED, depositPaid = true
// Занятость сотрудника проверяется повторно (без самой записи) в той же сериализуемой транзакции
// Хуки выполняются в транзакции подтверждения (например, сохранение платежа)
func (s *Service) Confirm(ctx context.Context, tenantID, id uuid.UUID, hooks ...TxHook) (*models.AppointmentResponse, error) {
	return s.transition(ctx, "Confirm", tenantID, id, domain.StatusConfirmed, hooks)
}

// Cancel отменяет запись из любого нетерминального статуса
// Повторная отмена возвращает уже отмененную запись без изменений
func (s *Service) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*models.AppointmentResponse, error) {
	return s.transition(ctx, "Cancel", tenantID, id, domain.StatusCancelled, nil)
}

// CheckIn отмечает приход клиента: CONFIRMED -> CHECK_IN
func (s *Service) CheckIn(ctx context.Context, tenantID, id uuid.UUID) (*models.AppointmentResponse, error) {
	return s.transition(ctx, "CheckIn", tenantID, id, domain.StatusCheckIn, nil)
}

// Complete завершает обслуживание: CHECK_IN -> COMPLETED
func (s *Service) Complete(ctx context.Context, tenantID, id uuid.UUID) (*models.AppointmentResponse, error) {
	return s.transition(ctx, "Complete", tenantID, id, domain.StatusCompleted, nil)
}

// UpdateStatus переводит запись в указанный статус
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.AppointmentResponse, error) {
	target, err := domain.ParseAppointmentStatus(status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", status, id)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if target == domain.StatusPending {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, "any", target)
	}

	return s.transition(ctx, "UpdateStatus", tenantID, id, target, nil)
}

// transition выполняет переход статуса в сериализуемой транзакции
func (s *Service) transition(
	ctx context.Context,
	op string,
	tenantID, id uuid.UUID,
	target domain.AppointmentStatus,
	hooks []TxHook,
) (*models.AppointmentResponse, error) {
	s.logger.Info("%s: appointment id=%s, tenant=%s, target=%s", op, id, tenantID, target)

	var result *domain.Appointment
	changed := false

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем запись с блокировкой строки
		appt, err := s.appointmentRepo.GetByID(txCtx, tenantID, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: %s - get appointment: %w", ErrInternal, op, err)
		}

		// 2. Повторный переход в тот же статус ничего не меняет
		if appt.Status == target {
			result = appt
			return nil
		}

		// 3. Проверяем таблицу переходов
		if !appt.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
		}

		now := s.timeProvider.Now()
		switch target {
		case domain.StatusConfirmed:
			// 4. Пока запись была PENDING, время могли занять
			if err := s.checkStillAvailable(txCtx, appt); err != nil {
				return err
			}
			appt.DepositPaid = true
		case domain.StatusCancelled:
			appt.CancelledAt = &now
		}
		appt.Status = target

		// 5. Хуки вызывающего (например, сохранение платежа)
		for _, hook := range hooks {
			if err := hook(txCtx, appt); err != nil {
				return err
			}
		}

		// 6. Сохраняем статус
		updated, err := s.appointmentRepo.UpdateStatus(txCtx, appt)
		if err != nil {
			switch {
			case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
				return ErrAppointmentNotFound
			case errors.Is(err, appointmentRepo.ErrScheduleConflict):
				return validate_appointment.NewValidationError(domain.ReasonScheduleNotAvailable)
			}
			return fmt.Errorf("%w: %s - update status: %w", ErrInternal, op, err)
		}

		result = updated
		changed = true
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			s.logger.Warn("%s: appointment id=%s not found", op, id)
		case errors.Is(err, ErrInvalidTransition), errors.Is(err, validate_appointment.ErrValidation):
			s.logger.Warn("%s: appointment id=%s rejected: %v", op, id, err)
		case errors.Is(err, txmanager.ErrSerialization):
			s.logger.Warn("%s: concurrent update of appointment id=%s: %v", op, id, err)
			return nil, ErrConcurrentUpdate
		case errors.Is(err, txmanager.ErrBeginTx), errors.Is(err, txmanager.ErrCommitTx):
			s.logger.Error("%s: transaction failed for appointment id=%s: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - transaction: %v", ErrInternal, op, err)
		default:
			s.logger.Error("%s: failed for appointment id=%s: %v", op, id, err)
		}
		return nil, err
	}

	if !changed {
		s.logger.Info("%s: appointment id=%s already %s, nothing to do", op, id, target)
		return models.FromDomainAppointment(result), nil
	}

	s.logger.Info("%s: appointment id=%s is now %s", op, id, result.Status)

	// Если переход выполнен внутри транзакции вызывающего, метрика и событие ждут её коммита;
	// сбой публикации не отменяет переход
	event := events.NewAppointmentEvent(events.TypeForStatus(target), result, s.timeProvider.Now())
	txmanager.AfterCommit(ctx, func() {
		s.metrics.IncAppointmentTransition(string(target))
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("%s: failed to publish event for id=%s: %v", op, id, err)
		}
	})

	return models.FromDomainAppointment(result), nil
}

// checkStillAvailable повторно проверяет занятость сотрудника без учета самой записи
func (s *Service) checkStillAvailable(ctx context.Context, appt *domain.Appointment) error {
	policy, err := s.policies.Effective(ctx, appt.TenantID)
	if err != nil {
		return fmt.Errorf("%w: get policy: %v", ErrInternal, err)
	}

	available, err := s.availability.IsAvailable(ctx, &validate_appointment.Input{
		TenantID:             appt.TenantID,
		StaffID:              appt.StaffID,
		ServiceID:            appt.ServiceID,
		StartTime:            appt.StartTime,
		EndTime:              appt.EndTime,
		ExcludeAppointmentID: &appt.ID,
	}, policy)
	if err != nil {
		return fmt.Errorf("%w: check availability: %w", ErrInternal, err)
	}
	if !available {
		return validate_appointment.NewValidationError(domain.ReasonScheduleNotAvailable)
	}

	return nil
}
