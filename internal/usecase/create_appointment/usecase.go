package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	validator       Validator
	policies        PolicyProvider
	publisher       EventPublisher
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	validator Validator,
	policies PolicyProvider,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		validator:       validator,
		policies:        policies,
		publisher:       publisher,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка и вставка выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateAppointment: tenant=%s, client=%s, staff=%s, service=%s, start=%s",
		req.TenantID, req.ClientID, req.StaffID, req.ServiceID, req.StartTime.Format("2006-01-02T15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Действующая политика салона
	policy, err := uc.policies.Effective(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get policy for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	// 3. Клиент существует в салоне
	if _, err := uc.clientRepo.GetByID(ctx, req.TenantID, req.ClientID); err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client id=%s not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client id=%s: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	var result *domain.Appointment

	// 4. Проверка и сохранение в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		in := &validate_appointment.Input{
			TenantID:  req.TenantID,
			StaffID:   req.StaffID,
			ServiceID: req.ServiceID,
			StartTime: req.StartTime,
			EndTime:   ptr.Value(req.EndTime),
		}

		// 4.1. Все проверки записи (сотрудник, услуга, специализация, занятость)
		validation, err := uc.validator.Validate(txCtx, in, policy)
		if err != nil {
			return fmt.Errorf("%w: failed to validate appointment: %w", ErrInternal, err)
		}
		if !validation.Valid {
			for _, reason := range validation.Errors {
				uc.metrics.IncValidationFailure(reason)
			}
			return validation.Err()
		}

		// 4.2. Цена по уровню сотрудника и депозит по политике салона
		totalPrice := domain.ResolvePrice(validation.Staff.Level, validation.Service)
		deposit := domain.DepositAmount(totalPrice, policy.DepositPercentage)

		appt := &domain.Appointment{
			TenantID:      req.TenantID,
			ClientID:      req.ClientID,
			StaffID:       req.StaffID,
			ServiceID:     req.ServiceID,
			StartTime:     req.StartTime,
			EndTime:       validation.EndTime,
			Status:        domain.StatusPending,
			DepositPaid:   false,
			DepositAmount: deposit,
			TotalPrice:    totalPrice,
			Notes:         trimNotes(req.Notes),
		}

		// 4.3. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrScheduleConflict) {
				uc.metrics.IncValidationFailure(domain.ReasonScheduleNotAvailable)
				return validate_appointment.NewValidationError(domain.ReasonScheduleNotAvailable)
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, validate_appointment.ErrValidation):
			uc.logger.Warn("CreateAppointment: rejected: %v", err)
			return nil, err
		case errors.Is(err, txmanager.ErrSerialization):
			uc.logger.Warn("CreateAppointment: concurrent booking of staff=%s: %v", req.StaffID, err)
			return nil, ErrConcurrentUpdate
		case errors.Is(err, ErrInternal):
			return nil, err
		default:
			uc.logger.Error("CreateAppointment: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.metrics.IncAppointmentCreated()
	uc.logger.Info("CreateAppointment: successfully created appointment id=%s, total=%s, deposit=%s",
		result.ID, result.TotalPrice.StringFixed(2), result.DepositAmount.StringFixed(2))

	// 5. Событие публикуется после коммита; сбой публикации не отменяет запись
	event := events.NewAppointmentEvent(events.AppointmentCreated, result, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish event for id=%s: %v", result.ID, err)
	}

	return result, nil
}

// trimNotes убирает пробелы по краям, пустые заметки не сохраняются
func trimNotes(notes *string) *string {
	trimmed := strings.TrimSpace(ptr.Value(notes))
	if trimmed == "" {
		return nil
	}
	return ptr.Ptr(trimmed)
}
