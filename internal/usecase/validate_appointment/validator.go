package validate_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
)

// Validator проверяет возможность записи: сотрудник, услуга, специализация, занятость
type Validator struct {
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewValidator создает новый экземпляр валидатора
func NewValidator(
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *Validator {
	return &Validator{
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Validate выполняет все проверки без досрочного выхода и возвращает все причины отказа.
// Ошибка возвращается только при сбое хранилища.
// Чтобы проверка занятости была атомарной со вставкой, вызывать внутри сериализуемой транзакции.
func (v *Validator) Validate(ctx context.Context, in *Input, policy domain.BookingPolicy) (*Result, error) {
	result := &Result{Errors: make([]string, 0)}

	// 1. Сотрудник существует в салоне и не деактивирован
	staff, err := v.catalogRepo.GetStaff(ctx, in.TenantID, in.StaffID)
	switch {
	case errors.Is(err, catalogRepo.ErrStaffNotFound):
		result.Errors = append(result.Errors, domain.ReasonStaffNotValid)
	case err == nil && !staff.IsActive:
		staff = nil
		result.Errors = append(result.Errors, domain.ReasonStaffNotValid)
	case err != nil:
		v.logger.Error("ValidateAppointment: failed to get staff id=%s: %v", in.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
	default:
		result.Staff = staff
	}

	// 2. Услуга существует в салоне и не снята с продажи
	service, err := v.catalogRepo.GetService(ctx, in.TenantID, in.ServiceID)
	switch {
	case errors.Is(err, catalogRepo.ErrServiceNotFound):
		result.Errors = append(result.Errors, domain.ReasonServiceNotValid)
	case err == nil && !service.IsActive:
		service = nil
		result.Errors = append(result.Errors, domain.ReasonServiceNotValid)
	case err != nil:
		v.logger.Error("ValidateAppointment: failed to get service id=%s: %v", in.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	default:
		result.Service = service
	}

	// 3. У сотрудника есть специализация, которую требует услуга
	if staff != nil && service != nil {
		if category, ok := service.RequiresSkill(); ok && !staff.HasSkill(category) {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", domain.ReasonStaffLacksSpecialty, category))
		}
	}

	// 4. Время свободно с учетом буфера
	// Без времени окончания запись длится столько, сколько длится услуга
	checked := *in
	if checked.EndTime.IsZero() && service != nil {
		checked.EndTime = in.StartTime.Add(service.Duration())
	}
	result.EndTime = checked.EndTime

	candidate := domain.Interval{Start: checked.StartTime, End: checked.EndTime}
	switch {
	case checked.EndTime.IsZero():
		// длительность неизвестна: услуга не найдена, причина уже добавлена
	case !candidate.IsValid():
		result.Errors = append(result.Errors, domain.ReasonInvalidTimeRange)
	default:
		available, err := v.IsAvailable(ctx, &checked, policy)
		if err != nil {
			return nil, err
		}
		if !available {
			result.Errors = append(result.Errors, domain.ReasonScheduleNotAvailable)
		}
	}

	result.Valid = len(result.Errors) == 0
	if !result.Valid {
		v.logger.Warn("ValidateAppointment: staff=%s, service=%s, start=%s rejected: %v",
			in.StaffID, in.ServiceID, in.StartTime.Format("2006-01-02T15:04"), result.Errors)
	}

	return result, nil
}

// IsAvailable проверяет, что интервал не пересекается с подтвержденными записями сотрудника
// (CONFIRMED, CHECK_IN) с учетом буфера салона
func (v *Validator) IsAvailable(ctx context.Context, in *Input, policy domain.BookingPolicy) (bool, error) {
	buffer := policy.Buffer()
	from := in.StartTime.Add(-buffer)
	to := in.EndTime.Add(buffer)

	// Выбираем только записи, попадающие в окно [start-buffer, end+buffer]:
	// ровно они могут конфликтовать с кандидатом
	existing, err := v.appointmentRepo.List(ctx, domain.AppointmentFilter{
		TenantID:  in.TenantID,
		StaffID:   &in.StaffID,
		Statuses:  domain.BlockingStatuses,
		From:      &from,
		To:        &to,
		ExcludeID: in.ExcludeAppointmentID,
	})
	if err != nil {
		v.logger.Error("ValidateAppointment: failed to list appointments of staff id=%s: %v", in.StaffID, err)
		return false, fmt.Errorf("%w: failed to list appointments: %w", ErrInternal, err)
	}

	candidate := domain.Interval{Start: in.StartTime, End: in.EndTime}
	return domain.IsSlotAvailable(candidate, domain.BusyIntervals(existing), buffer), nil
}
