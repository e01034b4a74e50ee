package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
)

// UseCase use case для получения свободных слотов сотрудника на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	policies        PolicyProvider
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	policies PolicyProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		policies:        policies,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%s, staff=%s, service=%s, date=%s",
		req.TenantID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем активного сотрудника
	staff, err := uc.catalogRepo.GetStaff(ctx, req.TenantID, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%s not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.IsActive {
		uc.logger.Warn("GetAvailableSlots: staff id=%s is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}

	// 4. Получаем активную услугу
	service, err := uc.catalogRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%s is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Сотрудник выполняет услуги этой категории
	if category, ok := service.RequiresSkill(); ok && !staff.HasSkill(category) {
		uc.logger.Warn("GetAvailableSlots: staff id=%s lacks specialty %s", req.StaffID, category)
		return nil, fmt.Errorf("%w: %s", ErrStaffLacksSpecialty, category)
	}

	response := &Response{
		Date:            req.Date,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	// 6. Политика салона (шаг сетки и буфер)
	policy, err := uc.policies.Effective(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	// 7. Часы работы на день недели
	hours, ok, err := uc.policies.BusinessHours(ctx, req.TenantID, req.Date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
	if !ok || !hours.IsOpen() {
		uc.logger.Info("GetAvailableSlots: salon is closed on %s", req.Date.Format(domain.DateFormat))
		return response, nil
	}

	open, err := hours.OpenTime.On(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}
	closeAt, err := hours.CloseTime.On(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
	}

	// 8. Кандидаты с шагом сетки
	step := policy.SlotStep()
	if step <= 0 {
		step = service.Duration()
	}
	starts := generateCandidateStarts(open, closeAt, step, service.Duration(), now)
	if len(starts) == 0 {
		return response, nil
	}

	// 9. Занятые интервалы сотрудника в окне рабочего дня с учетом буфера
	buffer := policy.Buffer()
	from := open.Add(-buffer)
	to := closeAt.Add(buffer)
	existing, err := uc.appointmentRepo.List(ctx, domain.AppointmentFilter{
		TenantID: req.TenantID,
		StaffID:  &req.StaffID,
		Statuses: domain.BlockingStatuses,
		From:     &from,
		To:       &to,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// 10. Оставляем свободные слоты
	response.Slots = filterAvailable(starts, service.Duration(), domain.BusyIntervals(existing), buffer)

	uc.logger.Info("GetAvailableSlots: %d of %d slots free for staff=%s on %s",
		len(response.Slots), len(starts), req.StaffID, req.Date.Format(domain.DateFormat))

	return response, nil
}
