package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonService/internal/service/payments/models"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

// Service сервис учета платежей салона (без интеграции с платежным шлюзом)
type Service struct {
	paymentRepo     PaymentRepository
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	lifecycle       AppointmentLifecycle
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	paymentRepo PaymentRepository,
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	lifecycle AppointmentLifecycle,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		lifecycle:       lifecycle,
		txManager:       txManager,
		logger:          logger,
	}
}

// RecordDeposit регистрирует оплату депозита и подтверждает запись в одной транзакции
// Сумма меньше депозита записи - ErrInsufficientDeposit; запись уже подтверждена - ErrDepositAlreadyPaid
func (s *Service) RecordDeposit(ctx context.Context, req *models.RecordDepositRequest) (*models.DepositResponse, error) {
	s.logger.Info("RecordDeposit: appointment id=%s, tenant=%s", req.AppointmentID, req.TenantID)

	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	var payment *domain.Payment
	var confirmed *models.DepositResponse

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Платеж сохраняется хуком внутри перехода PENDING -> CONFIRMED
		savePayment := func(hookCtx context.Context, appt *domain.Appointment) error {
			amount := appt.DepositAmount
			if req.Amount != nil {
				amount = *req.Amount
			}
			if amount.LessThan(appt.DepositAmount) {
				return fmt.Errorf("%w: required %s, got %s",
					ErrInsufficientDeposit, appt.DepositAmount.StringFixed(2), amount.StringFixed(2))
			}

			created, err := s.paymentRepo.Create(hookCtx, &domain.Payment{
				TenantID:      appt.TenantID,
				ClientID:      appt.ClientID,
				AppointmentID: &appt.ID,
				Amount:        amount,
				Type:          domain.PaymentDeposit,
				Status:        domain.PaymentCompleted,
				ExternalRef:   req.ExternalRef,
			})
			if err != nil {
				return fmt.Errorf("%w: RecordDeposit - create payment: %w", ErrInternal, err)
			}

			payment = created
			return nil
		}

		appt, err := s.lifecycle.Confirm(txCtx, req.TenantID, req.AppointmentID, savePayment)
		if err != nil {
			return err
		}

		// Хук не вызывался: запись уже была подтверждена
		if payment == nil {
			return ErrDepositAlreadyPaid
		}

		confirmed = &models.DepositResponse{
			Payment:     models.FromDomainPayment(payment),
			Appointment: *appt,
		}
		return nil
	})
	if err != nil {
		return nil, s.mapConfirmError("RecordDeposit", req.AppointmentID, err)
	}

	s.logger.Info("RecordDeposit: payment id=%s recorded, appointment id=%s confirmed",
		payment.ID, req.AppointmentID)
	return confirmed, nil
}

// RecordFullPayment регистрирует полную оплату услуги
func (s *Service) RecordFullPayment(ctx context.Context, req *models.RecordFullPaymentRequest) (*models.PaymentResponse, error) {
	s.logger.Info("RecordFullPayment: tenant=%s, appointment=%v", req.TenantID, req.AppointmentID)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if req.ClientID == nil && req.AppointmentID == nil {
		return nil, fmt.Errorf("%w: clientId or appointmentId is required", ErrInvalidInput)
	}

	payment := &domain.Payment{
		TenantID:      req.TenantID,
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Type:          domain.PaymentFull,
		Status:        domain.PaymentCompleted,
		ExternalRef:   req.ExternalRef,
	}
	if req.ClientID != nil {
		payment.ClientID = *req.ClientID
	}

	// Клиент берется из записи; указанный клиент должен с ней совпадать
	if req.AppointmentID != nil {
		appt, err := s.appointmentRepo.GetByID(ctx, req.TenantID, *req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("RecordFullPayment: appointment id=%s not found", *req.AppointmentID)
				return nil, ErrAppointmentNotFound
			}
			s.logger.Error("RecordFullPayment: failed to get appointment id=%s: %v", *req.AppointmentID, err)
			return nil, fmt.Errorf("%w: RecordFullPayment - get appointment: %v", ErrInternal, err)
		}
		if req.ClientID != nil && *req.ClientID != appt.ClientID {
			return nil, fmt.Errorf("%w: appointment belongs to another client", ErrInvalidInput)
		}
		payment.ClientID = appt.ClientID
	}

	created, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		s.logger.Error("RecordFullPayment: repository error: %v", err)
		return nil, fmt.Errorf("%w: RecordFullPayment - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RecordFullPayment: payment id=%s recorded", created.ID)
	resp := models.FromDomainPayment(created)
	return &resp, nil
}

// RefundDeposit возвращает депозит записи: платеж PENALTY_REFUND на минус сумму депозита
// Возможен только для оплаченного депозита и не более одного раза
func (s *Service) RefundDeposit(ctx context.Context, tenantID, appointmentID uuid.UUID) (*models.PaymentResponse, error) {
	s.logger.Info("RefundDeposit: appointment id=%s, tenant=%s", appointmentID, tenantID)

	var refund *domain.Payment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем запись с блокировкой строки
		appt, err := s.appointmentRepo.GetByID(txCtx, tenantID, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: RefundDeposit - get appointment: %w", ErrInternal, err)
		}
		if !appt.DepositPaid {
			return ErrDepositNotPaid
		}

		// 2. Проверяем, что возврата еще не было
		refundType := domain.PaymentPenaltyRefund
		existing, err := s.paymentRepo.List(txCtx, domain.PaymentFilter{
			TenantID:      tenantID,
			AppointmentID: &appointmentID,
			Type:          &refundType,
		})
		if err != nil {
			return fmt.Errorf("%w: RefundDeposit - list payments: %w", ErrInternal, err)
		}
		if len(existing) > 0 {
			return ErrAlreadyRefunded
		}

		// 3. Сохраняем возврат
		created, err := s.paymentRepo.Create(txCtx, &domain.Payment{
			TenantID:      tenantID,
			ClientID:      appt.ClientID,
			AppointmentID: &appt.ID,
			Amount:        appt.DepositAmount.Neg(),
			Type:          domain.PaymentPenaltyRefund,
			Status:        domain.PaymentCompleted,
		})
		if err != nil {
			return fmt.Errorf("%w: RefundDeposit - create payment: %w", ErrInternal, err)
		}

		refund = created
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			s.logger.Warn("RefundDeposit: appointment id=%s not found", appointmentID)
		case errors.Is(err, ErrDepositNotPaid), errors.Is(err, ErrAlreadyRefunded):
			s.logger.Warn("RefundDeposit: appointment id=%s rejected: %v", appointmentID, err)
		case errors.Is(err, txmanager.ErrSerialization):
			s.logger.Warn("RefundDeposit: concurrent update of appointment id=%s: %v", appointmentID, err)
			return nil, ErrConcurrentUpdate
		case errors.Is(err, ErrInternal):
			s.logger.Error("RefundDeposit: failed for appointment id=%s: %v", appointmentID, err)
		default:
			s.logger.Error("RefundDeposit: transaction failed for appointment id=%s: %v", appointmentID, err)
			return nil, fmt.Errorf("%w: RefundDeposit - transaction: %v", ErrInternal, err)
		}
		return nil, err
	}

	s.logger.Info("RefundDeposit: refund id=%s of %s recorded", refund.ID, refund.Amount.StringFixed(2))
	resp := models.FromDomainPayment(refund)
	return &resp, nil
}

// CashCloseSummary возвращает итоги кассы за календарный день (в часовом поясе date)
func (s *Service) CashCloseSummary(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.CashCloseResponse, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	s.logger.Info("CashCloseSummary: tenant=%s, date=%s", tenantID, dayStart.Format(domain.DateFormat))

	payments, err := s.paymentRepo.List(ctx, domain.PaymentFilter{
		TenantID: tenantID,
		From:     &dayStart,
		To:       &dayEnd,
	})
	if err != nil {
		s.logger.Error("CashCloseSummary: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: CashCloseSummary - repository error: %v", ErrInternal, err)
	}

	deposits, full, refunds, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	byType := map[string]int{
		string(domain.PaymentDeposit):       0,
		string(domain.PaymentFull):          0,
		string(domain.PaymentPenaltyRefund): 0,
	}

	for _, p := range payments {
		switch p.Type {
		case domain.PaymentDeposit:
			deposits = deposits.Add(p.Amount)
		case domain.PaymentFull:
			full = full.Add(p.Amount)
		case domain.PaymentPenaltyRefund:
			refunds = refunds.Add(p.Amount.Abs())
		}
		net = net.Add(p.Amount)
		byType[string(p.Type)]++
	}

	return &models.CashCloseResponse{
		Date: dayStart.Format(domain.DateFormat),
		Summary: models.CashCloseSummary{
			TotalDeposits:     deposits.StringFixed(2),
			TotalFullPayments: full.StringFixed(2),
			TotalRefunds:      refunds.StringFixed(2),
			NetTotal:          net.StringFixed(2),
			TransactionCount:  len(payments),
			PaymentsByType:    byType,
		},
		Payments: models.FromDomainPaymentList(payments),
	}, nil
}

// StaffCommissions считает комиссии сотрудника за месяц по завершенным записям (по времени начала)
func (s *Service) StaffCommissions(ctx context.Context, tenantID, staffID uuid.UUID, month time.Time) (*models.CommissionsResponse, error) {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	s.logger.Info("StaffCommissions: staff id=%s, tenant=%s, period=%s",
		staffID, tenantID, monthStart.Format(domain.MonthFormat))

	staff, err := s.staffRepo.GetStaff(ctx, tenantID, staffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			s.logger.Warn("StaffCommissions: staff id=%s not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("StaffCommissions: failed to get staff id=%s: %v", staffID, err)
		return nil, fmt.Errorf("%w: StaffCommissions - get staff: %v", ErrInternal, err)
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		TenantID: tenantID,
		StaffID:  &staffID,
		Statuses: []domain.AppointmentStatus{domain.StatusCompleted},
		From:     &monthStart,
		To:       &monthEnd,
	})
	if err != nil {
		s.logger.Error("StaffCommissions: failed to list appointments for staff id=%s: %v", staffID, err)
		return nil, fmt.Errorf("%w: StaffCommissions - list appointments: %v", ErrInternal, err)
	}

	revenue, commissions := decimal.Zero, decimal.Zero
	lines := make([]models.CommissionLine, 0, len(appointments))
	for _, a := range appointments {
		// Окно репозитория пересекается по интервалу, месяц считается по началу записи
		if a.StartTime.Before(monthStart) || !a.StartTime.Before(monthEnd) {
			continue
		}

		commission := domain.Commission(a.TotalPrice, staff.CommissionRate)
		revenue = revenue.Add(a.TotalPrice)
		commissions = commissions.Add(commission)
		lines = append(lines, models.CommissionLine{
			AppointmentID: a.ID,
			StartTime:     a.StartTime,
			TotalPrice:    a.TotalPrice.StringFixed(2),
			Commission:    commission.StringFixed(2),
		})
	}

	return &models.CommissionsResponse{
		StaffID:          staff.ID,
		StaffName:        staff.FullName(),
		Period:           monthStart.Format(domain.MonthFormat),
		CommissionRate:   staff.CommissionRate.String(),
		AppointmentCount: len(lines),
		TotalRevenue:     revenue.StringFixed(2),
		TotalCommissions: commissions.StringFixed(2),
		Appointments:     lines,
	}, nil
}

// ClientPayments возвращает историю платежей клиента, новые первыми
func (s *Service) ClientPayments(ctx context.Context, tenantID, clientID uuid.UUID) (*models.PaymentListResponse, error) {
	s.logger.Info("ClientPayments: client id=%s, tenant=%s", clientID, tenantID)

	payments, err := s.paymentRepo.List(ctx, domain.PaymentFilter{
		TenantID: tenantID,
		ClientID: &clientID,
	})
	if err != nil {
		s.logger.Error("ClientPayments: repository error for client id=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: ClientPayments - repository error: %v", ErrInternal, err)
	}

	return &models.PaymentListResponse{Payments: models.FromDomainPaymentList(payments)}, nil
}

// mapConfirmError приводит ошибки подтверждения записи к ошибкам сервиса платежей
func (s *Service) mapConfirmError(op string, appointmentID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		s.logger.Warn("%s: appointment id=%s not found", op, appointmentID)
		return ErrAppointmentNotFound
	case errors.Is(err, appointments.ErrInvalidTransition):
		s.logger.Warn("%s: appointment id=%s: %v", op, appointmentID, err)
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	case errors.Is(err, appointments.ErrConcurrentUpdate), errors.Is(err, txmanager.ErrSerialization):
		s.logger.Warn("%s: concurrent update of appointment id=%s: %v", op, appointmentID, err)
		return ErrConcurrentUpdate
	case errors.Is(err, ErrInsufficientDeposit), errors.Is(err, ErrDepositAlreadyPaid),
		errors.Is(err, validate_appointment.ErrValidation):
		s.logger.Warn("%s: appointment id=%s rejected: %v", op, appointmentID, err)
		return err
	}

	s.logger.Error("%s: failed for appointment id=%s: %v", op, appointmentID, err)
	if errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
}
