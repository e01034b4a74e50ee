package record_deposit

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/payments"
	"github.com/m04kA/SMC-SalonService/internal/service/payments/models"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
)

const (
	msgMissingTenantID      = "отсутствует ID салона"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAmount        = "сумма должна быть положительной"
	msgNotFound             = "запись не найдена"
	msgInsufficientDeposit  = "сумма меньше депозита записи"
	msgAlreadyPaid          = "депозит уже оплачен"
	msgCannotConfirm        = "запись не может быть подтверждена"
	msgScheduleTaken        = "время сотрудника уже занято"
	msgConcurrentUpdate     = "запись изменяется параллельно, повторите запрос"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/deposit
// Тело опционально: без amount оплачивается ровно депозит записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/deposit - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	appointmentID, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/deposit - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req models.RecordDepositRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /appointments/{id}/deposit - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}
	req.TenantID = tenantID
	req.AppointmentID = appointmentID

	result, err := h.service.RecordDeposit(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/deposit - Invalid amount: id=%s", appointmentID)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, payments.ErrInsufficientDeposit):
			h.logger.Warn("POST /appointments/{id}/deposit - Insufficient amount: id=%s, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInsufficientDeposit)

		case errors.Is(err, validate_appointment.ErrValidation):
			h.logger.Warn("POST /appointments/{id}/deposit - Schedule taken: id=%s", appointmentID)
			handlers.RespondValidationFailed(w, msgScheduleTaken, validate_appointment.Reasons(err))

		case errors.Is(err, payments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/deposit - Appointment not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrDepositAlreadyPaid):
			h.logger.Warn("POST /appointments/{id}/deposit - Already paid: id=%s", appointmentID)
			handlers.RespondConflict(w, msgAlreadyPaid)

		case errors.Is(err, payments.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/deposit - Cannot confirm: id=%s, error=%v", appointmentID, err)
			handlers.RespondConflict(w, msgCannotConfirm)

		case errors.Is(err, payments.ErrConcurrentUpdate):
			h.logger.Warn("POST /appointments/{id}/deposit - Concurrent update: id=%s", appointmentID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("POST /appointments/{id}/deposit - Failed to record deposit: id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/deposit - Deposit recorded: appointment=%s, payment=%s, amount=%s",
		appointmentID, result.Payment.ID, result.Payment.Amount)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
