package refund_deposit

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/payments"
)

const (
	msgMissingTenantID      = "отсутствует ID салона"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgNotFound             = "запись не найдена"
	msgDepositNotPaid       = "депозит не был оплачен"
	msgAlreadyRefunded      = "депозит уже возвращен"
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

// Handle POST /api/v1/appointments/{appointmentId}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/refund - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	appointmentID, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/refund - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	refund, err := h.service.RefundDeposit(r.Context(), tenantID, appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/refund - Appointment not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrDepositNotPaid):
			h.logger.Warn("POST /appointments/{id}/refund - Deposit not paid: id=%s", appointmentID)
			handlers.RespondConflict(w, msgDepositNotPaid)

		case errors.Is(err, payments.ErrAlreadyRefunded):
			h.logger.Warn("POST /appointments/{id}/refund - Already refunded: id=%s", appointmentID)
			handlers.RespondConflict(w, msgAlreadyRefunded)

		case errors.Is(err, payments.ErrConcurrentUpdate):
			h.logger.Warn("POST /appointments/{id}/refund - Concurrent update: id=%s", appointmentID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("POST /appointments/{id}/refund - Failed to refund deposit: id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/refund - Deposit refunded: appointment=%s, amount=%s",
		appointmentID, refund.Amount)
	handlers.RespondJSON(w, http.StatusCreated, refund)
}
