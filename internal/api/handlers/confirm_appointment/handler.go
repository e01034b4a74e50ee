package confirm_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
)

const (
	msgMissingTenantID      = "отсутствует ID салона"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgNotFound             = "запись не найдена"
	msgCannotConfirm        = "запись не может быть подтверждена"
	msgScheduleTaken        = "время сотрудника уже занято"
	msgConcurrentUpdate     = "запись изменяется параллельно, повторите запрос"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/confirm
// Подтверждение без регистрации платежа (депозит принят вне системы)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/confirm - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	appointmentID, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/confirm - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	appt, err := h.service.Confirm(r.Context(), tenantID, appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/confirm - Appointment not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/confirm - Cannot confirm: id=%s, error=%v", appointmentID, err)
			handlers.RespondConflict(w, msgCannotConfirm)

		case errors.Is(err, validate_appointment.ErrValidation):
			h.logger.Warn("POST /appointments/{id}/confirm - Schedule taken: id=%s", appointmentID)
			handlers.RespondValidationFailed(w, msgScheduleTaken, validate_appointment.Reasons(err))

		case errors.Is(err, appointments.ErrConcurrentUpdate):
			h.logger.Warn("POST /appointments/{id}/confirm - Concurrent update: id=%s", appointmentID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("POST /appointments/{id}/confirm - Failed to confirm appointment: id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/confirm - Appointment confirmed: id=%s, tenant=%s", appointmentID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, appt)
}
