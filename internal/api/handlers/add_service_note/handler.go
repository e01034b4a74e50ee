package add_service_note

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/clients"
	"github.com/m04kA/SMC-SalonService/internal/service/clients/models"
)

const (
	msgMissingTenantID      = "отсутствует ID салона"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidNote          = "некорректная заметка"
	msgAppointmentNotFound  = "запись не найдена"
	msgStaffNotFound        = "сотрудник не найден"
)

type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/notes - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	appointmentID, err := handlers.PathUUID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/notes - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req AddServiceNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	note, err := h.service.AddServiceNote(r.Context(), &models.AddServiceNoteRequest{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		StaffID:       req.StaffID,
		Content:       req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/notes - Invalid note: id=%s, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidNote+": "+handlers.ErrorDetail(err, clients.ErrInvalidInput))

		case errors.Is(err, clients.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/notes - Appointment not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, clients.ErrStaffNotFound):
			h.logger.Warn("POST /appointments/{id}/notes - Staff not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("POST /appointments/{id}/notes - Failed to add note: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/notes - Note added: id=%s, note=%s", appointmentID, note.ID)
	handlers.RespondJSON(w, http.StatusCreated, note)
}
