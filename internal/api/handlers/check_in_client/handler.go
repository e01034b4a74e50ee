package check_in_client

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonService/internal/service/clients"
)

const (
	msgMissingTenantID    = "отсутствует ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingQRCode      = "QR-код обязателен"
	msgInvalidTimezone    = "некорректный часовой пояс"
	msgClientNotFound     = "клиент не найден"
	msgCannotCheckIn      = "невозможно отметить приход по записи"
	msgConcurrentUpdate   = "запись изменяется параллельно, повторите запрос"
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

// Handle POST /api/v1/clients/check-in?tz=Europe/Madrid
// Если на сегодня нет подтвержденной записи, возвращается только клиент
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /clients/check-in - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	var req CheckInRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clients/check-in - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	loc, err := ParseLocation(r.URL.Query().Get("tz"))
	if err != nil {
		h.logger.Warn("POST /clients/check-in - Invalid timezone: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimezone)
		return
	}

	result, err := h.service.CheckInByQR(r.Context(), tenantID, req.QRCode, loc)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("POST /clients/check-in - Missing QR code")
			handlers.RespondBadRequest(w, msgMissingQRCode)

		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("POST /clients/check-in - Unknown QR code: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("POST /clients/check-in - Cannot check in: tenant=%s, error=%v", tenantID, err)
			handlers.RespondConflict(w, msgCannotCheckIn)

		case errors.Is(err, appointments.ErrConcurrentUpdate):
			h.logger.Warn("POST /clients/check-in - Concurrent update: tenant=%s", tenantID)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("POST /clients/check-in - Failed to check in: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Appointment != nil {
		h.logger.Info("POST /clients/check-in - Client checked in: client=%s, appointment=%s",
			result.Client.ID, result.Appointment.ID)
	} else {
		h.logger.Info("POST /clients/check-in - Client identified without appointment today: client=%s",
			result.Client.ID)
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
