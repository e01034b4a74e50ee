package add_client_allergy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/clients"
)

const (
	msgMissingTenantID    = "отсутствует ID салона"
	msgInvalidClientID    = "некорректный ID клиента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAllergy     = "некорректное название аллергии"
	msgNotFound           = "клиент не найден"
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

// Handle POST /api/v1/clients/{clientId}/allergies
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /clients/{id}/allergies - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	clientID, err := handlers.PathUUID(r, "clientId")
	if err != nil {
		h.logger.Warn("POST /clients/{id}/allergies - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	var req AddAllergyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clients/{id}/allergies - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	client, err := h.service.AddAllergy(r.Context(), tenantID, clientID, req.Allergy)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("POST /clients/{id}/allergies - Invalid allergy: id=%s, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidAllergy)

		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("POST /clients/{id}/allergies - Client not found: id=%s", clientID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("POST /clients/{id}/allergies - Failed to add allergy: id=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /clients/{id}/allergies - Allergy added: id=%s", clientID)
	handlers.RespondJSON(w, http.StatusOK, client)
}
