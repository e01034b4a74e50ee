package remove_client_allergy

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/clients"
)

const (
	msgMissingTenantID = "отсутствует ID салона"
	msgInvalidClientID = "некорректный ID клиента"
	msgMissingAllergy  = "название аллергии обязательно"
	msgNotFound        = "клиент не найден"
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

// Handle DELETE /api/v1/clients/{clientId}/allergies/{allergy}
// Удаление отсутствующей аллергии ничего не меняет
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /clients/{id}/allergies/{allergy} - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	clientID, err := handlers.PathUUID(r, "clientId")
	if err != nil {
		h.logger.Warn("DELETE /clients/{id}/allergies/{allergy} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	allergy := mux.Vars(r)["allergy"]
	if allergy == "" {
		h.logger.Warn("DELETE /clients/{id}/allergies/{allergy} - Missing allergy")
		handlers.RespondBadRequest(w, msgMissingAllergy)
		return
	}

	client, err := h.service.RemoveAllergy(r.Context(), tenantID, clientID, allergy)
	if err != nil {
		if errors.Is(err, clients.ErrClientNotFound) {
			h.logger.Warn("DELETE /clients/{id}/allergies/{allergy} - Client not found: id=%s", clientID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("DELETE /clients/{id}/allergies/{allergy} - Failed to remove allergy: id=%s, error=%v",
			clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /clients/{id}/allergies/{allergy} - Allergy removed: id=%s", clientID)
	handlers.RespondJSON(w, http.StatusOK, client)
}
