package get_loyalty_benefits

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/loyalty"
)

const (
	msgMissingTenantID = "отсутствует ID салона"
	msgInvalidClientID = "некорректный ID клиента"
	msgClientNotFound  = "клиент не найден"
)

type Handler struct {
	service LoyaltyService
	logger  Logger
}

func NewHandler(service LoyaltyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients/{clientId}/loyalty
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /clients/{id}/loyalty - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	clientID, err := handlers.PathUUID(r, "clientId")
	if err != nil {
		h.logger.Warn("GET /clients/{id}/loyalty - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	benefits, err := h.service.GetClientBenefits(r.Context(), tenantID, clientID)
	if err != nil {
		if errors.Is(err, loyalty.ErrClientNotFound) {
			h.logger.Warn("GET /clients/{id}/loyalty - Client not found: client=%s", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)
			return
		}

		h.logger.Error("GET /clients/{id}/loyalty - Failed to get benefits: client=%s, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clients/{id}/loyalty - Benefits retrieved: client=%s, tier=%s", clientID, benefits.LoyaltyTier)
	handlers.RespondJSON(w, http.StatusOK, benefits)
}
