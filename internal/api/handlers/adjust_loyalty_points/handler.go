package adjust_loyalty_points

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/loyalty"
	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
)

const (
	msgMissingTenantID    = "отсутствует ID салона"
	msgInvalidClientID    = "некорректный ID клиента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAction      = "action должен быть add или redeem"
	msgInvalidPoints      = "количество баллов должно быть положительным"
	msgInsufficientPoints = "недостаточно баллов для списания"
	msgClientNotFound     = "клиент не найден"
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

// Handle POST /api/v1/clients/{clientId}/loyalty
// Body: {"action": "add"|"redeem", "points": N}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /clients/{id}/loyalty - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	clientID, err := handlers.PathUUID(r, "clientId")
	if err != nil {
		h.logger.Warn("POST /clients/{id}/loyalty - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	var req AdjustPointsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clients/{id}/loyalty - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *models.ClientLoyaltyResponse
	switch req.Action {
	case ActionAdd:
		result, err = h.service.AddPoints(r.Context(), tenantID, clientID, req.Points)
	case ActionRedeem:
		result, err = h.service.RedeemPoints(r.Context(), tenantID, clientID, req.Points)
	default:
		h.logger.Warn("POST /clients/{id}/loyalty - Unknown action: %q", req.Action)
		handlers.RespondBadRequest(w, msgInvalidAction)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, loyalty.ErrInvalidInput):
			h.logger.Warn("POST /clients/{id}/loyalty - Invalid points: client=%s, points=%d", clientID, req.Points)
			handlers.RespondBadRequest(w, msgInvalidPoints)

		case errors.Is(err, loyalty.ErrInsufficientPoints):
			h.logger.Warn("POST /clients/{id}/loyalty - Insufficient points: client=%s, points=%d", clientID, req.Points)
			handlers.RespondBadRequest(w, msgInsufficientPoints)

		case errors.Is(err, loyalty.ErrClientNotFound):
			h.logger.Warn("POST /clients/{id}/loyalty - Client not found: client=%s", clientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		default:
			h.logger.Error("POST /clients/{id}/loyalty - Failed to adjust points: client=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /clients/{id}/loyalty - Points adjusted: client=%s, action=%s, balance=%d, tier=%s",
		clientID, req.Action, result.LoyaltyPoints, result.LoyaltyTier)
	handlers.RespondJSON(w, http.StatusOK, result)
}
