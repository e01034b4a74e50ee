package get_loyalty_stats

import (
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
)

const msgMissingTenantID = "отсутствует ID салона"

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

// Handle GET /api/v1/loyalty/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /loyalty/stats - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	stats, err := h.service.GetStats(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /loyalty/stats - Failed to get stats: tenant=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /loyalty/stats - Stats retrieved: tenant=%s, clients=%d", tenantID, stats.TotalClients)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
