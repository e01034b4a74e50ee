package get_loyalty_rules

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

// Handle GET /api/v1/loyalty/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /loyalty/rules - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	rules, err := h.service.GetTierRules(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /loyalty/rules - Failed to get rules: tenant=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /loyalty/rules - Rules retrieved: tenant=%s, count=%d", tenantID, len(rules.Rules))
	handlers.RespondJSON(w, http.StatusOK, rules)
}
