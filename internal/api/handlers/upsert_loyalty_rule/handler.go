package upsert_loyalty_rule

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/loyalty"
	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
)

const (
	msgMissingTenantID    = "отсутствует ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRule        = "некорректное правило уровня лояльности"
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

// Handle PUT /api/v1/loyalty/rules/{tier}
// Уровень берется из URL и имеет приоритет над полем tier в теле
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PUT /loyalty/rules/{tier} - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	var req models.UpsertRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /loyalty/rules/{tier} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.TenantID = tenantID
	req.Tier = strings.ToUpper(mux.Vars(r)["tier"])

	rule, err := h.service.UpsertTierRule(r.Context(), &req)
	if err != nil {
		if errors.Is(err, loyalty.ErrInvalidInput) {
			h.logger.Warn("PUT /loyalty/rules/{tier} - Invalid rule: tier=%s, error=%v", req.Tier, err)
			handlers.RespondBadRequest(w, msgInvalidRule)
			return
		}

		h.logger.Error("PUT /loyalty/rules/{tier} - Failed to upsert rule: tenant=%s, tier=%s, error=%v",
			tenantID, req.Tier, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /loyalty/rules/{tier} - Rule saved: tenant=%s, tier=%s, minPoints=%d",
		tenantID, rule.Tier, rule.MinPoints)
	handlers.RespondJSON(w, http.StatusOK, rule)
}
