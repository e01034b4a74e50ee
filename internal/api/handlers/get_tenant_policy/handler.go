package get_tenant_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/policy"
)

const (
	msgMissingTenantID = "отсутствует ID салона"
	msgTenantNotFound  = "салон не найден"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/policy
// Возвращает действующую политику: не заданные салоном поля заполнены значениями по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /policy - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	result, err := h.service.Get(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, policy.ErrTenantNotFound) {
			h.logger.Warn("GET /policy - Tenant not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)
			return
		}

		h.logger.Error("GET /policy - Failed to get policy: tenant=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /policy - Policy retrieved successfully: tenant=%s", tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
