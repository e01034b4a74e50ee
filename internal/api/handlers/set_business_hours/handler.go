package set_business_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/policy"
	"github.com/m04kA/SMC-SalonService/internal/service/policy/models"
)

const (
	msgMissingTenantID    = "отсутствует ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHours       = "некорректные часы работы"
	msgTenantNotFound     = "салон не найден"
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

// Handle PUT /api/v1/policy/business-hours
// Body: массив дней; расписание заменяется целиком, пустой массив очищает его
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PUT /policy/business-hours - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	var hours []models.BusinessHoursDTO
	if err := handlers.DecodeJSON(r, &hours); err != nil {
		h.logger.Warn("PUT /policy/business-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetBusinessHours(r.Context(), tenantID, hours)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /policy/business-hours - Invalid hours: tenant=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidHours+": "+handlers.ErrorDetail(err, policy.ErrInvalidInput))

		case errors.Is(err, policy.ErrTenantNotFound):
			h.logger.Warn("PUT /policy/business-hours - Tenant not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("PUT /policy/business-hours - Failed to set hours: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /policy/business-hours - Business hours updated: tenant=%s, days=%d",
		tenantID, len(result.BusinessHours))
	handlers.RespondJSON(w, http.StatusOK, result)
}
