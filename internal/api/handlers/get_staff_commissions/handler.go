package get_staff_commissions

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/payments"
)

const (
	msgMissingTenantID = "отсутствует ID салона"
	msgInvalidStaffID  = "некорректный ID сотрудника"
	msgMissingMonth    = "месяц обязателен"
	msgInvalidMonth    = "некорректный формат месяца, ожидается YYYY-MM"
	msgStaffNotFound   = "сотрудник не найден"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/commissions
// Query params: month (required, YYYY-MM)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /staff/{id}/commissions - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	staffID, err := handlers.PathUUID(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/commissions - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		h.logger.Warn("GET /staff/{id}/commissions - Missing month")
		handlers.RespondBadRequest(w, msgMissingMonth)
		return
	}

	month, err := time.Parse(domain.MonthFormat, monthStr)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/commissions - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.service.StaffCommissions(r.Context(), tenantID, staffID, month)
	if err != nil {
		if errors.Is(err, payments.ErrStaffNotFound) {
			h.logger.Warn("GET /staff/{id}/commissions - Staff not found: staff=%s, tenant=%s", staffID, tenantID)
			handlers.RespondNotFound(w, msgStaffNotFound)
			return
		}

		h.logger.Error("GET /staff/{id}/commissions - Failed to get commissions: staff=%s, error=%v", staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /staff/{id}/commissions - Commissions calculated: staff=%s, period=%s, total=%s",
		staffID, result.Period, result.TotalCommissions)
	handlers.RespondJSON(w, http.StatusOK, result)
}
