package get_cash_close

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const (
	msgMissingTenantID = "отсутствует ID салона"
	msgInvalidDate     = "некорректная дата или часовой пояс, ожидается YYYY-MM-DD и IANA tz"
)

type Handler struct {
	service PaymentService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/payments/cash-close
// Query params: date (YYYY-MM-DD, по умолчанию сегодня), tz (IANA, по умолчанию UTC)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /payments/cash-close - Missing tenant ID")
		handlers.RespondBadRequest(w, msgMissingTenantID)
		return
	}

	day, err := ParseDay(r.URL.Query().Get("date"), r.URL.Query().Get("tz"), h.now())
	if err != nil {
		h.logger.Warn("GET /payments/cash-close - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.CashCloseSummary(r.Context(), tenantID, day)
	if err != nil {
		h.logger.Error("GET /payments/cash-close - Failed to build summary: tenant=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /payments/cash-close - Summary built: tenant=%s, date=%s, transactions=%d",
		tenantID, day.Format(domain.DateFormat), result.Summary.TransactionCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
