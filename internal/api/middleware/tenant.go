package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
)

// TenantIDHeader заголовок с ID салона
const TenantIDHeader = "X-Tenant-ID"

const (
	msgMissingTenantID = "отсутствует заголовок X-Tenant-ID"
	msgInvalidTenantID = "некорректный ID салона"
)

type contextKey int

const (
	tenantIDKey contextKey = iota
	requestIDKey
)

// Tenant извлекает ID салона из заголовка X-Tenant-ID и кладет его в контекст
// Все данные API изолированы по салону, поэтому заголовок обязателен
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(TenantIDHeader)
		if raw == "" {
			handlers.RespondBadRequest(w, msgMissingTenantID)
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			handlers.RespondBadRequest(w, msgInvalidTenantID)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithTenantID(r.Context(), tenantID)))
	})
}

// WithTenantID кладет ID салона в контекст
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetTenantID извлекает ID салона из контекста
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(uuid.UUID)
	return tenantID, ok
}
