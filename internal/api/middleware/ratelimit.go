package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
)

const (
	msgRateLimited        = "превышен лимит запросов"
	msgRateLimiterFailure = "ограничитель запросов недоступен"

	rateLimitKeyPrefix = "salon:ratelimit"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RateLimiter ограничение запросов салона с фиксированным окном в Redis
// Счетчик общий для всех экземпляров сервиса
type RateLimiter struct {
	rdb      *redis.Client
	limit    int64
	window   time.Duration
	failOpen bool
	logger   Logger
}

// NewRateLimiter создает ограничитель: не больше limit запросов салона за window
// failOpen - пропускать запросы, если Redis недоступен
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, failOpen bool, logger Logger) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		limit:    int64(limit),
		window:   window,
		failOpen: failOpen,
		logger:   logger,
	}
}

// Middleware применяет лимит к салону из контекста (ставить после Tenant)
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := GetTenantID(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		count, ttl, err := rl.incr(r.Context(), fmt.Sprintf("%s:%s", rateLimitKeyPrefix, tenantID))
		if err != nil {
			rl.logger.Warn("RateLimiter: redis error for tenant=%s: %v", tenantID, err)
			if rl.failOpen {
				next.ServeHTTP(w, r)
				return
			}
			handlers.RespondError(w, http.StatusServiceUnavailable, msgRateLimiterFailure)
			return
		}

		if count > rl.limit {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(ttl, rl.window)))
			handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// incr увеличивает счетчик окна и возвращает его значение и остаток окна
func (rl *RateLimiter) incr(ctx context.Context, key string) (int64, time.Duration, error) {
	res, err := fixedWindowScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit script result: %v", res)
	}
	return res[0], time.Duration(res[1]) * time.Millisecond, nil
}

// retryAfterSeconds округляет остаток окна вверх до секунды; без TTL ждать нужно целое окно
func retryAfterSeconds(ttl, window time.Duration) int {
	if ttl <= 0 {
		ttl = window
	}
	seconds := int((ttl + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
