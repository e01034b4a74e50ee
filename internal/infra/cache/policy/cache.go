package policy

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const keyPrefix = "salon:policy:"

// Cache кэширует политики салонов в Redis поверх репозитория
// Ошибки Redis не прерывают запрос: кэш пропускается и запрос идет в репозиторий
type Cache struct {
	repo   Repository
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewCache создает новый кэш политик
func NewCache(repo Repository, client *redis.Client, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		repo:   repo,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get возвращает политику салона из кэша, при промахе читает репозиторий
func (c *Cache) Get(ctx context.Context, tenantID uuid.UUID) (*domain.TenantPolicy, error) {
	key := cacheKey(tenantID)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p domain.TenantPolicy
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		c.logger.Warn("policy cache: corrupted entry for tenant_id=%s, dropping", tenantID)
		c.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("policy cache: get tenant_id=%s failed: %v", tenantID, err)
	}

	p, err := c.repo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(p)
	if err != nil {
		c.logger.Warn("policy cache: marshal tenant_id=%s failed: %v", tenantID, err)
		return p, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("policy cache: set tenant_id=%s failed: %v", tenantID, err)
	}

	return p, nil
}

// Update сохраняет политику и сбрасывает кэш салона
func (c *Cache) Update(ctx context.Context, p *domain.TenantPolicy) (*domain.TenantPolicy, error) {
	updated, err := c.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, p.TenantID)
	return updated, nil
}

// ReplaceBusinessHours заменяет часы работы и сбрасывает кэш салона
func (c *Cache) ReplaceBusinessHours(ctx context.Context, tenantID uuid.UUID, hours []domain.BusinessHours) error {
	if err := c.repo.ReplaceBusinessHours(ctx, tenantID, hours); err != nil {
		return err
	}
	c.Invalidate(ctx, tenantID)
	return nil
}

// Invalidate удаляет политику салона из кэша
func (c *Cache) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := c.client.Del(ctx, cacheKey(tenantID)).Err(); err != nil {
		c.logger.Warn("policy cache: invalidate tenant_id=%s failed: %v", tenantID, err)
	}
}

func cacheKey(tenantID uuid.UUID) string {
	return keyPrefix + tenantID.String()
}
