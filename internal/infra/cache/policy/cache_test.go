package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	policy    *domain.TenantPolicy
	err       error
	getCalls  int
	hoursSets int
}

func (f *fakeRepo) Get(_ context.Context, _ uuid.UUID) (*domain.TenantPolicy, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.policy
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, p *domain.TenantPolicy) (*domain.TenantPolicy, error) {
	f.policy = p
	return p, nil
}

func (f *fakeRepo) ReplaceBusinessHours(_ context.Context, _ uuid.UUID, hours []domain.BusinessHours) error {
	f.hoursSets++
	f.policy.BusinessHours = hours
	return nil
}

func setupCache(t *testing.T, repo *fakeRepo) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return NewCache(repo, client, time.Minute, nopLogger{}), mr
}

func testPolicy(tenantID uuid.UUID) *domain.TenantPolicy {
	return &domain.TenantPolicy{
		TenantID:          tenantID,
		Name:              "Bella",
		DepositPercentage: decimal.NewNullDecimal(decimal.NewFromInt(30)),
		BufferTimeMinutes: ptr.Ptr(0),
		BusinessHours: []domain.BusinessHours{
			{DayOfWeek: time.Monday, OpenTime: "09:00", CloseTime: "18:00"},
		},
	}
}

func TestCache_GetHitsRepositoryOnce(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepo{policy: testPolicy(tenantID)}
	cache, mr := setupCache(t, repo)
	ctx := context.Background()

	first, err := cache.Get(ctx, tenantID)
	require.NoError(t, err)
	second, err := cache.Get(ctx, tenantID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.getCalls)
	assert.True(t, mr.Exists(cacheKey(tenantID)))
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, second.DepositPercentage.Valid)
	assert.True(t, decimal.NewFromInt(30).Equal(second.DepositPercentage.Decimal))
	require.NotNil(t, second.BufferTimeMinutes)
	assert.Equal(t, 0, *second.BufferTimeMinutes)
	assert.Nil(t, second.SlotStepMinutes)
	require.Len(t, second.BusinessHours, 1)
	assert.Equal(t, time.Monday, second.BusinessHours[0].DayOfWeek)
}

func TestCache_TTLExpiry(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepo{policy: testPolicy(tenantID)}
	cache, mr := setupCache(t, repo)
	ctx := context.Background()

	_, err := cache.Get(ctx, tenantID)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.Get(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls)
}

func TestCache_UpdateInvalidates(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepo{policy: testPolicy(tenantID)}
	cache, mr := setupCache(t, repo)
	ctx := context.Background()

	_, err := cache.Get(ctx, tenantID)
	require.NoError(t, err)

	p := testPolicy(tenantID)
	p.BufferTimeMinutes = ptr.Ptr(20)
	_, err = cache.Update(ctx, p)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(tenantID)))

	got, err := cache.Get(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 20, *got.BufferTimeMinutes)
	assert.Equal(t, 2, repo.getCalls)
}

func TestCache_ReplaceBusinessHoursInvalidates(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepo{policy: testPolicy(tenantID)}
	cache, mr := setupCache(t, repo)
	ctx := context.Background()

	_, err := cache.Get(ctx, tenantID)
	require.NoError(t, err)

	err = cache.ReplaceBusinessHours(ctx, tenantID, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.hoursSets)
	assert.False(t, mr.Exists(cacheKey(tenantID)))
}

func TestCache_RepositoryErrorNotCached(t *testing.T) {
	tenantID := uuid.New()
	repoErr := errors.New("boom")
	repo := &fakeRepo{err: repoErr}
	cache, mr := setupCache(t, repo)

	_, err := cache.Get(context.Background(), tenantID)

	assert.ErrorIs(t, err, repoErr)
	assert.False(t, mr.Exists(cacheKey(tenantID)))
}

func TestCache_RedisDownFallsBackToRepository(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepo{policy: testPolicy(tenantID)}
	cache, mr := setupCache(t, repo)
	mr.Close()

	got, err := cache.Get(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, "Bella", got.Name)
}

func TestCache_CorruptedEntryIsReloaded(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeRepo{policy: testPolicy(tenantID)}
	cache, mr := setupCache(t, repo)
	require.NoError(t, mr.Set(cacheKey(tenantID), "{not json"))

	got, err := cache.Get(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, "Bella", got.Name)
	assert.Equal(t, 1, repo.getCalls)
}
