package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	policyRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-SalonService/internal/service/policy/models"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type fakeRepo struct {
	policies     map[uuid.UUID]*domain.TenantPolicy
	getErr       error
	updates      int
	replacedWith []domain.BusinessHours
}

func (f *fakeRepo) Get(_ context.Context, tenantID uuid.UUID) (*domain.TenantPolicy, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.policies[tenantID]
	if !ok {
		return nil, policyRepo.ErrPolicyNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, p *domain.TenantPolicy) (*domain.TenantPolicy, error) {
	f.updates++
	p.UpdatedAt = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	cp := *p
	f.policies[p.TenantID] = &cp
	return p, nil
}

func (f *fakeRepo) ReplaceBusinessHours(_ context.Context, tenantID uuid.UUID, hours []domain.BusinessHours) error {
	f.replacedWith = hours
	f.policies[tenantID].BusinessHours = hours
	return nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService(policies ...*domain.TenantPolicy) (*Service, *fakeRepo) {
	repo := &fakeRepo{policies: map[uuid.UUID]*domain.TenantPolicy{}}
	for _, p := range policies {
		repo.policies[p.TenantID] = p
	}
	return NewService(repo, fakeTx{}, domain.DefaultBookingPolicy(), nopLogger{}), repo
}

func TestEffective_MergesOverrides(t *testing.T) {
	tenantID := uuid.New()
	svc, _ := newService(&domain.TenantPolicy{
		TenantID:          tenantID,
		DepositPercentage: decimal.NewNullDecimal(decimal.NewFromInt(50)),
		BufferTimeMinutes: ptr.Ptr(0),
	})

	p, err := svc.Effective(context.Background(), tenantID)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(p.DepositPercentage))
	assert.Equal(t, 0, p.BufferTimeMinutes)
	assert.Equal(t, domain.DefaultSlotStepMinutes, p.SlotStepMinutes)
	assert.Equal(t, domain.DefaultLoyaltyThresholds(), p.LoyaltyThresholds)
}

func TestEffective_UnknownTenantUsesDefaults(t *testing.T) {
	svc, _ := newService()

	p, err := svc.Effective(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBookingPolicy(), p)
}

func TestEffective_RepositoryError(t *testing.T) {
	svc, repo := newService()
	repo.getErr = errors.New("connection reset")

	_, err := svc.Effective(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrInternal)
}

func TestBusinessHours(t *testing.T) {
	tenantID := uuid.New()
	svc, _ := newService(&domain.TenantPolicy{
		TenantID: tenantID,
		BusinessHours: []domain.BusinessHours{
			{DayOfWeek: time.Monday, OpenTime: "09:00", CloseTime: "18:00"},
		},
	})

	h, ok, err := svc.BusinessHours(context.Background(), tenantID, time.Monday)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "09:00", h.OpenTime.String())

	_, ok, err = svc.BusinessHours(context.Background(), tenantID, time.Sunday)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.BusinessHours(context.Background(), uuid.New(), time.Monday)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGet(t *testing.T) {
	tenantID := uuid.New()
	svc, _ := newService(&domain.TenantPolicy{
		TenantID:        tenantID,
		Name:            "Salon Luna",
		SlotStepMinutes: ptr.Ptr(30),
		BusinessHours: []domain.BusinessHours{
			{DayOfWeek: time.Sunday, IsClosed: true},
		},
	})

	resp, err := svc.Get(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, "Salon Luna", resp.Name)
	assert.Equal(t, "25", resp.DepositPercentage)
	assert.Equal(t, 30, resp.SlotStepMinutes)
	require.Len(t, resp.BusinessHours, 1)
	assert.True(t, resp.BusinessHours[0].IsClosed)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestUpdate_PartialAndHours(t *testing.T) {
	tenantID := uuid.New()
	svc, repo := newService(&domain.TenantPolicy{TenantID: tenantID, BufferTimeMinutes: ptr.Ptr(10)})
	deposit := decimal.NewFromInt(30)

	resp, err := svc.Update(context.Background(), &models.UpdatePolicyRequest{
		TenantID:          tenantID,
		DepositPercentage: &deposit,
		BusinessHours: []models.BusinessHoursDTO{
			{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "17:00"},
			{DayOfWeek: 0, IsClosed: true},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "30", resp.DepositPercentage)
	assert.Equal(t, 10, resp.BufferTimeMinutes)
	assert.Len(t, resp.BusinessHours, 2)
	assert.NotNil(t, resp.UpdatedAt)
	assert.Equal(t, 1, repo.updates)
	require.Len(t, repo.replacedWith, 2)
	assert.Equal(t, time.Monday, repo.replacedWith[0].DayOfWeek)
}

func TestUpdate_WithoutHoursKeepsSchedule(t *testing.T) {
	tenantID := uuid.New()
	svc, repo := newService(&domain.TenantPolicy{
		TenantID:      tenantID,
		BusinessHours: []domain.BusinessHours{{DayOfWeek: time.Friday, OpenTime: "10:00", CloseTime: "20:00"}},
	})

	resp, err := svc.Update(context.Background(), &models.UpdatePolicyRequest{
		TenantID:        tenantID,
		SlotStepMinutes: ptr.Ptr(20),
	})

	require.NoError(t, err)
	assert.Nil(t, repo.replacedWith)
	assert.Len(t, resp.BusinessHours, 1)
	assert.Equal(t, 20, resp.SlotStepMinutes)
}

func TestUpdate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdatePolicyRequest
	}{
		{"deposit above 100", models.UpdatePolicyRequest{DepositPercentage: ptr.Ptr(decimal.NewFromInt(101))}},
		{"negative deposit", models.UpdatePolicyRequest{DepositPercentage: ptr.Ptr(decimal.NewFromInt(-1))}},
		{"negative buffer", models.UpdatePolicyRequest{BufferTimeMinutes: ptr.Ptr(-5)}},
		{"zero slot step", models.UpdatePolicyRequest{SlotStepMinutes: ptr.Ptr(0)}},
		{"unordered thresholds", models.UpdatePolicyRequest{LoyaltyThresholds: &models.ThresholdsDTO{Bronze: 0, Silver: 800, Gold: 700}}},
		{"negative bronze", models.UpdatePolicyRequest{LoyaltyThresholds: &models.ThresholdsDTO{Bronze: -1, Silver: 500, Gold: 1000}}},
		{"bad day", models.UpdatePolicyRequest{BusinessHours: []models.BusinessHoursDTO{{DayOfWeek: 7, IsClosed: true}}}},
		{"duplicate day", models.UpdatePolicyRequest{BusinessHours: []models.BusinessHoursDTO{
			{DayOfWeek: 2, IsClosed: true}, {DayOfWeek: 2, IsClosed: true},
		}}},
		{"bad time", models.UpdatePolicyRequest{BusinessHours: []models.BusinessHoursDTO{{DayOfWeek: 2, OpenTime: "9am", CloseTime: "17:00"}}}},
		{"close before open", models.UpdatePolicyRequest{BusinessHours: []models.BusinessHoursDTO{{DayOfWeek: 2, OpenTime: "17:00", CloseTime: "09:00"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenantID := uuid.New()
			svc, repo := newService(&domain.TenantPolicy{TenantID: tenantID})
			req := tt.req
			req.TenantID = tenantID

			_, err := svc.Update(context.Background(), &req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, repo.updates)
		})
	}
}

func TestUpdate_UnknownTenant(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Update(context.Background(), &models.UpdatePolicyRequest{TenantID: uuid.New(), SlotStepMinutes: ptr.Ptr(30)})

	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestSetBusinessHours_EmptyClearsSchedule(t *testing.T) {
	tenantID := uuid.New()
	svc, repo := newService(&domain.TenantPolicy{
		TenantID:      tenantID,
		BusinessHours: []domain.BusinessHours{{DayOfWeek: time.Friday, OpenTime: "10:00", CloseTime: "20:00"}},
	})

	resp, err := svc.SetBusinessHours(context.Background(), tenantID, nil)

	require.NoError(t, err)
	assert.NotNil(t, repo.replacedWith)
	assert.Empty(t, repo.replacedWith)
	assert.Empty(t, resp.BusinessHours)
}
