package loyalty

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	clientRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type fakeClientRepo struct {
	clients map[uuid.UUID]*domain.Client
	updates int
	stats   *domain.LoyaltyStats
}

func (f *fakeClientRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (*domain.Client, error) {
	c, ok := f.clients[id]
	if !ok || c.TenantID != tenantID {
		return nil, clientRepo.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientRepo) UpdateLoyalty(_ context.Context, c *domain.Client) (*domain.Client, error) {
	f.updates++
	cp := *c
	f.clients[c.ID] = &cp
	return c, nil
}

func (f *fakeClientRepo) LoyaltyStats(context.Context, uuid.UUID) (*domain.LoyaltyStats, error) {
	return f.stats, nil
}

type fakeRuleRepo struct {
	rules []*domain.LoyaltyRule
	saved []*domain.LoyaltyRule
}

func (f *fakeRuleRepo) GetRules(context.Context, uuid.UUID) ([]*domain.LoyaltyRule, error) {
	return f.rules, nil
}

func (f *fakeRuleRepo) Upsert(_ context.Context, rule *domain.LoyaltyRule) (*domain.LoyaltyRule, error) {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	f.saved = append(f.saved, rule)
	return rule, nil
}

type fakePolicies struct{}

func (fakePolicies) Effective(context.Context, uuid.UUID) (domain.BookingPolicy, error) {
	return domain.DefaultBookingPolicy(), nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	clients  *fakeClientRepo
	rules    *fakeRuleRepo
	svc      *Service
	tenantID uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		clients:  &fakeClientRepo{clients: map[uuid.UUID]*domain.Client{}},
		rules:    &fakeRuleRepo{},
		tenantID: uuid.New(),
	}
	f.svc = NewService(f.clients, f.rules, fakePolicies{}, fakeTx{}, nopLogger{})
	return f
}

func (f *fixture) addClient(points int, tier domain.LoyaltyTier) *domain.Client {
	c := &domain.Client{ID: uuid.New(), TenantID: f.tenantID, LoyaltyPoints: points, LoyaltyTier: tier}
	f.clients.clients[c.ID] = c
	return c
}

func TestAddPoints_PromotesTier(t *testing.T) {
	f := newFixture()
	c := f.addClient(450, domain.TierBronze)

	resp, err := f.svc.AddPoints(context.Background(), f.tenantID, c.ID, 50)

	require.NoError(t, err)
	assert.Equal(t, 500, resp.LoyaltyPoints)
	assert.Equal(t, "SILVER", resp.LoyaltyTier)
	assert.True(t, resp.TierChanged)
	assert.Equal(t, domain.TierSilver, f.clients.clients[c.ID].LoyaltyTier)
}

func TestAddPoints_UsesSalonRules(t *testing.T) {
	f := newFixture()
	f.rules.rules = []*domain.LoyaltyRule{
		{Tier: domain.TierSilver, MinPoints: 200},
		{Tier: domain.TierGold, MinPoints: 400},
	}
	c := f.addClient(390, domain.TierSilver)

	resp, err := f.svc.AddPoints(context.Background(), f.tenantID, c.ID, 10)

	require.NoError(t, err)
	assert.Equal(t, "GOLD", resp.LoyaltyTier)
}

func TestRedeemPoints(t *testing.T) {
	f := newFixture()
	c := f.addClient(1000, domain.TierGold)

	resp, err := f.svc.RedeemPoints(context.Background(), f.tenantID, c.ID, 501)

	require.NoError(t, err)
	assert.Equal(t, 499, resp.LoyaltyPoints)
	assert.Equal(t, "BRONZE", resp.LoyaltyTier)
	assert.True(t, resp.TierChanged)
}

func TestRedeemPoints_Insufficient(t *testing.T) {
	f := newFixture()
	c := f.addClient(100, domain.TierBronze)

	_, err := f.svc.RedeemPoints(context.Background(), f.tenantID, c.ID, 101)

	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Zero(t, f.clients.updates)
	assert.Equal(t, 100, f.clients.clients[c.ID].LoyaltyPoints)
}

func TestAdjust_InvalidAndMissing(t *testing.T) {
	f := newFixture()
	c := f.addClient(0, domain.TierBronze)

	_, err := f.svc.AddPoints(context.Background(), f.tenantID, c.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.RedeemPoints(context.Background(), f.tenantID, c.ID, -5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.AddPoints(context.Background(), f.tenantID, uuid.New(), 10)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestAddPoints_BalanceLimit(t *testing.T) {
	f := newFixture()
	c := f.addClient(10, domain.TierBronze)

	_, err := f.svc.AddPoints(context.Background(), f.tenantID, c.ID, math.MaxInt64)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.AddPoints(context.Background(), f.tenantID, c.ID, domain.MaxLoyaltyPoints-9)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.clients.updates)
	assert.Equal(t, 10, f.clients.clients[c.ID].LoyaltyPoints)

	resp, err := f.svc.AddPoints(context.Background(), f.tenantID, c.ID, domain.MaxLoyaltyPoints-10)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxLoyaltyPoints, resp.LoyaltyPoints)
}

func TestRedeemPoints_AboveLimit(t *testing.T) {
	f := newFixture()
	c := f.addClient(10, domain.TierBronze)

	_, err := f.svc.RedeemPoints(context.Background(), f.tenantID, c.ID, math.MaxInt64)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpsertTierRule_MergesExisting(t *testing.T) {
	f := newFixture()
	existingID := uuid.New()
	f.rules.rules = []*domain.LoyaltyRule{
		{ID: existingID, TenantID: f.tenantID, Tier: domain.TierSilver, MinPoints: 500, Benefits: []string{"free coffee"}},
	}

	resp, err := f.svc.UpsertTierRule(context.Background(), &models.UpsertRuleRequest{
		TenantID: f.tenantID,
		Tier:     "silver",
		Discount: ptr.Ptr(decimal.NewFromInt(5)),
	})

	require.NoError(t, err)
	assert.Equal(t, existingID, resp.ID)
	assert.Equal(t, 500, resp.MinPoints)
	assert.Equal(t, "5", resp.Discount)
	assert.Equal(t, []string{"free coffee"}, resp.Benefits)
	assert.Equal(t, []string{"free coffee"}, f.rules.rules[0].Benefits)
}

func TestUpsertTierRule_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpsertRuleRequest
	}{
		{"unknown tier", models.UpsertRuleRequest{Tier: "PLATINUM"}},
		{"negative min", models.UpsertRuleRequest{Tier: "SILVER", MinPoints: ptr.Ptr(-1)}},
		{"max below min", models.UpsertRuleRequest{Tier: "SILVER", MinPoints: ptr.Ptr(600), MaxPoints: ptr.Ptr(500)}},
		{"discount above 100", models.UpsertRuleRequest{Tier: "GOLD", Discount: ptr.Ptr(decimal.NewFromInt(150))}},
		{"silver above gold", models.UpsertRuleRequest{Tier: "SILVER", MinPoints: ptr.Ptr(2000)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := tt.req
			req.TenantID = f.tenantID

			_, err := f.svc.UpsertTierRule(context.Background(), &req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, f.rules.saved)
		})
	}
}

func TestGetClientBenefits(t *testing.T) {
	f := newFixture()
	f.rules.rules = []*domain.LoyaltyRule{
		{Tier: domain.TierSilver, MinPoints: 500, Benefits: []string{"10% off"}, Discount: decimal.NewNullDecimal(decimal.NewFromInt(10))},
	}
	c := f.addClient(620, domain.TierSilver)

	resp, err := f.svc.GetClientBenefits(context.Background(), f.tenantID, c.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"10% off"}, resp.Benefits)
	assert.Equal(t, "10", resp.Discount)
	require.NotNil(t, resp.NextTier)
	assert.Equal(t, "GOLD", *resp.NextTier)
	assert.Equal(t, 380, *resp.PointsToNextTier)
}

func TestGetClientBenefits_GoldHasNoNextTier(t *testing.T) {
	f := newFixture()
	c := f.addClient(1500, domain.TierGold)

	resp, err := f.svc.GetClientBenefits(context.Background(), f.tenantID, c.ID)

	require.NoError(t, err)
	assert.Empty(t, resp.Benefits)
	assert.Equal(t, "0", resp.Discount)
	assert.Nil(t, resp.NextTier)
	assert.Nil(t, resp.PointsToNextTier)
}

func TestGetStats(t *testing.T) {
	f := newFixture()
	f.clients.stats = &domain.LoyaltyStats{
		TotalClients:  4,
		TotalPoints:   1800,
		ClientsByTier: map[domain.LoyaltyTier]int{domain.TierBronze: 3, domain.TierSilver: 0, domain.TierGold: 1},
	}

	resp, err := f.svc.GetStats(context.Background(), f.tenantID)

	require.NoError(t, err)
	assert.Equal(t, 450.0, resp.AveragePoints)
	assert.Equal(t, 3, resp.ClientsByTier["BRONZE"])
	assert.Equal(t, 0, resp.ClientsByTier["SILVER"])
}
