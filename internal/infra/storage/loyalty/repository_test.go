package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestGetRules(t *testing.T) {
	repo, mock := newRepo(t)
	tenantID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM loyalty_rules WHERE tenant_id = \$1 ORDER BY min_points ASC`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), tenantID.String(), "BRONZE", 0, 499, "{}", nil, now, now).
			AddRow(uuid.NewString(), tenantID.String(), "GOLD", 1000, nil, "{\"free drink\",priority}", "10.00", now, now))

	rules, err := repo.GetRules(context.Background(), tenantID)

	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.NotNil(t, rules[0].MaxPoints)
	assert.Equal(t, 499, *rules[0].MaxPoints)
	assert.False(t, rules[0].Discount.Valid)
	assert.Equal(t, domain.TierGold, rules[1].Tier)
	assert.Nil(t, rules[1].MaxPoints)
	assert.Equal(t, []string{"free drink", "priority"}, rules[1].Benefits)
	assert.True(t, decimal.NewFromInt(10).Equal(rules[1].Discount.Decimal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRules_Empty(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM loyalty_rules`).
		WillReturnRows(sqlmock.NewRows(columns))

	rules, err := repo.GetRules(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestUpsert(t *testing.T) {
	repo, mock := newRepo(t)
	rule := &domain.LoyaltyRule{
		TenantID:  uuid.New(),
		Tier:      domain.TierSilver,
		MinPoints: 500,
		MaxPoints: ptr.Ptr(999),
	}
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO loyalty_rules .+ ON CONFLICT \(tenant_id, tier\) DO UPDATE`).
		WithArgs(rule.TenantID, "SILVER", 500, 999, "{}", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	got, err := repo.Upsert(context.Background(), rule)

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
