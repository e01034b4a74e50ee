package client

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()
	now := time.Now().UTC()
	c := &domain.Client{
		TenantID:    uuid.New(),
		QRCode:      "abc123",
		FirstName:   "Lucia",
		LastName:    "Perez",
		LoyaltyTier: domain.TierBronze,
	}

	mock.ExpectQuery(`INSERT INTO clients .+ RETURNING id, created_at, updated_at`).
		WithArgs(c.TenantID, "abc123", nil, nil, "Lucia", "Perez", nil, sqlmock.AnyArg(), 0, "BRONZE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	created, err := repo.Create(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateQRCode(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO clients`).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Client{TenantID: uuid.New(), QRCode: "dup"})

	assert.ErrorIs(t, err, ErrDuplicateQRCode)
}

func TestGetByQRCode(t *testing.T) {
	repo, mock := newRepo(t)
	tenantID, id := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM clients WHERE qr_code = \$1 AND tenant_id = \$2$`).
		WithArgs("qr-1", tenantID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			id.String(), tenantID.String(), "qr-1", "lucia@example.com", "+34600111222", "Lucia", "Perez",
			nil, "{latex}", 620, "SILVER", now, now))

	c, err := repo.GetByQRCode(context.Background(), tenantID, "qr-1")

	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, []string{"latex"}, c.Allergies)
	assert.Equal(t, domain.TierSilver, c.LoyaltyTier)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "+34600111222", *c.Phone)
	assert.Nil(t, c.MedicalNotes)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM clients`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestUpdateLoyalty(t *testing.T) {
	repo, mock := newRepo(t)
	c := &domain.Client{ID: uuid.New(), TenantID: uuid.New(), LoyaltyPoints: 1200, LoyaltyTier: domain.TierGold}
	updatedAt := time.Now().UTC()

	mock.ExpectQuery(`UPDATE clients SET loyalty_points = \$1, loyalty_tier = \$2, updated_at = NOW\(\) WHERE id = \$3 AND tenant_id = \$4 RETURNING updated_at`).
		WithArgs(1200, "GOLD", c.ID, c.TenantID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updatedAt))

	got, err := repo.UpdateLoyalty(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, updatedAt, got.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoyaltyStats(t *testing.T) {
	repo, mock := newRepo(t)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT loyalty_tier, COUNT\(\*\), COALESCE\(SUM\(loyalty_points\), 0\) FROM clients WHERE tenant_id = \$1 GROUP BY loyalty_tier`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"loyalty_tier", "count", "sum"}).
			AddRow("BRONZE", 3, 300).
			AddRow("GOLD", 1, 1500))

	stats, err := repo.LoyaltyStats(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalClients)
	assert.Equal(t, int64(1800), stats.TotalPoints)
	assert.Equal(t, 0, stats.ClientsByTier[domain.TierSilver])
	assert.Equal(t, 1, stats.ClientsByTier[domain.TierGold])
	assert.Equal(t, 450.0, stats.AveragePoints())
}
