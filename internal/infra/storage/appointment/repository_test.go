package appointment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), db, mock
}

func newAppointment() *domain.Appointment {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		TenantID:      uuid.New(),
		ClientID:      uuid.New(),
		StaffID:       uuid.New(),
		ServiceID:     uuid.New(),
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        domain.StatusPending,
		DepositAmount: decimal.NewFromInt(15),
		TotalPrice:    decimal.NewFromInt(60),
	}
}

func TestCreate(t *testing.T) {
	repo, _, mock := newRepo(t)
	a := newAppointment()
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO appointments .+ RETURNING id, created_at, updated_at`).
		WithArgs(a.TenantID, a.ClientID, a.StaffID, a.ServiceID, a.StartTime, a.EndTime,
			"PENDING", false, sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	created, err := repo.Create(context.Background(), a)

	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ExclusionViolationIsScheduleConflict(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO appointments`).
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

	_, err := repo.Create(context.Background(), newAppointment())

	assert.ErrorIs(t, err, ErrScheduleConflict)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE id = \$1 AND tenant_id = \$2$`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_LocksRowInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	a := newAppointment()
	a.ID = uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE id = \$1 AND tenant_id = \$2 FOR UPDATE`).
		WithArgs(a.ID, a.TenantID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			a.ID.String(), a.TenantID.String(), a.ClientID.String(), a.StaffID.String(), a.ServiceID.String(),
			a.StartTime, a.EndTime, "CONFIRMED", true, "15", "60", "bring photos", nil, now, now))

	tx, err := dbmetrics.Wrap(db, nil).BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	got, err := repo.GetByID(ctx, a.TenantID, a.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.True(t, got.DepositPaid)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "bring photos", *got.Notes)
	assert.Nil(t, got.CancelledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_StaffWindowInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	tenantID, staffID := uuid.New(), uuid.New()
	from := time.Date(2025, 6, 2, 9, 45, 0, 0, time.UTC)
	to := time.Date(2025, 6, 2, 11, 15, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE tenant_id = \$1 AND staff_id = \$2 AND status IN \(\$3,\$4\) AND end_time > \$5 AND start_time < \$6 ORDER BY start_time ASC FOR UPDATE`).
		WithArgs(tenantID, staffID, "CONFIRMED", "CHECK_IN", from, to).
		WillReturnRows(sqlmock.NewRows(columns))

	tx, err := dbmetrics.Wrap(db, nil).BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	got, err := repo.List(ctx, domain.AppointmentFilter{
		TenantID: tenantID,
		StaffID:  &staffID,
		Statuses: domain.BlockingStatuses,
		From:     &from,
		To:       &to,
	})

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ByClientWithoutLock(t *testing.T) {
	repo, _, mock := newRepo(t)
	tenantID, clientID, excluded := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE tenant_id = \$1 AND client_id = \$2 AND id <> \$3 ORDER BY start_time ASC$`).
		WithArgs(tenantID, clientID, excluded).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			uuid.NewString(), tenantID.String(), clientID.String(), uuid.NewString(), uuid.NewString(),
			now, now.Add(time.Hour), "CANCELLED", false, "0", "40", nil, now, now, now))

	got, err := repo.List(context.Background(), domain.AppointmentFilter{
		TenantID:  tenantID,
		ClientID:  &clientID,
		ExcludeID: &excluded,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusCancelled, got[0].Status)
	require.NotNil(t, got[0].CancelledAt)
}

func TestUpdateStatus(t *testing.T) {
	repo, _, mock := newRepo(t)
	a := newAppointment()
	a.ID = uuid.New()
	a.Status = domain.StatusConfirmed
	a.DepositPaid = true
	updatedAt := time.Now().UTC()

	mock.ExpectQuery(`UPDATE appointments SET status = \$1, deposit_paid = \$2, cancelled_at = \$3, updated_at = NOW\(\) WHERE id = \$4 AND tenant_id = \$5 RETURNING updated_at`).
		WithArgs("CONFIRMED", true, nil, a.ID, a.TenantID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updatedAt))

	got, err := repo.UpdateStatus(context.Background(), a)

	require.NoError(t, err)
	assert.Equal(t, updatedAt, got.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`UPDATE appointments`).WillReturnError(sql.ErrNoRows)

	a := newAppointment()
	a.ID = uuid.New()
	_, err := repo.UpdateStatus(context.Background(), a)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
