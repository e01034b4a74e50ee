package payments

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/events"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonService/internal/service/payments/models"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

// statusAppointmentRepo дополняет fakeAppointmentRepo сохранением статуса
type statusAppointmentRepo struct {
	*fakeAppointmentRepo
}

func (r statusAppointmentRepo) UpdateStatus(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	cp := *appt
	r.items[appt.ID] = &cp
	return &cp, nil
}

type alwaysAvailable struct{}

func (alwaysAvailable) IsAvailable(context.Context, *validate_appointment.Input, domain.BookingPolicy) (bool, error) {
	return true, nil
}

type defaultPolicies struct{}

func (defaultPolicies) Effective(context.Context, uuid.UUID) (domain.BookingPolicy, error) {
	return domain.BookingPolicy{DepositPercentage: decimal.NewFromInt(25), BufferTimeMinutes: 15}, nil
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type countingMetrics struct {
	transitions []string
}

func (m *countingMetrics) IncAppointmentTransition(status string) {
	m.transitions = append(m.transitions, status)
}

type depositTxFixture struct {
	svc       *Service
	mock      sqlmock.Sqlmock
	publisher *recordingPublisher
	metrics   *countingMetrics
	appt      *domain.Appointment
}

func newDepositTxFixture(t *testing.T) *depositTxFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	txManager := txmanager.NewTransactionManager(dbmetrics.Wrap(db, nil))

	appt := &domain.Appointment{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		ClientID:      uuid.New(),
		StaffID:       uuid.New(),
		ServiceID:     uuid.New(),
		StartTime:     time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC),
		Status:        domain.StatusPending,
		TotalPrice:    decimal.NewFromInt(100),
		DepositAmount: decimal.NewFromInt(25),
	}
	apptRepo := &fakeAppointmentRepo{items: map[uuid.UUID]*domain.Appointment{appt.ID: appt}}

	publisher := &recordingPublisher{}
	metrics := &countingMetrics{}
	lifecycle := appointments.NewService(
		statusAppointmentRepo{apptRepo}, alwaysAvailable{}, defaultPolicies{}, publisher, metrics, txManager, nopLogger{},
	)

	return &depositTxFixture{
		svc:       NewService(&fakePaymentRepo{}, apptRepo, &fakeStaffRepo{}, lifecycle, txManager, nopLogger{}),
		mock:      mock,
		publisher: publisher,
		metrics:   metrics,
		appt:      appt,
	}
}

func TestRecordDeposit_EventPublishedAfterCommit(t *testing.T) {
	f := newDepositTxFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.RecordDeposit(context.Background(), &models.RecordDepositRequest{
		TenantID:      f.appt.TenantID,
		AppointmentID: f.appt.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Appointment.Status)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.AppointmentConfirmed, f.publisher.published[0].Type)
	assert.Equal(t, []string{"CONFIRMED"}, f.metrics.transitions)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRecordDeposit_CommitFailureNotPublished(t *testing.T) {
	f := newDepositTxFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	_, err := f.svc.RecordDeposit(context.Background(), &models.RecordDepositRequest{
		TenantID:      f.appt.TenantID,
		AppointmentID: f.appt.ID,
	})

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Empty(t, f.publisher.published)
	assert.Empty(t, f.metrics.transitions)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
