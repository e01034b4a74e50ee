package clients

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/client"
	apptModels "github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonService/internal/service/clients/models"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type fakeClientRepo struct {
	clients    map[uuid.UUID]*domain.Client
	createErrs []error
	lastFilter domain.ClientFilter
}

func (f *fakeClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	c.ID = uuid.New()
	cp := *c
	f.clients[c.ID] = &cp
	return c, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (*domain.Client, error) {
	c, ok := f.clients[id]
	if !ok || c.TenantID != tenantID {
		return nil, clientRepo.ErrClientNotFound
	}
	cp := *c
	cp.Allergies = append([]string(nil), c.Allergies...)
	return &cp, nil
}

func (f *fakeClientRepo) GetByQRCode(_ context.Context, tenantID uuid.UUID, qrCode string) (*domain.Client, error) {
	for _, c := range f.clients {
		if c.TenantID == tenantID && c.QRCode == qrCode {
			cp := *c
			return &cp, nil
		}
	}
	return nil, clientRepo.ErrClientNotFound
}

func (f *fakeClientRepo) List(_ context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	f.lastFilter = filter
	result := make([]*domain.Client, 0, len(f.clients))
	for _, c := range f.clients {
		result = append(result, c)
	}
	return result, nil
}

func (f *fakeClientRepo) UpdateMedicalInfo(_ context.Context, c *domain.Client) (*domain.Client, error) {
	cp := *c
	f.clients[c.ID] = &cp
	return c, nil
}

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	lastFilter   domain.AppointmentFilter
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (*domain.Appointment, error) {
	for _, a := range f.appointments {
		if a.ID == id && a.TenantID == tenantID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	return f.appointments, nil
}

type fakeNoteRepo struct {
	notes   []*domain.ServiceNote
	lastIDs []uuid.UUID
}

func (f *fakeNoteRepo) Create(_ context.Context, n *domain.ServiceNote) (*domain.ServiceNote, error) {
	n.ID = uuid.New()
	n.CreatedAt = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	f.notes = append(f.notes, n)
	return n, nil
}

func (f *fakeNoteRepo) ListByAppointments(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*domain.ServiceNote, error) {
	f.lastIDs = ids
	result := make([]*domain.ServiceNote, 0)
	for _, n := range f.notes {
		if n.TenantID != tenantID {
			continue
		}
		for _, id := range ids {
			if n.AppointmentID == id {
				result = append(result, n)
			}
		}
	}
	return result, nil
}

type fakeStaffRepo struct {
	staff map[uuid.UUID]*domain.Staff
}

func (f *fakeStaffRepo) GetStaff(_ context.Context, tenantID, id uuid.UUID) (*domain.Staff, error) {
	st, ok := f.staff[id]
	if !ok || st.TenantID != tenantID {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return st, nil
}

type fakeLifecycle struct {
	checkedIn []uuid.UUID
	err       error
}

func (f *fakeLifecycle) CheckIn(_ context.Context, _ uuid.UUID, id uuid.UUID) (*apptModels.AppointmentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.checkedIn = append(f.checkedIn, id)
	return &apptModels.AppointmentResponse{ID: id, Status: string(domain.StatusCheckIn)}, nil
}

type seqTokens struct {
	tokens []string
}

func (s *seqTokens) Generate() (string, error) {
	t := s.tokens[0]
	s.tokens = s.tokens[1:]
	return t, nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	clients      *fakeClientRepo
	appointments *fakeAppointmentRepo
	notes        *fakeNoteRepo
	staff        *fakeStaffRepo
	lifecycle    *fakeLifecycle
	tokens       *seqTokens
	svc          *Service
	tenantID     uuid.UUID
	now          time.Time
}

func newFixture() *fixture {
	f := &fixture{
		clients:      &fakeClientRepo{clients: map[uuid.UUID]*domain.Client{}},
		appointments: &fakeAppointmentRepo{},
		notes:        &fakeNoteRepo{},
		staff:        &fakeStaffRepo{staff: map[uuid.UUID]*domain.Staff{}},
		lifecycle:    &fakeLifecycle{},
		tokens:       &seqTokens{tokens: []string{"token-1", "token-2", "token-3", "token-4"}},
		tenantID:     uuid.New(),
		now:          time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
	}
	f.svc = NewService(f.clients, f.appointments, f.notes, f.staff, f.lifecycle, f.tokens, fakeTx{}, "ES", nopLogger{})
	f.svc.timeProvider = fixedTime{t: f.now}
	return f
}

func (f *fixture) addClient(allergies ...string) *domain.Client {
	c := &domain.Client{
		ID:          uuid.New(),
		TenantID:    f.tenantID,
		QRCode:      "qr-" + uuid.NewString(),
		FirstName:   "Lucia",
		LastName:    "Perez",
		Allergies:   allergies,
		LoyaltyTier: domain.TierBronze,
	}
	f.clients.clients[c.ID] = c
	return c
}

func TestCreate(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), &models.CreateClientRequest{
		TenantID:  f.tenantID,
		FirstName: "  Lucia ",
		LastName:  "Perez",
		Email:     ptr.Ptr("lucia@example.com"),
		Phone:     ptr.Ptr("600 111 222"),
		Allergies: []string{"Latex", " latex ", "nuts"},
	})

	require.NoError(t, err)
	assert.Equal(t, "token-1", resp.QRCode)
	assert.Equal(t, "Lucia", resp.FirstName)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, "+34600111222", *resp.Phone)
	assert.Equal(t, []string{"Latex", "nuts"}, resp.Allergies)
	assert.Equal(t, "BRONZE", resp.LoyaltyTier)
	assert.Zero(t, resp.LoyaltyPoints)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "HIGH", resp.Alerts[0].Severity)
}

func TestCreate_InternationalPhoneKeepsCountry(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), &models.CreateClientRequest{
		TenantID:  f.tenantID,
		FirstName: "Ana",
		LastName:  "Gomez",
		Phone:     ptr.Ptr("+1 650-253-0000"),
	})

	require.NoError(t, err)
	assert.Equal(t, "+16502530000", *resp.Phone)
}

func TestCreate_RetriesOnTokenCollision(t *testing.T) {
	f := newFixture()
	f.clients.createErrs = []error{clientRepo.ErrDuplicateQRCode, nil}

	resp, err := f.svc.Create(context.Background(), &models.CreateClientRequest{
		TenantID: f.tenantID, FirstName: "Ana", LastName: "Gomez",
	})

	require.NoError(t, err)
	assert.Equal(t, "token-2", resp.QRCode)
}

func TestCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture()
	f.clients.createErrs = []error{clientRepo.ErrDuplicateQRCode, clientRepo.ErrDuplicateQRCode, clientRepo.ErrDuplicateQRCode}

	_, err := f.svc.Create(context.Background(), &models.CreateClientRequest{
		TenantID: f.tenantID, FirstName: "Ana", LastName: "Gomez",
	})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestCreate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateClientRequest
	}{
		{"missing first name", models.CreateClientRequest{LastName: "Perez"}},
		{"bad email", models.CreateClientRequest{FirstName: "A", LastName: "B", Email: ptr.Ptr("not-an-email")}},
		{"bad phone", models.CreateClientRequest{FirstName: "A", LastName: "B", Phone: ptr.Ptr("12")}},
		{"empty allergy", models.CreateClientRequest{FirstName: "A", LastName: "B", Allergies: []string{" "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := tt.req
			req.TenantID = f.tenantID

			_, err := f.svc.Create(context.Background(), &req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, f.clients.clients)
		})
	}
}

func TestList(t *testing.T) {
	f := newFixture()
	f.addClient()

	resp, err := f.svc.List(context.Background(), &models.ListRequest{
		TenantID: f.tenantID,
		Search:   ptr.Ptr("luc"),
		Tier:     ptr.Ptr("silver"),
		Limit:    20,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Clients, 1)
	require.NotNil(t, f.clients.lastFilter.Tier)
	assert.Equal(t, domain.TierSilver, *f.clients.lastFilter.Tier)
	assert.Equal(t, uint64(20), f.clients.lastFilter.Limit)

	_, err = f.svc.List(context.Background(), &models.ListRequest{TenantID: f.tenantID, Tier: ptr.Ptr("platinum")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetByID(context.Background(), f.tenantID, uuid.New())

	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestAddAllergy_SetSemantics(t *testing.T) {
	f := newFixture()
	c := f.addClient("latex")

	resp, err := f.svc.AddAllergy(context.Background(), f.tenantID, c.ID, "LATEX")
	require.NoError(t, err)
	assert.Equal(t, []string{"latex"}, resp.Allergies)

	resp, err = f.svc.AddAllergy(context.Background(), f.tenantID, c.ID, "nuts")
	require.NoError(t, err)
	assert.Equal(t, []string{"latex", "nuts"}, resp.Allergies)
}

func TestRemoveAllergy(t *testing.T) {
	f := newFixture()
	c := f.addClient("latex", "nuts")

	resp, err := f.svc.RemoveAllergy(context.Background(), f.tenantID, c.ID, "Latex")

	require.NoError(t, err)
	assert.Equal(t, []string{"nuts"}, resp.Allergies)
	assert.Equal(t, []string{"nuts"}, f.clients.clients[c.ID].Allergies)
}

func TestUpdateMedicalInfo(t *testing.T) {
	f := newFixture()
	c := f.addClient("latex")

	resp, err := f.svc.UpdateMedicalInfo(context.Background(), &models.UpdateMedicalRequest{
		TenantID:     f.tenantID,
		ClientID:     c.ID,
		MedicalNotes: ptr.Ptr("Pregnant, avoid retinoids"),
	})

	require.NoError(t, err)
	require.NotNil(t, resp.MedicalNotes)
	assert.Equal(t, []string{"latex"}, resp.Allergies)
	require.Len(t, resp.Alerts, 2)
	assert.Equal(t, domain.AlertMedicalNotes, resp.Alerts[1].Type)
	assert.Equal(t, "MEDIUM", resp.Alerts[1].Severity)
}

func TestUpdateMedicalInfo_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateMedicalInfo(context.Background(), &models.UpdateMedicalRequest{
		TenantID: f.tenantID, ClientID: uuid.New(), MedicalNotes: ptr.Ptr("x"),
	})

	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestAlerts(t *testing.T) {
	f := newFixture()
	c := f.addClient()

	alerts, err := f.svc.Alerts(context.Background(), f.tenantID, c.ID)

	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCheckInByQR_PicksEarliestToday(t *testing.T) {
	f := newFixture()
	c := f.addClient()
	early := &domain.Appointment{ID: uuid.New(), StartTime: f.now.Add(30 * time.Minute), Status: domain.StatusConfirmed}
	late := &domain.Appointment{ID: uuid.New(), StartTime: f.now.Add(3 * time.Hour), Status: domain.StatusConfirmed}
	f.appointments.appointments = []*domain.Appointment{late, early}

	resp, err := f.svc.CheckInByQR(context.Background(), f.tenantID, c.QRCode, nil)

	require.NoError(t, err)
	assert.Equal(t, c.ID, resp.Client.ID)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, early.ID, resp.Appointment.ID)
	assert.Equal(t, []uuid.UUID{early.ID}, f.lifecycle.checkedIn)

	filter := f.appointments.lastFilter
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusConfirmed}, filter.Statuses)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), *filter.From)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), *filter.To)
}

func TestCheckInByQR_NoAppointmentToday(t *testing.T) {
	f := newFixture()
	c := f.addClient()

	resp, err := f.svc.CheckInByQR(context.Background(), f.tenantID, c.QRCode, nil)

	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	assert.Empty(t, f.lifecycle.checkedIn)
}

func TestCheckInByQR_IgnoresAppointmentStartedYesterday(t *testing.T) {
	f := newFixture()
	c := f.addClient()
	overnight := &domain.Appointment{ID: uuid.New(), StartTime: f.now.Add(-11 * time.Hour), Status: domain.StatusConfirmed}
	f.appointments.appointments = []*domain.Appointment{overnight}

	resp, err := f.svc.CheckInByQR(context.Background(), f.tenantID, c.QRCode, nil)

	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	assert.Empty(t, f.lifecycle.checkedIn)
}

func TestCheckInByQR_UsesSalonTimezone(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	f := newFixture()
	// 23:30 UTC 2 июня - уже 01:30 3 июня в Мадриде
	f.svc.timeProvider = fixedTime{t: time.Date(2025, 6, 2, 23, 30, 0, 0, time.UTC)}
	c := f.addClient()
	tomorrowLocal := &domain.Appointment{ID: uuid.New(), StartTime: time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC), Status: domain.StatusConfirmed}
	lateYesterdayLocal := &domain.Appointment{ID: uuid.New(), StartTime: time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC), Status: domain.StatusConfirmed}
	f.appointments.appointments = []*domain.Appointment{lateYesterdayLocal, tomorrowLocal}

	resp, err := f.svc.CheckInByQR(context.Background(), f.tenantID, c.QRCode, madrid)

	require.NoError(t, err)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, tomorrowLocal.ID, resp.Appointment.ID)

	filter := f.appointments.lastFilter
	assert.True(t, filter.From.Equal(time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC)), "from %s", filter.From)
	assert.True(t, filter.To.Equal(time.Date(2025, 6, 3, 22, 0, 0, 0, time.UTC)), "to %s", filter.To)
}

func TestCheckInByQR_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CheckInByQR(context.Background(), f.tenantID, "unknown", nil)
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = f.svc.CheckInByQR(context.Background(), f.tenantID, " ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	c := f.addClient()
	f.appointments.appointments = []*domain.Appointment{{ID: uuid.New(), StartTime: f.now}}
	transitionErr := errors.New("invalid transition")
	f.lifecycle.err = transitionErr

	_, err = f.svc.CheckInByQR(context.Background(), f.tenantID, c.QRCode, nil)
	assert.ErrorIs(t, err, transitionErr)
}

func (f *fixture) addAppointment(clientID uuid.UUID, start time.Time, status domain.AppointmentStatus) *domain.Appointment {
	a := &domain.Appointment{
		ID:        uuid.New(),
		TenantID:  f.tenantID,
		ClientID:  clientID,
		StaffID:   uuid.New(),
		ServiceID: uuid.New(),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	}
	f.appointments.appointments = append(f.appointments.appointments, a)
	return a
}

func TestAddServiceNote(t *testing.T) {
	f := newFixture()
	c := f.addClient()
	appt := f.addAppointment(c.ID, f.now, domain.StatusCompleted)

	resp, err := f.svc.AddServiceNote(context.Background(), &models.AddServiceNoteRequest{
		TenantID:      f.tenantID,
		AppointmentID: appt.ID,
		Content:       "  formula 7.1, 35 min  ",
	})

	require.NoError(t, err)
	assert.Equal(t, appt.ID, resp.AppointmentID)
	assert.Equal(t, appt.StaffID, resp.StaffID)
	assert.Equal(t, "formula 7.1, 35 min", resp.Content)
	require.Len(t, f.notes.notes, 1)
	assert.Equal(t, f.tenantID, f.notes.notes[0].TenantID)
}

func TestAddServiceNote_OtherStaffMember(t *testing.T) {
	f := newFixture()
	c := f.addClient()
	appt := f.addAppointment(c.ID, f.now, domain.StatusCheckIn)
	assistant := &domain.Staff{ID: uuid.New(), TenantID: f.tenantID, IsActive: true}
	f.staff.staff[assistant.ID] = assistant

	resp, err := f.svc.AddServiceNote(context.Background(), &models.AddServiceNoteRequest{
		TenantID:      f.tenantID,
		AppointmentID: appt.ID,
		StaffID:       &assistant.ID,
		Content:       "scalp sensitive to bleach",
	})

	require.NoError(t, err)
	assert.Equal(t, assistant.ID, resp.StaffID)
}

func TestAddServiceNote_Errors(t *testing.T) {
	f := newFixture()
	c := f.addClient()
	appt := f.addAppointment(c.ID, f.now, domain.StatusCompleted)
	cancelled := f.addAppointment(c.ID, f.now.Add(-24*time.Hour), domain.StatusCancelled)
	unknownStaff := uuid.New()

	tests := []struct {
		name    string
		req     *models.AddServiceNoteRequest
		wantErr error
	}{
		{
			name:    "empty content",
			req:     &models.AddServiceNoteRequest{TenantID: f.tenantID, AppointmentID: appt.ID, Content: "   "},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "content too long",
			req:     &models.AddServiceNoteRequest{TenantID: f.tenantID, AppointmentID: appt.ID, Content: strings.Repeat("a", domain.MaxNotesLength+1)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown appointment",
			req:     &models.AddServiceNoteRequest{TenantID: f.tenantID, AppointmentID: uuid.New(), Content: "ok"},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "appointment of another tenant",
			req:     &models.AddServiceNoteRequest{TenantID: uuid.New(), AppointmentID: appt.ID, Content: "ok"},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "cancelled appointment",
			req:     &models.AddServiceNoteRequest{TenantID: f.tenantID, AppointmentID: cancelled.ID, Content: "ok"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown staff",
			req:     &models.AddServiceNoteRequest{TenantID: f.tenantID, AppointmentID: appt.ID, StaffID: &unknownStaff, Content: "ok"},
			wantErr: ErrStaffNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddServiceNote(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.notes.notes)
}

func TestServiceHistory(t *testing.T) {
	f := newFixture()
	c := f.addClient()
	older := f.addAppointment(c.ID, f.now.AddDate(0, -2, 0), domain.StatusCompleted)
	newer := f.addAppointment(c.ID, f.now.AddDate(0, 0, -7), domain.StatusCompleted)
	f.notes.notes = []*domain.ServiceNote{
		{ID: uuid.New(), TenantID: f.tenantID, AppointmentID: older.ID, Content: "first visit"},
		{ID: uuid.New(), TenantID: f.tenantID, AppointmentID: older.ID, Content: "patch test ok"},
	}

	resp, err := f.svc.ServiceHistory(context.Background(), f.tenantID, c.ID)

	require.NoError(t, err)
	require.Len(t, resp.Visits, 2)
	assert.Equal(t, newer.ID, resp.Visits[0].Appointment.ID)
	assert.Empty(t, resp.Visits[0].Notes)
	assert.NotNil(t, resp.Visits[0].Notes)
	assert.Equal(t, older.ID, resp.Visits[1].Appointment.ID)
	require.Len(t, resp.Visits[1].Notes, 2)
	assert.Equal(t, "first visit", resp.Visits[1].Notes[0].Content)

	filter := f.appointments.lastFilter
	assert.Equal(t, c.ID, *filter.ClientID)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusCompleted}, filter.Statuses)
	assert.ElementsMatch(t, []uuid.UUID{older.ID, newer.ID}, f.notes.lastIDs)
}

func TestServiceHistory_UnknownClient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ServiceHistory(context.Background(), f.tenantID, uuid.New())

	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestUUIDTokenGenerator(t *testing.T) {
	token, err := UUIDTokenGenerator{}.Generate()

	require.NoError(t, err)
	assert.Len(t, token, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", token)
}
