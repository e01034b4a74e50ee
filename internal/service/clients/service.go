package clients

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonService/internal/service/clients/models"
)

// maxTokenAttempts ограничивает число попыток выдать уникальный QR-токен
const maxTokenAttempts = 3

// Service сервис клиентской базы салона (CRM)
type Service struct {
	clientRepo      ClientRepository
	appointmentRepo AppointmentRepository
	noteRepo        NoteRepository
	staffRepo       StaffRepository
	lifecycle       AppointmentLifecycle
	tokens          TokenGenerator
	txManager       TransactionManager
	phoneRegion     string
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса клиентов
// phoneRegion - регион (ISO 3166-1) для номеров без кода страны
func NewService(
	clientRepo ClientRepository,
	appointmentRepo AppointmentRepository,
	noteRepo NoteRepository,
	staffRepo StaffRepository,
	lifecycle AppointmentLifecycle,
	tokens TokenGenerator,
	txManager TransactionManager,
	phoneRegion string,
	logger Logger,
) *Service {
	return &Service{
		clientRepo:      clientRepo,
		appointmentRepo: appointmentRepo,
		noteRepo:        noteRepo,
		staffRepo:       staffRepo,
		lifecycle:       lifecycle,
		tokens:          tokens,
		txManager:       txManager,
		phoneRegion:     phoneRegion,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Create регистрирует клиента с новым QR-токеном, уровнем BRONZE и нулем баллов
func (s *Service) Create(ctx context.Context, req *models.CreateClientRequest) (*models.ClientResponse, error) {
	s.logger.Info("Create: creating client for tenant=%s", req.TenantID)

	// 1. Валидируем и нормализуем входные данные
	if err := s.validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Создаем клиента; при совпадении токена пробуем новый
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, err := s.tokens.Generate()
		if err != nil {
			s.logger.Error("Create: failed to generate qr token: %v", err)
			return nil, fmt.Errorf("%w: failed to generate qr token: %v", ErrInternal, err)
		}

		created, err := s.clientRepo.Create(ctx, &domain.Client{
			TenantID:      req.TenantID,
			QRCode:        token,
			Email:         req.Email,
			Phone:         req.Phone,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			MedicalNotes:  req.MedicalNotes,
			Allergies:     req.Allergies,
			LoyaltyPoints: 0,
			LoyaltyTier:   domain.TierBronze,
		})
		if err == nil {
			s.logger.Info("Create: successfully created client id=%s", created.ID)
			return models.FromDomainClient(created), nil
		}
		if !errors.Is(err, clientRepo.ErrDuplicateQRCode) {
			s.logger.Error("Create: repository error: %v", err)
			return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		s.logger.Warn("Create: qr token collision, attempt %d", attempt)
	}

	return nil, fmt.Errorf("%w: Create - could not issue a unique qr token", ErrInternal)
}

// GetByID получает клиента салона по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.ClientResponse, error) {
	s.logger.Info("GetByID: fetching client id=%s for tenant=%s", id, tenantID)

	client, err := s.getClient(ctx, "GetByID", tenantID, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainClient(client), nil
}

// List получает клиентов салона
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ClientListResponse, error) {
	s.logger.Info("List: fetching clients for tenant=%s", req.TenantID)

	filter := domain.ClientFilter{
		TenantID: req.TenantID,
		Search:   req.Search,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if req.Tier != nil {
		tier, err := domain.ParseLoyaltyTier(*req.Tier)
		if err != nil {
			s.logger.Warn("List: invalid tier=%s", *req.Tier)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Tier = &tier
	}

	clients, err := s.clientRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d clients for tenant=%s", len(clients), req.TenantID)
	return models.FromDomainClientList(clients), nil
}

// UpdateMedicalInfo изменяет медицинские заметки и (или) список аллергий
func (s *Service) UpdateMedicalInfo(ctx context.Context, req *models.UpdateMedicalRequest) (*models.ClientResponse, error) {
	s.logger.Info("UpdateMedicalInfo: client id=%s, tenant=%s", req.ClientID, req.TenantID)

	if err := validateMedicalNotes(req.MedicalNotes); err != nil {
		return nil, err
	}
	allergies, err := normalizeAllergies(req.Allergies)
	if err != nil {
		return nil, err
	}

	return s.modify(ctx, "UpdateMedicalInfo", req.TenantID, req.ClientID, func(c *domain.Client) {
		if req.MedicalNotes != nil {
			notes := strings.TrimSpace(*req.MedicalNotes)
			if notes == "" {
				c.MedicalNotes = nil
			} else {
				c.MedicalNotes = &notes
			}
		}
		if allergies != nil {
			c.Allergies = allergies
		}
	})
}

// AddAllergy добавляет аллергию (повторное добавление ничего не меняет)
func (s *Service) AddAllergy(ctx context.Context, tenantID, clientID uuid.UUID, allergy string) (*models.ClientResponse, error) {
	normalized, err := normalizeAllergies([]string{allergy})
	if err != nil {
		return nil, err
	}

	return s.modify(ctx, "AddAllergy", tenantID, clientID, func(c *domain.Client) {
		if !c.HasAllergy(normalized[0]) {
			c.Allergies = append(c.Allergies, normalized[0])
		}
	})
}

// RemoveAllergy удаляет аллергию (без учета регистра)
func (s *Service) RemoveAllergy(ctx context.Context, tenantID, clientID uuid.UUID, allergy string) (*models.ClientResponse, error) {
	allergy = strings.TrimSpace(allergy)

	return s.modify(ctx, "RemoveAllergy", tenantID, clientID, func(c *domain.Client) {
		kept := make([]string, 0, len(c.Allergies))
		for _, a := range c.Allergies {
			if !strings.EqualFold(a, allergy) {
				kept = append(kept, a)
			}
		}
		c.Allergies = kept
	})
}

// Alerts возвращает предупреждения по клиенту: аллергии (HIGH) и медицинские заметки (MEDIUM)
func (s *Service) Alerts(ctx context.Context, tenantID, clientID uuid.UUID) ([]models.AlertResponse, error) {
	client, err := s.getClient(ctx, "Alerts", tenantID, clientID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAlerts(client.Alerts()), nil
}

// CheckInByQR находит клиента по QR-токену и отмечает приход на сегодняшнюю подтвержденную запись
// Если такой записи нет, возвращается только клиент; loc - часовой пояс салона, nil означает UTC
func (s *Service) CheckInByQR(ctx context.Context, tenantID uuid.UUID, qrCode string, loc *time.Location) (*models.CheckInResponse, error) {
	s.logger.Info("CheckInByQR: tenant=%s", tenantID)

	qrCode = strings.TrimSpace(qrCode)
	if qrCode == "" {
		return nil, fmt.Errorf("%w: qrCode is required", ErrInvalidInput)
	}
	if loc == nil {
		loc = time.UTC
	}

	// 1. Находим клиента
	client, err := s.clientRepo.GetByQRCode(ctx, tenantID, qrCode)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("CheckInByQR: unknown qr code for tenant=%s", tenantID)
			return nil, ErrClientNotFound
		}
		s.logger.Error("CheckInByQR: repository error: %v", err)
		return nil, fmt.Errorf("%w: CheckInByQR - repository error: %v", ErrInternal, err)
	}

	resp := &models.CheckInResponse{Client: *models.FromDomainClient(client)}

	// 2. Ищем подтвержденную запись, начинающуюся сегодня в часовом поясе салона
	now := s.timeProvider.Now().In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	found, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		TenantID: tenantID,
		ClientID: &client.ID,
		Statuses: []domain.AppointmentStatus{domain.StatusConfirmed},
		From:     &dayStart,
		To:       &dayEnd,
	})
	if err != nil {
		s.logger.Error("CheckInByQR: failed to list appointments for client id=%s: %v", client.ID, err)
		return nil, fmt.Errorf("%w: CheckInByQR - list appointments: %v", ErrInternal, err)
	}

	// Фильтр хранилища отбирает по пересечению, запись со вчерашним началом сюда не относится
	appointments := make([]*domain.Appointment, 0, len(found))
	for _, a := range found {
		if !a.StartTime.Before(dayStart) && a.StartTime.Before(dayEnd) {
			appointments = append(appointments, a)
		}
	}
	if len(appointments) == 0 {
		s.logger.Info("CheckInByQR: client id=%s has no confirmed appointment today", client.ID)
		return resp, nil
	}

	// 3. Отмечаем приход на ближайшую по времени запись
	next := appointments[0]
	for _, a := range appointments[1:] {
		if a.StartTime.Before(next.StartTime) {
			next = a
		}
	}

	checkedIn, err := s.lifecycle.CheckIn(ctx, tenantID, next.ID)
	if err != nil {
		s.logger.Error("CheckInByQR: check-in failed for appointment id=%s: %v", next.ID, err)
		return nil, err
	}

	s.logger.Info("CheckInByQR: client id=%s checked in for appointment id=%s", client.ID, next.ID)
	resp.Appointment = checkedIn
	return resp, nil
}

// AddServiceNote сохраняет заметку мастера к записи
// Без staffId автором считается мастер записи; к отмененной записи заметку добавить нельзя
func (s *Service) AddServiceNote(ctx context.Context, req *models.AddServiceNoteRequest) (*models.ServiceNoteResponse, error) {
	s.logger.Info("AddServiceNote: tenant=%s, appointment=%s", req.TenantID, req.AppointmentID)

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: content must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// 1. Проверяем запись
	appt, err := s.appointmentRepo.GetByID(ctx, req.TenantID, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("AddServiceNote: appointment id=%s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("AddServiceNote: failed to get appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: AddServiceNote - get appointment: %v", ErrInternal, err)
	}
	if appt.Status == domain.StatusCancelled {
		s.logger.Warn("AddServiceNote: appointment id=%s is cancelled", appt.ID)
		return nil, fmt.Errorf("%w: appointment is cancelled", ErrInvalidInput)
	}

	// 2. Определяем автора
	staffID := appt.StaffID
	if req.StaffID != nil && *req.StaffID != appt.StaffID {
		if _, err := s.staffRepo.GetStaff(ctx, req.TenantID, *req.StaffID); err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				s.logger.Warn("AddServiceNote: staff id=%s not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			s.logger.Error("AddServiceNote: failed to get staff id=%s: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: AddServiceNote - get staff: %v", ErrInternal, err)
		}
		staffID = *req.StaffID
	}

	// 3. Сохраняем заметку
	note, err := s.noteRepo.Create(ctx, &domain.ServiceNote{
		TenantID:      req.TenantID,
		AppointmentID: appt.ID,
		StaffID:       staffID,
		Content:       content,
	})
	if err != nil {
		s.logger.Error("AddServiceNote: failed to create note for appointment id=%s: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: AddServiceNote - create note: %v", ErrInternal, err)
	}

	s.logger.Info("AddServiceNote: note id=%s added to appointment id=%s", note.ID, appt.ID)
	return models.FromDomainServiceNote(note), nil
}

// ServiceHistory возвращает завершенные визиты клиента (сначала последние) с заметками мастеров
func (s *Service) ServiceHistory(ctx context.Context, tenantID, clientID uuid.UUID) (*models.ServiceHistoryResponse, error) {
	s.logger.Info("ServiceHistory: tenant=%s, client=%s", tenantID, clientID)

	if _, err := s.getClient(ctx, "ServiceHistory", tenantID, clientID); err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		TenantID: tenantID,
		ClientID: &clientID,
		Statuses: []domain.AppointmentStatus{domain.StatusCompleted},
	})
	if err != nil {
		s.logger.Error("ServiceHistory: failed to list appointments for client id=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: ServiceHistory - list appointments: %v", ErrInternal, err)
	}

	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].StartTime.After(appointments[j].StartTime)
	})

	ids := make([]uuid.UUID, 0, len(appointments))
	for _, a := range appointments {
		ids = append(ids, a.ID)
	}

	notes, err := s.noteRepo.ListByAppointments(ctx, tenantID, ids)
	if err != nil {
		s.logger.Error("ServiceHistory: failed to list notes for client id=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: ServiceHistory - list notes: %v", ErrInternal, err)
	}

	byAppointment := domain.GroupNotesByAppointment(notes)
	entries := make([]domain.ServiceHistoryEntry, 0, len(appointments))
	for _, a := range appointments {
		entries = append(entries, domain.ServiceHistoryEntry{Appointment: a, Notes: byAppointment[a.ID]})
	}

	s.logger.Info("ServiceHistory: found %d visits for client id=%s", len(entries), clientID)
	return models.FromDomainServiceHistory(entries), nil
}

// modify читает клиента с блокировкой, применяет изменение и сохраняет медицинскую информацию
func (s *Service) modify(ctx context.Context, op string, tenantID, clientID uuid.UUID, apply func(c *domain.Client)) (*models.ClientResponse, error) {
	var result *domain.Client

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		client, err := s.getClient(txCtx, op, tenantID, clientID)
		if err != nil {
			return err
		}

		apply(client)

		updated, err := s.clientRepo.UpdateMedicalInfo(txCtx, client)
		if err != nil {
			if errors.Is(err, clientRepo.ErrClientNotFound) {
				return ErrClientNotFound
			}
			s.logger.Error("%s: repository error for client id=%s: %v", op, clientID, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrClientNotFound) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("%s: transaction failed for client id=%s: %v", op, clientID, err)
		return nil, fmt.Errorf("%w: %s - transaction: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: successfully updated client id=%s", op, clientID)
	return models.FromDomainClient(result), nil
}

func (s *Service) getClient(ctx context.Context, op string, tenantID, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("%s: client id=%s not found", op, id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("%s: repository error for client id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return client, nil
}
