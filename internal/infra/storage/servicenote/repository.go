package servicenote

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"tenant_id",
	"appointment_id",
	"staff_id",
	"content",
	"created_at",
}

// Repository репозиторий заметок мастеров к записям
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заметок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет заметку
func (r *Repository) Create(ctx context.Context, note *domain.ServiceNote) (*domain.ServiceNote, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_notes").
		Columns("tenant_id", "appointment_id", "staff_id", "content").
		Values(note.TenantID, note.AppointmentID, note.StaffID, note.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&note.ID, &note.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return note, nil
}

// ListByAppointments получает заметки к указанным записям салона в порядке создания
func (r *Repository) ListByAppointments(ctx context.Context, tenantID uuid.UUID, appointmentIDs []uuid.UUID) ([]*domain.ServiceNote, error) {
	notes := make([]*domain.ServiceNote, 0)
	if len(appointmentIDs) == 0 {
		return notes, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("service_notes").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"appointment_id": appointmentIDs}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointments - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var n domain.ServiceNote
		if err := rows.Scan(&n.ID, &n.TenantID, &n.AppointmentID, &n.StaffID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByAppointments - scan note: %w", ErrScanRow, err)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointments - iterate rows: %w", ErrScanRow, err)
	}

	return notes, nil
}
