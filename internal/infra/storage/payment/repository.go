package payment

import (
	"context"
	"database/sql"
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
	"client_id",
	"appointment_id",
	"amount",
	"type",
	"status",
	"external_ref",
	"created_at",
}

// Repository репозиторий платежей (только учет, без интеграции с платежным шлюзом)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет платеж
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("tenant_id", "client_id", "appointment_id", "amount", "type", "status", "external_ref").
		Values(
			payment.TenantID,
			payment.ClientID,
			payment.AppointmentID,
			payment.Amount,
			payment.Type,
			payment.Status,
			payment.ExternalRef,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return payment, nil
}

// List получает платежи салона с фильтрацией, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("payments").
		Where(squirrel.Eq{"tenant_id": filter.TenantID}).
		OrderBy("created_at DESC")

	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.AppointmentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_id": *filter.AppointmentID})
	}
	if filter.Type != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"created_at": *filter.To})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		var appointmentID uuid.NullUUID
		var externalRef sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.TenantID,
			&p.ClientID,
			&appointmentID,
			&p.Amount,
			&p.Type,
			&p.Status,
			&externalRef,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan payment: %w", ErrScanRow, err)
		}
		if appointmentID.Valid {
			p.AppointmentID = &appointmentID.UUID
		}
		if externalRef.Valid {
			p.ExternalRef = &externalRef.String
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %w", ErrScanRow, err)
	}

	return payments, nil
}
