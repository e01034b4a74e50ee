package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

var tenantColumns = []string{
	"id",
	"name",
	"deposit_percentage",
	"buffer_time_minutes",
	"slot_step_minutes",
	"bronze_threshold",
	"silver_threshold",
	"gold_threshold",
	"updated_at",
}

var hoursColumns = []string{
	"day_of_week",
	"open_time",
	"close_time",
	"is_closed",
}

// Repository репозиторий политики салона (настройки депозита, буфера, уровней и часы работы)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает политику салона вместе с часами работы
func (r *Repository) Get(ctx context.Context, tenantID uuid.UUID) (*domain.TenantPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tenantColumns...).
		From("tenants").
		Where(squirrel.Eq{"id": tenantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.TenantPolicy
	var buffer, step, bronze, silver, gold sql.NullInt32

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.TenantID,
		&p.Name,
		&p.DepositPercentage,
		&buffer,
		&step,
		&bronze,
		&silver,
		&gold,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan tenant: %w", ErrScanRow, err)
	}

	p.BufferTimeMinutes = intPtr(buffer)
	p.SlotStepMinutes = intPtr(step)
	p.BronzeThreshold = intPtr(bronze)
	p.SilverThreshold = intPtr(silver)
	p.GoldThreshold = intPtr(gold)

	hours, err := r.getBusinessHours(ctx, executor, tenantID)
	if err != nil {
		return nil, err
	}
	p.BusinessHours = hours

	return &p, nil
}

func (r *Repository) getBusinessHours(ctx context.Context, executor DBExecutor, tenantID uuid.UUID) ([]domain.BusinessHours, error) {
	query, args, err := psqlbuilder.Select(hoursColumns...).
		From("business_hours").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build business hours query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Get - execute business hours query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]domain.BusinessHours, 0, 7)
	for rows.Next() {
		var h domain.BusinessHours
		var day int
		if err := rows.Scan(&day, &h.OpenTime, &h.CloseTime, &h.IsClosed); err != nil {
			return nil, fmt.Errorf("%w: Get - scan business hours: %w", ErrScanRow, err)
		}
		h.DayOfWeek = time.Weekday(day)
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Get - iterate business hours: %w", ErrScanRow, err)
	}

	return hours, nil
}

// Update сохраняет переопределения политики салона (NULL - значение по умолчанию)
func (r *Repository) Update(ctx context.Context, p *domain.TenantPolicy) (*domain.TenantPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tenants").
		Set("deposit_percentage", p.DepositPercentage).
		Set("buffer_time_minutes", p.BufferTimeMinutes).
		Set("slot_step_minutes", p.SlotStepMinutes).
		Set("bronze_threshold", p.BronzeThreshold).
		Set("silver_threshold", p.SilverThreshold).
		Set("gold_threshold", p.GoldThreshold).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.TenantID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return p, nil
}

// ReplaceBusinessHours заменяет часы работы салона
// Вызывать в транзакции: удаление и вставка должны быть атомарны
func (r *Repository) ReplaceBusinessHours(ctx context.Context, tenantID uuid.UUID, hours []domain.BusinessHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("business_hours").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute delete: %w", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("business_hours").
		Columns("tenant_id", "day_of_week", "open_time", "close_time", "is_closed")
	for _, h := range hours {
		insertBuilder = insertBuilder.Values(tenantID, int(h.DayOfWeek), h.OpenTime, h.CloseTime, h.IsClosed)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

func intPtr(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}
