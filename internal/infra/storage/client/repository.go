package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки PostgreSQL при нарушении UNIQUE constraint
const pgUniqueViolation = "23505"

var columns = []string{
	"id",
	"tenant_id",
	"qr_code",
	"email",
	"phone",
	"first_name",
	"last_name",
	"medical_notes",
	"allergies",
	"loyalty_points",
	"loyalty_tier",
	"created_at",
	"updated_at",
}

// Repository репозиторий клиентов салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает клиента
func (r *Repository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("clients").
		Columns(
			"tenant_id",
			"qr_code",
			"email",
			"phone",
			"first_name",
			"last_name",
			"medical_notes",
			"allergies",
			"loyalty_points",
			"loyalty_tier",
		).
		Values(
			client.TenantID,
			client.QRCode,
			client.Email,
			client.Phone,
			client.FirstName,
			client.LastName,
			client.MedicalNotes,
			pq.Array(allergiesOrEmpty(client.Allergies)),
			client.LoyaltyPoints,
			client.LoyaltyTier,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateQRCode
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return client, nil
}

// GetByID получает клиента салона по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы изменения баллов не терялись
func (r *Repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Client, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id, "tenant_id": tenantID})
}

// GetByQRCode получает клиента салона по QR-токену
func (r *Repository) GetByQRCode(ctx context.Context, tenantID uuid.UUID, qrCode string) (*domain.Client, error) {
	return r.getOne(ctx, "GetByQRCode", squirrel.Eq{"qr_code": qrCode, "tenant_id": tenantID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("clients").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	client, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan client: %w", ErrScanRow, op, err)
	}

	return client, nil
}

// List получает клиентов салона
// Search ищет по имени, фамилии, email и телефону (ILIKE)
func (r *Repository) List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("clients").
		Where(squirrel.Eq{"tenant_id": filter.TenantID}).
		OrderBy("last_name ASC", "first_name ASC")

	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}
	if filter.Tier != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"loyalty_tier": *filter.Tier})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
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

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan client: %w", ErrScanRow, err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %w", ErrScanRow, err)
	}

	return clients, nil
}

// UpdateMedicalInfo сохраняет медицинские заметки и аллергии клиента
func (r *Repository) UpdateMedicalInfo(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	return r.update(ctx, "UpdateMedicalInfo", client, map[string]interface{}{
		"medical_notes": client.MedicalNotes,
		"allergies":     pq.Array(allergiesOrEmpty(client.Allergies)),
	})
}

// UpdateLoyalty сохраняет баланс баллов и уровень клиента
func (r *Repository) UpdateLoyalty(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	return r.update(ctx, "UpdateLoyalty", client, map[string]interface{}{
		"loyalty_points": client.LoyaltyPoints,
		"loyalty_tier":   client.LoyaltyTier,
	})
}

func (r *Repository) update(ctx context.Context, op string, client *domain.Client, fields map[string]interface{}) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("clients").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": client.ID, "tenant_id": client.TenantID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&client.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	return client, nil
}

// LoyaltyStats считает клиентов и баллы салона по уровням
func (r *Repository) LoyaltyStats(ctx context.Context, tenantID uuid.UUID) (*domain.LoyaltyStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("loyalty_tier", "COUNT(*)", "COALESCE(SUM(loyalty_points), 0)").
		From("clients").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		GroupBy("loyalty_tier").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LoyaltyStats - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: LoyaltyStats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := &domain.LoyaltyStats{ClientsByTier: make(map[domain.LoyaltyTier]int, len(domain.AllTiers))}
	for _, tier := range domain.AllTiers {
		stats.ClientsByTier[tier] = 0
	}

	for rows.Next() {
		var tier domain.LoyaltyTier
		var count int
		var points int64
		if err := rows.Scan(&tier, &count, &points); err != nil {
			return nil, fmt.Errorf("%w: LoyaltyStats - scan row: %w", ErrScanRow, err)
		}
		stats.ClientsByTier[tier] = count
		stats.TotalClients += count
		stats.TotalPoints += points
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: LoyaltyStats - iterate rows: %w", ErrScanRow, err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var email, phone, medicalNotes sql.NullString

	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.QRCode,
		&email,
		&phone,
		&c.FirstName,
		&c.LastName,
		&medicalNotes,
		pq.Array(&c.Allergies),
		&c.LoyaltyPoints,
		&c.LoyaltyTier,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if medicalNotes.Valid {
		c.MedicalNotes = &medicalNotes.String
	}

	return &c, nil
}

func allergiesOrEmpty(allergies []string) []string {
	if allergies == nil {
		return []string{}
	}
	return allergies
}
