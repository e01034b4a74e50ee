package loyalty

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"tenant_id",
	"tier",
	"min_points",
	"max_points",
	"benefits",
	"discount",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил программы лояльности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил лояльности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRules получает правила уровней салона, упорядоченные по min_points
// Салон без правил получает пустой список
func (r *Repository) GetRules(ctx context.Context, tenantID uuid.UUID) ([]*domain.LoyaltyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("loyalty_rules").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("min_points ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.LoyaltyRule, 0, len(domain.AllTiers))
	for rows.Next() {
		var rule domain.LoyaltyRule
		var maxPoints *int64

		err := rows.Scan(
			&rule.ID,
			&rule.TenantID,
			&rule.Tier,
			&rule.MinPoints,
			&maxPoints,
			pq.Array(&rule.Benefits),
			&rule.Discount,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRules - scan rule: %w", ErrScanRow, err)
		}
		if maxPoints != nil {
			v := int(*maxPoints)
			rule.MaxPoints = &v
		}
		rules = append(rules, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRules - iterate rows: %w", ErrScanRow, err)
	}

	return rules, nil
}

// Upsert создает или обновляет правило уровня (уникально по tenant_id + tier)
func (r *Repository) Upsert(ctx context.Context, rule *domain.LoyaltyRule) (*domain.LoyaltyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	benefits := rule.Benefits
	if benefits == nil {
		benefits = []string{}
	}

	query, args, err := psqlbuilder.Insert("loyalty_rules").
		Columns("tenant_id", "tier", "min_points", "max_points", "benefits", "discount").
		Values(rule.TenantID, rule.Tier, rule.MinPoints, rule.MaxPoints, pq.Array(benefits), rule.Discount).
		Suffix(`ON CONFLICT (tenant_id, tier) DO UPDATE SET
			min_points = EXCLUDED.min_points,
			max_points = EXCLUDED.max_points,
			benefits = EXCLUDED.benefits,
			discount = EXCLUDED.discount,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return rule, nil
}
