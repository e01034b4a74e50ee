package upsert_loyalty_rule

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/loyalty/models"
)

type LoyaltyService interface {
	UpsertTierRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
