package ports

import (
	"context"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// RuleRepository persists the access-control rule table.
type RuleRepository interface {
	// Load returns the stored rule table in order.
	Load(ctx context.Context) ([]domain.AccessRule, error)
	// Replace overwrites the stored table with rules.
	Replace(ctx context.Context, rules []domain.AccessRule) error
}
