package settlement

import (
	"context"
	"time"
)

// Repository defines the persistence interface for settlements.
// FindByPeriodAndStatus must return each settlement with its full item
// set attached; the validator's correctness depends on it.
type Repository interface {
	// FindByPeriodAndStatus returns all settlements whose accrual period
	// exactly matches the given bounds and whose status equals status.
	FindByPeriodAndStatus(ctx context.Context, periodStart, periodEnd time.Time, status Status) ([]*Settlement, error)

	// Save persists the settlement's current state.
	Save(ctx context.Context, s *Settlement) error
}
