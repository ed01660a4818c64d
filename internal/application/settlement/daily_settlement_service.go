package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/marketplace/settlement/internal/domain/settlement"
	"go.uber.org/zap"
)

// DailySettlementService runs the daily settlement batch: it loads every
// PENDING settlement whose accrual period matches the target day, checks
// the stored totals against the recomputed item sums and advances the
// consistent ones to PROCESSING.
//
// Settlements are processed strictly one at a time. A settlement that
// fails validation is logged and left in PENDING so the next run picks it
// up again; a persistence failure aborts the run immediately.
type DailySettlementService struct {
	settlementRepo settlement.Repository
	validator      *settlement.Validator
	location       *time.Location
	logger         *zap.Logger
}

// NewDailySettlementService creates a new daily settlement service.
// location determines how a target date maps to accrual-period bounds
// and must match the timezone the settlement builder uses.
func NewDailySettlementService(
	settlementRepo settlement.Repository,
	location *time.Location,
	logger *zap.Logger,
) *DailySettlementService {
	return &DailySettlementService{
		settlementRepo: settlementRepo,
		validator:      settlement.NewValidator(),
		location:       location,
		logger:         logger,
	}
}

// RunDailySettlement processes all PENDING settlements for the calendar
// day containing targetDate and returns how many reached PROCESSING.
// Rerunning for the same day is safe: already-advanced settlements no
// longer match the PENDING filter and previously failed ones are simply
// re-validated.
func (s *DailySettlementService) RunDailySettlement(ctx context.Context, targetDate time.Time) (int, error) {
	periodStart, periodEnd := settlement.DayWindow(targetDate, s.location)

	s.logger.Info("starting daily settlement run",
		zap.String("target_date", periodStart.Format("2006-01-02")),
		zap.Time("period_start", periodStart),
		zap.Time("period_end", periodEnd),
	)

	pending, err := s.settlementRepo.FindByPeriodAndStatus(ctx, periodStart, periodEnd, settlement.StatusPending)
	if err != nil {
		s.logger.Error("failed to load pending settlements",
			zap.String("target_date", periodStart.Format("2006-01-02")),
			zap.Error(err),
		)
		return 0, fmt.Errorf("failed to load pending settlements: %w", err)
	}

	if len(pending) == 0 {
		s.logger.Info("no pending settlements for target date",
			zap.String("target_date", periodStart.Format("2006-01-02")),
		)
		return 0, nil
	}

	processed := 0
	skipped := 0

	for _, st := range pending {
		result := s.validator.Validate(st)
		if !result.Valid {
			skipped++
			s.logger.Warn("settlement failed amount validation, leaving in PENDING",
				zap.String("settlement_id", st.ID.String()),
				zap.String("party_type", st.PartyType.String()),
				zap.String("party_id", st.PartyID.String()),
				zap.Int("item_count", st.ItemCount()),
				zap.String("failure", result.Summary()),
			)
			continue
		}

		if err := st.MarkProcessing(); err != nil {
			skipped++
			s.logger.Warn("settlement not in a transitionable state, skipping",
				zap.String("settlement_id", st.ID.String()),
				zap.String("status", st.Status.String()),
				zap.Error(err),
			)
			continue
		}

		if err := s.settlementRepo.Save(ctx, st); err != nil {
			s.logger.Error("failed to persist settlement transition, aborting run",
				zap.String("settlement_id", st.ID.String()),
				zap.Int("processed", processed),
				zap.Error(err),
			)
			return processed, fmt.Errorf("failed to save settlement %s: %w", st.ID, err)
		}

		processed++
		s.logger.Info("settlement moved to processing",
			zap.String("settlement_id", st.ID.String()),
			zap.String("party_type", st.PartyType.String()),
			zap.String("party_id", st.PartyID.String()),
			zap.String("payable_amount", st.PayableAmount.String()),
		)
	}

	s.logger.Info("daily settlement run completed",
		zap.String("target_date", periodStart.Format("2006-01-02")),
		zap.Int("found", len(pending)),
		zap.Int("processed", processed),
		zap.Int("skipped", skipped),
	)

	return processed, nil
}
