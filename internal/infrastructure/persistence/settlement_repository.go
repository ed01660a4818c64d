package persistence

import (
	"context"
	"time"

	"github.com/marketplace/settlement/internal/domain/settlement"
	"github.com/marketplace/settlement/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettlementRepository implements settlement.Repository using GORM
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// FindByPeriodAndStatus returns settlements whose accrual period bounds
// match periodStart and periodEnd exactly, filtered by status, with their
// items eagerly loaded. Results are ordered by creation time so batch
// processing is deterministic.
func (r *GormSettlementRepository) FindByPeriodAndStatus(ctx context.Context, periodStart, periodEnd time.Time, status settlement.Status) ([]*settlement.Settlement, error) {
	var settlementModels []models.SettlementModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("period_start = ? AND period_end = ? AND status = ?", periodStart, periodEnd, status).
		Order("created_at ASC").
		Find(&settlementModels).Error; err != nil {
		return nil, err
	}

	settlements := make([]*settlement.Settlement, len(settlementModels))
	for i := range settlementModels {
		settlements[i] = settlementModels[i].ToDomain()
	}
	return settlements, nil
}

// Save persists the settlement's current state. Items are written by the
// upstream builder and never modified here, so only the settlement row is
// updated.
func (r *GormSettlementRepository) Save(ctx context.Context, s *settlement.Settlement) error {
	model := models.SettlementModelFromDomain(s)
	return r.db.WithContext(ctx).Omit("Items").Save(model).Error
}

// Ensure GormSettlementRepository implements settlement.Repository
var _ settlement.Repository = (*GormSettlementRepository)(nil)
