package settlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/settlement/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartyType classifies which side of the marketplace a settlement pays out to.
// It determines which aggregate amount fields on the settlement are
// semantically meaningful.
type PartyType string

const (
	PartyTypeSeller   PartyType = "seller"   // Storefront seller; settled on gross sale amounts
	PartyTypeSupplier PartyType = "supplier" // Goods supplier; settled on base (cost) amounts
	PartyTypePlatform PartyType = "platform" // The platform itself; settled on commission revenue
)

// IsValid checks if the party type is a valid PartyType
func (p PartyType) IsValid() bool {
	switch p {
	case PartyTypeSeller, PartyTypeSupplier, PartyTypePlatform:
		return true
	}
	return false
}

// String returns the string representation of PartyType
func (p PartyType) String() string {
	return string(p)
}

// Status represents the lifecycle state of a settlement
type Status string

const (
	StatusPending    Status = "PENDING"    // Built by the upstream settlement builder, awaiting validation
	StatusProcessing Status = "PROCESSING" // Validated by this engine, handed to payout
	StatusCompleted  Status = "COMPLETED"  // Paid out (written by downstream, never by this engine)
	StatusFailed     Status = "FAILED"     // Payout failed (written by downstream, never by this engine)
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the settlement is in a terminal state
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo returns true if the transition from s to next is legal
// in the settlement lifecycle. The only transition this engine ever
// performs itself is PENDING -> PROCESSING.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}

// Settlement is the aggregate root for one party's accrued payout over one
// accrual period. The upstream builder creates it in PENDING with all items
// attached; this engine validates the stored totals against the item sums
// and advances it to PROCESSING exactly once.
type Settlement struct {
	shared.BaseAggregateRoot
	PartyType             PartyType        `json:"party_type"`
	PartyID               uuid.UUID        `json:"party_id"`
	PeriodStart           time.Time        `json:"period_start"`
	PeriodEnd             time.Time        `json:"period_end"`
	TotalSaleAmount       decimal.Decimal  `json:"total_sale_amount"`       // Seller-relevant gross total
	TotalBaseAmount       decimal.Decimal  `json:"total_base_amount"`       // Supplier-relevant base total
	TotalCommissionAmount decimal.Decimal  `json:"total_commission_amount"` // Commission accrued across items
	TotalMarginAmount     decimal.Decimal  `json:"total_margin_amount"`     // Sale minus commission, informational
	PayableAmount         decimal.Decimal  `json:"payable_amount"`          // Net amount owed to the party
	Status                Status           `json:"status"`
	Metadata              Metadata         `json:"metadata"`
	Items                 []SettlementItem `json:"items"`
}

// NewSettlement creates a new settlement in PENDING with the given items
// attached. Mirrors the builder contract: a settlement must never become
// visible without its full item set.
func NewSettlement(
	partyType PartyType,
	partyID uuid.UUID,
	periodStart, periodEnd time.Time,
	totals Totals,
	payableAmount decimal.Decimal,
	items []SettlementItem,
) (*Settlement, error) {
	if !partyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTY_TYPE", fmt.Sprintf("Party type %q is not valid", partyType))
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if !periodEnd.After(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	s := &Settlement{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		PartyType:             partyType,
		PartyID:               partyID,
		PeriodStart:           periodStart,
		PeriodEnd:             periodEnd,
		TotalSaleAmount:       totals.Sale,
		TotalBaseAmount:       totals.Base,
		TotalCommissionAmount: totals.Commission,
		TotalMarginAmount:     totals.Sale.Sub(totals.Commission),
		PayableAmount:         payableAmount,
		Status:                StatusPending,
		Items:                 items,
	}
	for i := range s.Items {
		s.Items[i].SettlementID = s.ID
	}
	return s, nil
}

// Totals groups the stored aggregate amounts supplied by the builder.
type Totals struct {
	Sale       decimal.Decimal
	Base       decimal.Decimal
	Commission decimal.Decimal
}

// MarkProcessing advances the settlement from PENDING to PROCESSING.
// It is the only transition this engine is permitted to perform and must
// only be called after amount validation has succeeded. Any other source
// state is refused, even though the repository query already filters on
// PENDING.
func (s *Settlement) MarkProcessing() error {
	if !s.Status.CanTransitionTo(StatusProcessing) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition settlement from %s to %s", s.Status, StatusProcessing))
	}
	s.Status = StatusProcessing
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSettlementProcessingEvent(s))

	return nil
}

// IsPending returns true if the settlement awaits validation
func (s *Settlement) IsPending() bool {
	return s.Status == StatusPending
}

// IsProcessing returns true if the settlement has been handed to payout
func (s *Settlement) IsProcessing() bool {
	return s.Status == StatusProcessing
}

// ItemCount returns the number of attached items
func (s *Settlement) ItemCount() int {
	return len(s.Items)
}

// ItemTotals recomputes the gross, commission and net aggregates from the
// attached items using decimal addition. No intermediate float conversion
// ever happens; the validator compares these sums against the stored
// totals with exact equality.
func (s *Settlement) ItemTotals() ItemTotals {
	t := ItemTotals{
		Gross:      decimal.Zero,
		Commission: decimal.Zero,
		Net:        decimal.Zero,
	}
	for i := range s.Items {
		t.Gross = t.Gross.Add(s.Items[i].GrossAmount)
		t.Commission = t.Commission.Add(s.Items[i].CommissionAmountSnapshot)
		t.Net = t.Net.Add(s.Items[i].NetAmount)
	}
	return t
}

// ItemTotals holds the recomputed per-item aggregate sums of a settlement.
type ItemTotals struct {
	Gross      decimal.Decimal
	Commission decimal.Decimal
	Net        decimal.Decimal
}
