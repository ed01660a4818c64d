package settlement

import (
	"github.com/google/uuid"
	"github.com/marketplace/settlement/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeSettlementProcessing = "settlement.processing"
)

// SettlementProcessingEvent is raised when a settlement passes amount
// validation and moves from PENDING to PROCESSING. Downstream payout
// consumes it.
type SettlementProcessingEvent struct {
	shared.BaseDomainEvent
	PartyType     PartyType       `json:"party_type"`
	PartyID       uuid.UUID       `json:"party_id"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	ItemCount     int             `json:"item_count"`
}

// NewSettlementProcessingEvent creates a new settlement processing event
func NewSettlementProcessingEvent(s *Settlement) *SettlementProcessingEvent {
	return &SettlementProcessingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSettlementProcessing, "Settlement", s.ID),
		PartyType:       s.PartyType,
		PartyID:         s.PartyID,
		PayableAmount:   s.PayableAmount,
		ItemCount:       s.ItemCount(),
	}
}
