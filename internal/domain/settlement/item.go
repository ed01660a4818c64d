package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementItem is one line-level monetary contribution to a settlement,
// sourced from a single order line. Items are owned by exactly one
// settlement and are never shared.
type SettlementItem struct {
	ID                       uuid.UUID        `json:"id"`
	SettlementID             uuid.UUID        `json:"settlement_id"`
	OrderID                  uuid.UUID        `json:"order_id"`
	OrderItemID              uuid.UUID        `json:"order_item_id"`
	ProductName              string           `json:"product_name"`
	Quantity                 int              `json:"quantity"`
	GrossAmount              decimal.Decimal  `json:"gross_amount"`
	CommissionAmountSnapshot decimal.Decimal  `json:"commission_amount_snapshot"`
	NetAmount                decimal.Decimal  `json:"net_amount"`
	SalePriceSnapshot        *decimal.Decimal `json:"sale_price_snapshot,omitempty"`
	BasePriceSnapshot        *decimal.Decimal `json:"base_price_snapshot,omitempty"`
	ReasonCode               string           `json:"reason_code"`
	CreatedAt                time.Time        `json:"created_at"`
}

// NewSettlementItem creates a new settlement item. The SettlementID is
// assigned when the item is attached to its settlement.
func NewSettlementItem(orderID, orderItemID uuid.UUID, gross, commission, net decimal.Decimal) SettlementItem {
	return SettlementItem{
		ID:                       uuid.New(),
		OrderID:                  orderID,
		OrderItemID:              orderItemID,
		GrossAmount:              gross,
		CommissionAmountSnapshot: commission,
		NetAmount:                net,
		ReasonCode:               ReasonOrderCompleted,
		CreatedAt:                time.Now(),
	}
}

// ReasonOrderCompleted is the reason code the builder stamps on items
// contributed by completed orders.
const ReasonOrderCompleted = "order_completed"
