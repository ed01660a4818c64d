package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/settlement/internal/domain/settlement"
	"github.com/marketplace/settlement/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SettlementModel is the persistence model for the Settlement aggregate root.
type SettlementModel struct {
	AggregateModel
	PartyType             settlement.PartyType  `gorm:"type:varchar(20);not null;index:idx_settlements_party"`
	PartyID               uuid.UUID             `gorm:"type:uuid;not null;index:idx_settlements_party"`
	PeriodStart           time.Time             `gorm:"not null;index:idx_settlements_period_status,priority:1"`
	PeriodEnd             time.Time             `gorm:"not null;index:idx_settlements_period_status,priority:2"`
	TotalSaleAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TotalBaseAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TotalCommissionAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TotalMarginAmount     decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PayableAmount         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status                settlement.Status     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_settlements_period_status,priority:3"`
	Metadata              settlement.Metadata   `gorm:"type:jsonb;default:'{}'"`
	Items                 []SettlementItemModel `gorm:"foreignKey:SettlementID;references:ID"`
}

// TableName returns the table name for GORM
func (SettlementModel) TableName() string {
	return "settlements"
}

// ToDomain converts the persistence model to a domain Settlement entity.
func (m *SettlementModel) ToDomain() *settlement.Settlement {
	s := &settlement.Settlement{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		PartyType:             m.PartyType,
		PartyID:               m.PartyID,
		PeriodStart:           m.PeriodStart,
		PeriodEnd:             m.PeriodEnd,
		TotalSaleAmount:       m.TotalSaleAmount,
		TotalBaseAmount:       m.TotalBaseAmount,
		TotalCommissionAmount: m.TotalCommissionAmount,
		TotalMarginAmount:     m.TotalMarginAmount,
		PayableAmount:         m.PayableAmount,
		Status:                m.Status,
		Metadata:              m.Metadata,
		Items:                 make([]settlement.SettlementItem, len(m.Items)),
	}
	for i := range m.Items {
		s.Items[i] = m.Items[i].ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Settlement entity.
func (m *SettlementModel) FromDomain(s *settlement.Settlement) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.PartyType = s.PartyType
	m.PartyID = s.PartyID
	m.PeriodStart = s.PeriodStart
	m.PeriodEnd = s.PeriodEnd
	m.TotalSaleAmount = s.TotalSaleAmount
	m.TotalBaseAmount = s.TotalBaseAmount
	m.TotalCommissionAmount = s.TotalCommissionAmount
	m.TotalMarginAmount = s.TotalMarginAmount
	m.PayableAmount = s.PayableAmount
	m.Status = s.Status
	m.Metadata = s.Metadata
	m.Items = make([]SettlementItemModel, len(s.Items))
	for i := range s.Items {
		m.Items[i].FromDomain(&s.Items[i])
	}
}

// SettlementModelFromDomain creates a new persistence model from a domain Settlement.
func SettlementModelFromDomain(s *settlement.Settlement) *SettlementModel {
	m := &SettlementModel{}
	m.FromDomain(s)
	return m
}

// SettlementItemModel is the persistence model for settlement line items.
type SettlementItemModel struct {
	ID                       uuid.UUID        `gorm:"type:uuid;primary_key"`
	SettlementID             uuid.UUID        `gorm:"type:uuid;not null;index"`
	OrderID                  uuid.UUID        `gorm:"type:uuid;not null;index"`
	OrderItemID              uuid.UUID        `gorm:"type:uuid;not null"`
	ProductName              string           `gorm:"type:varchar(300)"`
	Quantity                 int              `gorm:"not null;default:0"`
	GrossAmount              decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CommissionAmountSnapshot decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	NetAmount                decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	SalePriceSnapshot        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	BasePriceSnapshot        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ReasonCode               string           `gorm:"type:varchar(50);not null"`
	CreatedAt                time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettlementItemModel) TableName() string {
	return "settlement_items"
}

// ToDomain converts the persistence model to a domain SettlementItem.
func (m *SettlementItemModel) ToDomain() settlement.SettlementItem {
	return settlement.SettlementItem{
		ID:                       m.ID,
		SettlementID:             m.SettlementID,
		OrderID:                  m.OrderID,
		OrderItemID:              m.OrderItemID,
		ProductName:              m.ProductName,
		Quantity:                 m.Quantity,
		GrossAmount:              m.GrossAmount,
		CommissionAmountSnapshot: m.CommissionAmountSnapshot,
		NetAmount:                m.NetAmount,
		SalePriceSnapshot:        m.SalePriceSnapshot,
		BasePriceSnapshot:        m.BasePriceSnapshot,
		ReasonCode:               m.ReasonCode,
		CreatedAt:                m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain SettlementItem.
func (m *SettlementItemModel) FromDomain(item *settlement.SettlementItem) {
	m.ID = item.ID
	m.SettlementID = item.SettlementID
	m.OrderID = item.OrderID
	m.OrderItemID = item.OrderItemID
	m.ProductName = item.ProductName
	m.Quantity = item.Quantity
	m.GrossAmount = item.GrossAmount
	m.CommissionAmountSnapshot = item.CommissionAmountSnapshot
	m.NetAmount = item.NetAmount
	m.SalePriceSnapshot = item.SalePriceSnapshot
	m.BasePriceSnapshot = item.BasePriceSnapshot
	m.ReasonCode = item.ReasonCode
	m.CreatedAt = item.CreatedAt
}
