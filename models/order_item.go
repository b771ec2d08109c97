package models

import (
	"time"
)

type ItemStatus string

const (
	ItemPending ItemStatus = "pending"
	ItemSent    ItemStatus = "sent"
	ItemReady   ItemStatus = "ready"
	ItemServed  ItemStatus = "served"
)

var itemProgression = map[ItemStatus]ItemStatus{
	ItemPending: ItemSent,
	ItemSent:    ItemReady,
	ItemReady:   ItemServed,
}

// CanAdvanceTo allows exactly one step forward along pending -> sent -> ready -> served.
func (s ItemStatus) CanAdvanceTo(target ItemStatus) bool {
	next, ok := itemProgression[s]
	return ok && next == target
}

type OrderItem struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	OrderID    uint             `gorm:"not null;index" json:"order_id"`
	MenuItemID uint             `gorm:"not null" json:"menu_item_id"`
	MenuItem   *MenuItem        `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item,omitempty"`
	VariantID  *uint            `json:"variant_id"`
	Variant    *MenuItemVariant `gorm:"foreignKey:VariantID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"variant,omitempty"`
	Quantity   int              `gorm:"not null" json:"quantity"`
	UnitPrice  float64          `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Status     ItemStatus       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Note       string           `gorm:"type:text" json:"note"`
	SentAt     *time.Time       `json:"sent_at"`
	ReadyAt    *time.Time       `json:"ready_at"`
	ServedAt   *time.Time       `json:"served_at"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (i *OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
