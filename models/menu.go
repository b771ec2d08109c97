package models

import "time"

type MenuItem struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	CategoryID  *uint             `gorm:"index" json:"category_id"`
	Category    *MenuCategory     `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Name        string            `gorm:"type:varchar(255);not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	BasePrice   float64           `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Station     string            `gorm:"type:varchar(50);index" json:"station"`
	IsActive    bool              `gorm:"not null;default:true" json:"is_active"`
	Variants    []MenuItemVariant `gorm:"foreignKey:MenuItemID" json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// MenuItemVariant adds PriceDelta to the item's base price (e.g. a large portion).
type MenuItemVariant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MenuItemID uint      `gorm:"not null;index" json:"menu_item_id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	PriceDelta float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price_delta"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UnitPrice applies the additive variant rule; v may be nil.
func UnitPrice(item *MenuItem, v *MenuItemVariant) float64 {
	if v == nil {
		return item.BasePrice
	}
	return item.BasePrice + v.PriceDelta
}
