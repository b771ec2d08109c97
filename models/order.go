package models

import "time"

type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderSubmitted OrderStatus = "submitted"
	OrderClosed    OrderStatus = "closed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderOpen, OrderSubmitted, OrderClosed:
		return true
	}
	return false
}

// Active reports whether the order still holds its table.
func (s OrderStatus) Active() bool { return s == OrderOpen || s == OrderSubmitted }

type OrderEvent string

const (
	OrderSubmit OrderEvent = "submit"
	OrderClose  OrderEvent = "close"
)

// Next is monotonic: open -> submitted -> closed, nothing else.
func (s OrderStatus) Next(ev OrderEvent) (OrderStatus, bool) {
	switch {
	case ev == OrderSubmit && s == OrderOpen:
		return OrderSubmitted, true
	case ev == OrderClose && s == OrderSubmitted:
		return OrderClosed, true
	}
	return s, false
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableID     uint        `gorm:"not null;index" json:"table_id"`
	Table       *Table      `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	WaiterID    uint        `gorm:"not null;index" json:"waiter_id"`
	Waiter      *User       `gorm:"foreignKey:WaiterID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"waiter,omitempty"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	OpenedAt    time.Time   `gorm:"not null" json:"opened_at"`
	SubmittedAt *time.Time  `json:"submitted_at"`
	ClosedAt    *time.Time  `json:"closed_at"`
	Notes       string      `gorm:"type:text" json:"notes"`
	Version     uint        `gorm:"not null;default:1" json:"version"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments    []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Total adalah jumlah qty x harga satuan dari semua item yang sudah dimuat.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// Paid sums the loaded payments.
func (o *Order) Paid() float64 {
	var paid float64
	for _, p := range o.Payments {
		paid += p.Amount
	}
	return paid
}
