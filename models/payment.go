package models

import (
	"time"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Payment is an append-only settlement record; rows are never updated.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	CashierID *uint     `gorm:"index" json:"cashier_id"`
	Method    string    `gorm:"type:varchar(20);not null" json:"method"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaidAt    time.Time `gorm:"not null" json:"paid_at"`
	ReceiptNo string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"receipt_no"`
	CreatedAt time.Time `json:"created_at"`
}
