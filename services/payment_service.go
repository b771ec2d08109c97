package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-frontdesk/hub"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"gorm.io/gorm"
)

type RecordPaymentInput struct {
	OrderID uint    `json:"order_id"`
	Method  string  `json:"method"`
	Amount  float64 `json:"amount"`
}

// PaymentService mencatat pembayaran. Tidak ada rekonsiliasi saldo: bayar
// kurang atau lebih tetap dicatat apa adanya.
type PaymentService struct {
	db  *gorm.DB
	bus Broadcaster
	now func() time.Time
}

// NewPaymentService membuat instance baru PaymentService
func NewPaymentService(db *gorm.DB, bus Broadcaster) *PaymentService {
	return &PaymentService{db: db, bus: orNop(bus), now: time.Now}
}

// Record menambahkan pembayaran untuk order yang sudah submitted atau closed.
func (s *PaymentService) Record(ctx context.Context, in RecordPaymentInput) (*models.Payment, error) {
	if err := validatePayment(in); err != nil {
		return nil, err
	}

	var payment models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.First(&order, in.OrderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewError(utils.CodeNotFound, "order not found")
		}
		if err != nil {
			return fmt.Errorf("load order %d: %w", in.OrderID, err)
		}
		if order.Status != models.OrderSubmitted && order.Status != models.OrderClosed {
			return utils.NewError(utils.CodeInvalidTransition, "order must be submitted before payment")
		}

		now := s.now()
		payment = models.Payment{
			OrderID:   order.ID,
			CashierID: ActorFrom(ctx),
			Method:    in.Method,
			Amount:    in.Amount,
			PaidAt:    now,
			ReceiptNo: newReceiptNo(now),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return writeAudit(tx, payment.CashierID, "payment", payment.ID, "record", map[string]interface{}{
			"order_id": order.ID,
			"method":   payment.Method,
			"amount":   payment.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":   payment.OrderID,
		"payment_id": payment.ID,
		"method":     payment.Method,
		"amount":     payment.Amount,
	}).Info("payment recorded")
	s.bus.Broadcast(hub.EventPaymentRecord, payment)
	return &payment, nil
}

// GetPaymentByID mendapatkan pembayaran berdasarkan ID
func (s *PaymentService) GetPaymentByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewError(utils.CodeNotFound, "payment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return &payment, nil
}

// GetPaymentsByOrderID mendapatkan pembayaran berdasarkan OrderID
func (s *PaymentService) GetPaymentsByOrderID(ctx context.Context, orderID uint) ([]models.Payment, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check order %d: %w", orderID, err)
	}
	if count == 0 {
		return nil, utils.NewError(utils.CodeNotFound, "order not found")
	}

	var payments []models.Payment
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments for order %d: %w", orderID, err)
	}
	return payments, nil
}

// ReceiptData loads a payment with its order, items and menu names for rendering.
func (s *PaymentService) ReceiptData(ctx context.Context, paymentID uint) (*models.Payment, *models.Order, error) {
	payment, err := s.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}

	var order models.Order
	err = s.db.WithContext(ctx).
		Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.MenuItem").
		Preload("Items.Variant").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, payment.OrderID).Error
	if err != nil {
		return nil, nil, fmt.Errorf("load order %d for receipt: %w", payment.OrderID, err)
	}
	return payment, &order, nil
}

func validatePayment(in RecordPaymentInput) error {
	if in.OrderID == 0 {
		return utils.NewError(utils.CodeValidation, "order_id is required")
	}
	if !models.ValidPaymentMethod(in.Method) {
		return utils.NewError(utils.CodeValidation, "method must be one of cash, card, transfer")
	}
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return utils.NewError(utils.CodeValidation, "amount must be positive")
	}
	// maksimal 2 desimal
	if math.Abs(math.Round(in.Amount*100)/100-in.Amount) > 1e-9 {
		return utils.NewError(utils.CodeValidation, "amount has more than 2 decimal places")
	}
	return nil
}

// newReceiptNo -> R-YYYYMMDD-XXXXXXXX
func newReceiptNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("R-%s-%s", now.Format("20060102"), suffix)
}
