package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-frontdesk/hub"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OpenOrderInput struct {
	TableID  uint
	WaiterID uint
	Notes    string
}

type AddItemInput struct {
	MenuItemID uint   `json:"menu_item_id"`
	VariantID  *uint  `json:"variant_id"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note"`
}

type OrderFilter struct {
	Status  models.OrderStatus
	TableID uint
}

// OrderDetail is an order with its informational totals. Balance never gates
// any transition.
type OrderDetail struct {
	*models.Order
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Balance float64 `json:"balance"`
}

func Summarize(order *models.Order) OrderDetail {
	total := order.Total()
	paid := order.Paid()
	return OrderDetail{Order: order, Total: total, Paid: paid, Balance: total - paid}
}

type OrderService struct {
	db             *gorm.DB
	tables         *TableService
	bus            Broadcaster
	now            func() time.Time
	releaseOnClose bool
}

func NewOrderService(db *gorm.DB, tables *TableService, bus Broadcaster, releaseOnClose bool) *OrderService {
	return &OrderService{
		db:             db,
		tables:         tables,
		bus:            orNop(bus),
		now:            time.Now,
		releaseOnClose: releaseOnClose,
	}
}

// Open membuat order baru untuk meja. Meja dikunci selama transaksi, tidak
// boleh punya order aktif lain, dan otomatis di-occupy bila belum.
func (s *OrderService) Open(ctx context.Context, in OpenOrderInput) (*models.Order, error) {
	actor := ActorFrom(ctx)
	var (
		order        models.Order
		changedTable *models.Table
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		table, err := lockTable(tx, in.TableID)
		if err != nil {
			return err
		}

		var waiter models.User
		err = tx.Scopes(models.NotDeleted).First(&waiter, in.WaiterID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewError(utils.CodeNotFound, "waiter not found")
		}
		if err != nil {
			return fmt.Errorf("load waiter %d: %w", in.WaiterID, err)
		}
		if !waiter.CanAuthenticate() {
			return utils.NewError(utils.CodeNotFound, "waiter not found")
		}

		var active int64
		err = tx.Model(&models.Order{}).
			Where("table_id = ? AND status IN ?", table.ID, []string{string(models.OrderOpen), string(models.OrderSubmitted)}).
			Count(&active).Error
		if err != nil {
			return fmt.Errorf("count active orders: %w", err)
		}
		if active > 0 {
			return utils.NewError(utils.CodeInvalidTransition, "table already has an active order")
		}

		if table.Status != models.TableOccupied {
			changedTable, err = s.tables.transitionTx(tx, table, models.TableOccupy, actor)
			if err != nil {
				return err
			}
		}

		order = models.Order{
			TableID:  table.ID,
			WaiterID: waiter.ID,
			Status:   models.OrderOpen,
			OpenedAt: s.now(),
			Notes:    in.Notes,
			Version:  1,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return writeAudit(tx, actor, "order", order.ID, "open", map[string]interface{}{"table_id": table.ID})
	})
	if err != nil {
		return nil, err
	}

	if changedTable != nil {
		s.bus.Broadcast(hub.EventTableUpdate, changedTable)
	}
	s.bus.Broadcast(hub.EventOrderUpdate, order)
	return &order, nil
}

func (s *OrderService) Submit(ctx context.Context, id uint) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderSubmit)
}

// Close hanya dari submitted. Meja dilepas di transaksi yang sama bila releaseOnClose.
func (s *OrderService) Close(ctx context.Context, id uint) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderClose)
}

func (s *OrderService) transition(ctx context.Context, id uint, ev models.OrderEvent) (*models.Order, error) {
	actor := ActorFrom(ctx)
	var (
		order         *models.Order
		releasedTable *models.Table
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(tx, id)
		if err != nil {
			return err
		}
		order, err = s.transitionTx(tx, o, ev, actor)
		if err != nil {
			return err
		}

		if ev == models.OrderClose && s.releaseOnClose {
			table, err := lockTable(tx, o.TableID)
			if err != nil {
				return err
			}
			releasedTable, err = s.tables.transitionTx(tx, table, models.TableRelease, actor)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if releasedTable != nil {
		s.bus.Broadcast(hub.EventTableUpdate, releasedTable)
	}
	s.bus.Broadcast(hub.EventOrderUpdate, order)
	return order, nil
}

// transitionTx is the versioned write for one order event. submitted_at and
// closed_at are only written on the transition that enters that state, so
// each is set once.
func (s *OrderService) transitionTx(tx *gorm.DB, o *models.Order, ev models.OrderEvent, actor *uint) (*models.Order, error) {
	next, ok := o.Status.Next(ev)
	if !ok {
		return nil, utils.NewError(utils.CodeInvalidTransition,
			fmt.Sprintf("cannot %s order %d while %s", ev, o.ID, o.Status))
	}

	now := s.now()
	updated := *o
	updated.Status = next
	updated.Version = o.Version + 1
	updated.UpdatedAt = now

	updates := map[string]interface{}{
		"status":     next,
		"version":    o.Version + 1,
		"updated_at": now,
	}
	switch next {
	case models.OrderSubmitted:
		updates["submitted_at"] = now
		updated.SubmittedAt = &now
	case models.OrderClosed:
		updates["closed_at"] = now
		updated.ClosedAt = &now
	}

	res := tx.Model(&models.Order{}).Where("id = ? AND version = ?", o.ID, o.Version).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update order %d: %w", o.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrConflict
	}

	if err := writeAudit(tx, actor, "order", o.ID, string(ev), map[string]interface{}{
		"from": o.Status,
		"to":   next,
	}); err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"event":    ev,
		"from":     o.Status,
		"to":       next,
	}).Info("order transition")
	return &updated, nil
}

func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Order("id DESC")
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, utils.NewError(utils.CodeValidation, "unknown order status "+string(f.Status))
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.TableID != 0 {
		q = q.Where("table_id = ?", f.TableID)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get preloads items (with menu item and variant) and payments.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.MenuItem").
		Preload("Items.Variant").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewError(utils.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &order, nil
}

// AddItem menambah item selama order belum closed. Harga satuan disalin dari
// menu saat ini (base price + delta varian).
func (s *OrderService) AddItem(ctx context.Context, orderID uint, in AddItemInput) (*models.OrderItem, error) {
	if in.Quantity <= 0 {
		return nil, utils.NewError(utils.CodeValidation, "quantity must be positive")
	}
	if in.MenuItemID == 0 {
		return nil, utils.NewError(utils.CodeValidation, "menu_item_id is required")
	}

	var item models.OrderItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == models.OrderClosed {
			return utils.NewError(utils.CodeInvalidTransition, "order is closed")
		}

		var menuItem models.MenuItem
		err = tx.First(&menuItem, in.MenuItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewError(utils.CodeNotFound, "menu item not found")
		}
		if err != nil {
			return fmt.Errorf("load menu item %d: %w", in.MenuItemID, err)
		}
		if !menuItem.IsActive {
			return utils.NewError(utils.CodeValidation, "menu item is not available")
		}

		var variant *models.MenuItemVariant
		if in.VariantID != nil {
			var v models.MenuItemVariant
			err = tx.Where("id = ? AND menu_item_id = ?", *in.VariantID, menuItem.ID).First(&v).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewError(utils.CodeNotFound, "variant not found")
			}
			if err != nil {
				return fmt.Errorf("load variant %d: %w", *in.VariantID, err)
			}
			if !v.IsActive {
				return utils.NewError(utils.CodeValidation, "variant is not available")
			}
			variant = &v
		}

		item = models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: menuItem.ID,
			VariantID:  in.VariantID,
			Quantity:   in.Quantity,
			UnitPrice:  models.UnitPrice(&menuItem, variant),
			Status:     models.ItemPending,
			Note:       in.Note,
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
		return writeAudit(tx, ActorFrom(ctx), "order", order.ID, "add_item", map[string]interface{}{
			"item_id":      item.ID,
			"menu_item_id": menuItem.ID,
			"quantity":     item.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}
	s.bus.Broadcast(hub.EventItemUpdate, item)
	return &item, nil
}

// AdvanceItem moves one item exactly one step forward and stamps the time.
// It never touches the order's own status.
func (s *OrderService) AdvanceItem(ctx context.Context, orderID, itemID uint, target models.ItemStatus) (*models.OrderItem, error) {
	var item models.OrderItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND order_id = ?", itemID, orderID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewError(utils.CodeNotFound, "order item not found")
		}
		if err != nil {
			return fmt.Errorf("lock order item %d: %w", itemID, err)
		}
		if !item.Status.CanAdvanceTo(target) {
			return utils.NewError(utils.CodeInvalidTransition,
				fmt.Sprintf("cannot move item from %s to %s", item.Status, target))
		}

		now := s.now()
		updates := map[string]interface{}{"status": target, "updated_at": now}
		switch target {
		case models.ItemSent:
			updates["sent_at"] = now
			item.SentAt = &now
		case models.ItemReady:
			updates["ready_at"] = now
			item.ReadyAt = &now
		case models.ItemServed:
			updates["served_at"] = now
			item.ServedAt = &now
		}

		res := tx.Model(&models.OrderItem{}).Where("id = ? AND status = ?", item.ID, item.Status).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update order item %d: %w", item.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.ErrConflict
		}

		from := item.Status
		item.Status = target
		item.UpdatedAt = now
		return writeAudit(tx, ActorFrom(ctx), "order_item", item.ID, "advance", map[string]interface{}{
			"from": from,
			"to":   target,
		})
	})
	if err != nil {
		return nil, err
	}
	s.bus.Broadcast(hub.EventItemUpdate, item)
	return &item, nil
}

func lockOrder(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewError(utils.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock order %d: %w", id, err)
	}
	return &order, nil
}
