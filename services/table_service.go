package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-frontdesk/hub"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableCreate struct {
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
}

// TableUpdate hanya mengubah atribut statis; status hanya berubah lewat event.
type TableUpdate struct {
	Number   *string `json:"number"`
	Capacity *int    `json:"capacity"`
}

type TableService struct {
	db  *gorm.DB
	bus Broadcaster
	now func() time.Time
}

func NewTableService(db *gorm.DB, bus Broadcaster) *TableService {
	return &TableService{db: db, bus: orNop(bus), now: time.Now}
}

func (s *TableService) List(ctx context.Context, status models.TableStatus) ([]models.Table, error) {
	q := s.db.WithContext(ctx).Order("number ASC")
	if status != "" {
		if !status.Valid() {
			return nil, utils.NewError(utils.CodeValidation, "unknown table status "+string(status))
		}
		q = q.Where("status = ?", status)
	}

	var tables []models.Table
	if err := q.Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (s *TableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	err := s.db.WithContext(ctx).First(&table, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewError(utils.CodeNotFound, "table not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get table %d: %w", id, err)
	}
	return &table, nil
}

func (s *TableService) Create(ctx context.Context, in TableCreate) (*models.Table, error) {
	in.Number = strings.TrimSpace(in.Number)
	if in.Number == "" {
		return nil, utils.NewError(utils.CodeValidation, "table number is required")
	}
	if in.Capacity < 0 {
		return nil, utils.NewError(utils.CodeValidation, "capacity must not be negative")
	}

	table := models.Table{Number: in.Number, Capacity: in.Capacity, Status: models.TableFree, Version: 1}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureNumberFree(tx, in.Number, 0); err != nil {
			return err
		}
		if err := tx.Create(&table).Error; err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		return writeAudit(tx, ActorFrom(ctx), "table", table.ID, "create", map[string]interface{}{"number": table.Number})
	})
	if err != nil {
		return nil, err
	}
	s.bus.Broadcast(hub.EventTableUpdate, table)
	return &table, nil
}

func (s *TableService) Update(ctx context.Context, id uint, in TableUpdate) (*models.Table, error) {
	var table *models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTable(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Number != nil {
			number := strings.TrimSpace(*in.Number)
			if number == "" {
				return utils.NewError(utils.CodeValidation, "table number is required")
			}
			if err := s.ensureNumberFree(tx, number, t.ID); err != nil {
				return err
			}
			updates["number"] = number
			t.Number = number
		}
		if in.Capacity != nil {
			if *in.Capacity < 0 {
				return utils.NewError(utils.CodeValidation, "capacity must not be negative")
			}
			updates["capacity"] = *in.Capacity
			t.Capacity = *in.Capacity
		}
		if len(updates) == 0 {
			table = t
			return nil
		}

		updates["version"] = t.Version + 1
		res := tx.Model(&models.Table{}).Where("id = ? AND version = ?", t.ID, t.Version).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update table %d: %w", t.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.ErrConflict
		}
		t.Version++
		table = t
		return writeAudit(tx, ActorFrom(ctx), "table", t.ID, "update", updates)
	})
	if err != nil {
		return nil, err
	}
	s.bus.Broadcast(hub.EventTableUpdate, table)
	return table, nil
}

func (s *TableService) Reserve(ctx context.Context, id uint) (*models.Table, error) {
	return s.apply(ctx, id, models.TableReserve)
}

func (s *TableService) Occupy(ctx context.Context, id uint) (*models.Table, error) {
	return s.apply(ctx, id, models.TableOccupy)
}

// Release selalu berhasil untuk meja yang ada. Order aktif tidak ikut ditutup.
func (s *TableService) Release(ctx context.Context, id uint) (*models.Table, error) {
	return s.apply(ctx, id, models.TableRelease)
}

func (s *TableService) apply(ctx context.Context, id uint, ev models.TableEvent) (*models.Table, error) {
	var table *models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTable(tx, id)
		if err != nil {
			return err
		}
		table, err = s.transitionTx(tx, t, ev, ActorFrom(ctx))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.bus.Broadcast(hub.EventTableUpdate, table)
	return table, nil
}

// transitionTx applies ev to t inside tx. t must have been read by lockTable
// in the same transaction; a version mismatch means someone else committed
// first and yields ErrConflict.
func (s *TableService) transitionTx(tx *gorm.DB, t *models.Table, ev models.TableEvent, actor *uint) (*models.Table, error) {
	next, ok := t.Status.Next(ev)
	if !ok {
		return nil, utils.NewError(utils.CodeInvalidTransition,
			fmt.Sprintf("cannot %s table %s while %s", ev, t.Number, t.Status))
	}

	now := s.now()
	res := tx.Model(&models.Table{}).
		Where("id = ? AND version = ?", t.ID, t.Version).
		Updates(map[string]interface{}{
			"status":     next,
			"version":    t.Version + 1,
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update table %d: %w", t.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrConflict
	}

	if err := writeAudit(tx, actor, "table", t.ID, string(ev), map[string]interface{}{
		"from": t.Status,
		"to":   next,
	}); err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id": t.ID,
		"event":    ev,
		"from":     t.Status,
		"to":       next,
	}).Info("table transition")

	updated := *t
	updated.Status = next
	updated.Version = t.Version + 1
	updated.UpdatedAt = now
	return &updated, nil
}

func (s *TableService) ensureNumberFree(tx *gorm.DB, number string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.Table{}).Where("number = ? AND id <> ?", number, exceptID).Count(&count).Error; err != nil {
		return fmt.Errorf("check table number: %w", err)
	}
	if count > 0 {
		return utils.NewError(utils.CodeValidation, "table number already exists")
	}
	return nil
}

// lockTable reads the table row with SELECT ... FOR UPDATE.
func lockTable(tx *gorm.DB, id uint) (*models.Table, error) {
	var table models.Table
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewError(utils.CodeNotFound, "table not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock table %d: %w", id, err)
	}
	return &table, nil
}
