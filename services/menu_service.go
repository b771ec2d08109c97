package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"gorm.io/gorm"
)

type CategoryCreate struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type CategoryUpdate struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

type MenuItemCreate struct {
	CategoryID  *uint   `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
	Station     string  `json:"station"`
}

// MenuItemUpdate only touches the fields that are set.
type MenuItemUpdate struct {
	CategoryID  *uint    `json:"category_id"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price"`
	Station     *string  `json:"station"`
	IsActive    *bool    `json:"is_active"`
}

type VariantCreate struct {
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}

type MenuFilter struct {
	CategoryID uint
	Station    string
	IsActive   *bool
}

// MenuService is the catalog that order items take their price snapshot from.
type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	if err := s.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *MenuService) GetCategory(ctx context.Context, id uint) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewError(utils.CodeNotFound, "category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &category, nil
}

func (s *MenuService) UpdateCategory(ctx context.Context, id uint, in CategoryUpdate) (*models.MenuCategory, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, utils.NewError(utils.CodeValidation, "category name is required")
		}
		if err := s.ensureCategoryNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if in.SortOrder != nil {
		updates["sort_order"] = *in.SortOrder
	}
	if len(updates) == 0 {
		return category, nil
	}

	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory menolak bila masih ada item (aktif maupun tidak) di kategori ini.
func (s *MenuService) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.MenuCategory
		err := tx.First(&category, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewError(utils.CodeNotFound, "category not found")
		}
		if err != nil {
			return fmt.Errorf("get category %d: %w", id, err)
		}

		var items int64
		if err := tx.Model(&models.MenuItem{}).Where("category_id = ?", id).Count(&items).Error; err != nil {
			return fmt.Errorf("count category items: %w", err)
		}
		if items > 0 {
			return utils.NewError(utils.CodeValidation, "category still has menu items, move them first")
		}

		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("delete category %d: %w", id, err)
		}
		return nil
	})
}

func (s *MenuService) ensureCategoryNameFree(ctx context.Context, name string, exceptID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.MenuCategory{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if count > 0 {
		return utils.NewError(utils.CodeValidation, "category already exists")
	}
	return nil
}

func (s *MenuService) CreateCategory(ctx context.Context, in CategoryCreate) (*models.MenuCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, utils.NewError(utils.CodeValidation, "category name is required")
	}

	if err := s.ensureCategoryNameFree(ctx, in.Name, 0); err != nil {
		return nil, err
	}

	category := models.MenuCategory{Name: in.Name, SortOrder: in.SortOrder}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *MenuService) ListItems(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	q := s.db.WithContext(ctx).Preload("Category").Order("name ASC")
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Station != "" {
		q = q.Where("station = ?", f.Station)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var items []models.MenuItem
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// GetItem memuat item beserta varian yang masih aktif.
func (s *MenuService) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", "is_active = ?", true).
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewError(utils.CodeNotFound, "menu item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get menu item %d: %w", id, err)
	}
	return &item, nil
}

func (s *MenuService) CreateItem(ctx context.Context, in MenuItemCreate) (*models.MenuItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, utils.NewError(utils.CodeValidation, "menu item name is required")
	}
	if in.BasePrice < 0 {
		return nil, utils.NewError(utils.CodeValidation, "base_price must not be negative")
	}
	if in.CategoryID != nil {
		if _, err := s.GetCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	item := models.MenuItem{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		BasePrice:   in.BasePrice,
		Station:     in.Station,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return &item, nil
}

// UpdateItem changes the catalog entry only. Order items already added keep
// the unit price they were created with.
func (s *MenuService) UpdateItem(ctx context.Context, id uint, in MenuItemUpdate) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.CategoryID != nil {
		if _, err := s.GetCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *in.CategoryID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, utils.NewError(utils.CodeValidation, "menu item name is required")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.BasePrice != nil {
		if *in.BasePrice < 0 {
			return nil, utils.NewError(utils.CodeValidation, "base_price must not be negative")
		}
		for _, v := range item.Variants {
			if *in.BasePrice+v.PriceDelta < 0 {
				return nil, utils.NewError(utils.CodeValidation, "variant "+v.Name+" would get a negative price")
			}
		}
		updates["base_price"] = *in.BasePrice
	}
	if in.Station != nil {
		updates["station"] = *in.Station
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update menu item %d: %w", id, err)
	}
	return s.GetItem(ctx, id)
}

// DeactivateItem is the catalog's soft delete. Existing order items keep their
// price snapshot.
func (s *MenuService) DeactivateItem(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate menu item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewError(utils.CodeNotFound, "menu item not found")
	}
	return nil
}

func (s *MenuService) ListVariants(ctx context.Context, itemID uint) ([]models.MenuItemVariant, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	var variants []models.MenuItemVariant
	if err := s.db.WithContext(ctx).Where("menu_item_id = ?", itemID).Order("id ASC").Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	return variants, nil
}

func (s *MenuService) CreateVariant(ctx context.Context, itemID uint, in VariantCreate) (*models.MenuItemVariant, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, utils.NewError(utils.CodeValidation, "variant name is required")
	}
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.BasePrice+in.PriceDelta < 0 {
		return nil, utils.NewError(utils.CodeValidation, "variant price would be negative")
	}

	variant := models.MenuItemVariant{
		MenuItemID: item.ID,
		Name:       in.Name,
		PriceDelta: in.PriceDelta,
		IsActive:   true,
	}
	if err := s.db.WithContext(ctx).Create(&variant).Error; err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}
	return &variant, nil
}
