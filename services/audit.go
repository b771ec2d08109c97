package services

import (
	"encoding/json"
	"fmt"

	"github.com/yeremiapane/restaurant-frontdesk/models"
	"gorm.io/gorm"
)

// writeAudit harus dipanggil dengan tx yang sama dengan transisi yang dicatat,
// supaya audit ikut rollback bila transisi gagal.
func writeAudit(tx *gorm.DB, actor *uint, entity string, entityID uint, action string, meta map[string]interface{}) error {
	var raw string
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal audit meta: %w", err)
		}
		raw = string(b)
	}

	entry := models.AuditLog{
		UserID:   actor,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Meta:     raw,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit %s/%d: %w", entity, entityID, err)
	}
	return nil
}

// AuditTrail lists audit entries for one entity, newest first.
func AuditTrail(db *gorm.DB, entity string, entityID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list audit %s/%d: %w", entity, entityID, err)
	}
	return logs, nil
}
