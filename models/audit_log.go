package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Entity    string    `gorm:"type:varchar(50);not null;index:idx_audit_entity" json:"entity"`
	EntityID  uint      `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Action    string    `gorm:"type:varchar(50);not null" json:"action"`
	Meta      string    `gorm:"type:text" json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}
