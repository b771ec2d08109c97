package models

import (
	"time"

	"gorm.io/gorm"
)

type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleInactive Lifecycle = "inactive"
	LifecycleDeleted  Lifecycle = "deleted"
)

func (l Lifecycle) Valid() bool {
	switch l {
	case LifecycleActive, LifecycleInactive, LifecycleDeleted:
		return true
	}
	return false
}

const (
	RoleWaiter  = "waiter"
	RoleCashier = "cashier"
	RoleManager = "manager"
)

func ValidRole(role string) bool {
	switch role {
	case RoleWaiter, RoleCashier, RoleManager:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150)" json:"last_name"`
	Role         string    `gorm:"type:varchar(30);not null;default:'waiter'" json:"role"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	Lifecycle    Lifecycle `gorm:"type:varchar(20);not null;default:'active';index" json:"lifecycle"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool  { return u.Lifecycle == LifecycleActive }
func (u *User) IsDeleted() bool { return u.Lifecycle == LifecycleDeleted }

// CanAuthenticate is false for inactive and soft-deleted principals.
func (u *User) CanAuthenticate() bool { return u.Lifecycle == LifecycleActive }

// NotDeleted is a gorm scope for every read path that must hide soft-deleted principals.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("lifecycle <> ?", LifecycleDeleted)
}
