package models

import "time"

type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableReserved TableStatus = "reserved"
	TableOccupied TableStatus = "occupied"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableReserved, TableOccupied:
		return true
	}
	return false
}

type TableEvent string

const (
	TableReserve TableEvent = "reserve"
	TableOccupy  TableEvent = "occupy"
	TableRelease TableEvent = "release"
)

// Next returns the status reached by applying ev, or false when the guard fails.
//
//	free          --reserve--> reserved
//	free|reserved --occupy---> occupied
//	any           --release--> free
func (s TableStatus) Next(ev TableEvent) (TableStatus, bool) {
	switch ev {
	case TableReserve:
		if s == TableFree {
			return TableReserved, true
		}
	case TableOccupy:
		if s == TableFree || s == TableReserved {
			return TableOccupied, true
		}
	case TableRelease:
		return TableFree, true
	}
	return s, false
}

type Table struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Number    string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"number"`
	Capacity  int         `gorm:"not null;default:0" json:"capacity"`
	Status    TableStatus `gorm:"type:varchar(20);not null;default:'free';index" json:"status"`
	Version   uint        `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
