package models

import "time"

// RevokedToken is one entry of the revocation set. Token holds "jti:<id>" for
// tokens we signed and the raw string otherwise. ExpiresAt is the token's exp,
// capped at the refresh TTL, so the sweeper can drop it once the token could
// no longer verify anyway.
type RevokedToken struct {
	Token     string    `gorm:"type:varchar(512);primaryKey"`
	RevokedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
