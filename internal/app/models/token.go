package models

import "time"

// RefreshToken is an opaque token persisted for rotation and revocation.
type RefreshToken struct {
	Token     string    `db:"token" json:"token"`
	UserID    int64     `db:"user_id" json:"userId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	Revoked   bool      `db:"revoked" json:"revoked"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
