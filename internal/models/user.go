package models

import "time"

// User is the persisted row for an authenticated principal.
type User struct {
	UserID                string     `db:"user_id"`
	Name                  string     `db:"name"`
	Email                 string     `db:"email"`
	PasswordHash          string     `db:"password_hash"`
	RefreshTokenHash      *string    `db:"refresh_token_hash"`
	RefreshTokenExpiresAt *time.Time `db:"refresh_token_expires_at"`
	AuditFields
}
