package models

import "time"

// PeriodLock is the persisted row closing a fiscal period to new postings.
type PeriodLock struct {
	TenantID string    `db:"tenant_id"`
	Period   string    `db:"period"` // "YYYY-MM"
	LockedBy string    `db:"locked_by"`
	LockedAt time.Time `db:"locked_at"`
}
