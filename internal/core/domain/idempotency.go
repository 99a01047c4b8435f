package domain

import "time"

// IdempotencyRecord maps a client-supplied idempotency key to the journal
// entry it produced. Records are retained permanently: an old key replayed
// years later still returns the original entry, which is the audit-safe
// choice over a TTL.
type IdempotencyRecord struct {
	TenantID    string    `json:"tenantID"`
	Key         string    `json:"key"`         // Opaque client token, unique per tenant
	Fingerprint string    `json:"fingerprint"` // SHA-256 of the canonical document payload
	EntryID     string    `json:"entryID"`
	CreatedAt   time.Time `json:"createdAt"`
}
