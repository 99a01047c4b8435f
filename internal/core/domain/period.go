package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Period identifies a fiscal month in "YYYY-MM" form.
type Period string

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PeriodOf returns the fiscal period containing the given date.
func PeriodOf(t time.Time) Period {
	return Period(t.UTC().Format("2006-01"))
}

// Valid reports whether the period is well-formed.
func (p Period) Valid() bool {
	return periodPattern.MatchString(string(p))
}

// ParsePeriod validates and returns a Period from its string form.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid period %q, want YYYY-MM", s)
	}
	return p, nil
}

// PeriodLock records that a fiscal period is closed to new postings.
// Locking is an operational control, not a security boundary: a posting
// that passed the lock check before the period was locked is still allowed
// to commit.
type PeriodLock struct {
	TenantID string    `json:"tenantID"`
	Period   Period    `json:"period"`
	LockedBy string    `json:"lockedBy"`
	LockedAt time.Time `json:"lockedAt"`
}
