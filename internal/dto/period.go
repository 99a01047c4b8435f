package dto

import (
	"time"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// LockPeriodRequest defines the payload for locking a fiscal period.
type LockPeriodRequest struct {
	Period string `json:"period" binding:"required"` // "YYYY-MM"
}

// PeriodLockResponse defines the data returned for a period lock.
type PeriodLockResponse struct {
	Period   string    `json:"period"`
	LockedBy string    `json:"lockedBy"`
	LockedAt time.Time `json:"lockedAt"`
}

// ToPeriodLockResponse converts a domain.PeriodLock to its response DTO.
func ToPeriodLockResponse(l domain.PeriodLock) PeriodLockResponse {
	return PeriodLockResponse{
		Period:   string(l.Period),
		LockedBy: l.LockedBy,
		LockedAt: l.LockedAt,
	}
}

// ToPeriodLockResponses converts a slice of period locks.
func ToPeriodLockResponses(locks []domain.PeriodLock) []PeriodLockResponse {
	out := make([]PeriodLockResponse, len(locks))
	for i, l := range locks {
		out[i] = ToPeriodLockResponse(l)
	}
	return out
}
