package repositories

import (
	"context"
	"time"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
)

// UserRepositoryFacade persists users and their refresh-token state.
type UserRepositoryFacade interface {
	// SaveUser inserts a new user. A duplicate email surfaces as apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user, or apperrors.ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, or apperrors.ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateRefreshToken stores the bcrypt hash of the active refresh token
	// and its expiry for the user.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error

	// FindRefreshToken returns the stored hash and expiry for the user.
	FindRefreshToken(ctx context.Context, userID string) (string, time.Time, error)

	// ClearRefreshToken revokes the user's refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error
}
