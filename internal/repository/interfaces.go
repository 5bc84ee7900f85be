package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SetRefreshToken unconditionally replaces the stored refresh token.
	// An empty token clears it.
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error

	// RotateRefreshToken swaps oldToken for newToken in a single conditional
	// update. Returns false when the stored token no longer equals oldToken,
	// which is how a concurrent rotation loser (or a replayed token) is
	// detected.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, oldToken, newToken string) (bool, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Video, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	CountByChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountBySubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
}

type Repositories struct {
	User         UserRepository
	Video        VideoRepository
	Subscription SubscriptionRepository
}
