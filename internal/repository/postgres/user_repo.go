package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*domain.User
	err := r.db.WithContext(ctx).Find(&users, "id IN ?", ids).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername matches case-insensitively; usernames are persisted lowercase.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", strings.ToLower(username)).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ? OR email = ?", strings.ToLower(username), email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

// RotateRefreshToken is the compare-and-swap behind refresh rotation. The
// WHERE clause makes the compare and the write one atomic statement, so of two
// concurrent rotations presenting the same old token exactly one sees
// RowsAffected == 1.
func (r *userRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldToken, newToken string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND refresh_token = ?", id, oldToken).
		Update("refresh_token", newToken)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
