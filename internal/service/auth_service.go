package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/domain"
	"github.com/raghavk/vidtube/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists        = domain.Conflict("user with email or username already exists")
	ErrUserNotFound      = domain.NotFound("user does not exist")
	ErrWrongPassword     = domain.Unauthorized("password is incorrect")
	ErrStaleRefreshToken = domain.Unauthorized("stale or revoked refresh token")
)

// AuthService owns the session lifecycle. It is the only component that writes
// the stored refresh token.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     string
	CoverImage string
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	switch {
	case input.Username == "":
		return nil, domain.Validation("username is required")
	case input.Email == "":
		return nil, domain.Validation("email is required")
	case input.FullName == "":
		return nil, domain.Validation("full name is required")
	case input.Password == "":
		return nil, domain.Validation("password is required")
	case input.Avatar == "":
		return nil, domain.Validation("avatar is required")
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, domain.Internal("failed to check existing users")
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Internal("failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.ToLower(input.Username),
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hashedPassword),
		Avatar:       input.Avatar,
		CoverImage:   input.CoverImage,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique indexes are the authority; the existence check above is
		// only a fast path.
		return nil, ErrUserExists
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" {
		return nil, domain.Validation("email is required")
	}
	if password == "" {
		return nil, domain.Validation("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("user with email does not exist")
		}
		return nil, domain.Internal("failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	accessToken, refreshToken, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	// Unconditional overwrite: a login invalidates any previously issued
	// refresh token for this account.
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, domain.Internal("failed to persist refresh token")
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair. Rotation is
// single-use: the presented token must be byte-identical to the stored one,
// and the swap to the new token happens in the same conditional update, so a
// replayed or concurrently-rotated token fails even while cryptographically
// valid.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, domain.Validation("refresh token is required")
	}

	userID, err := s.tokens.Verify(presented, TokenKindRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, domain.Internal("failed to load user")
	}

	accessToken, refreshToken, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}

	rotated, err := s.userRepo.RotateRefreshToken(ctx, userID, presented, refreshToken)
	if err != nil {
		return nil, domain.Internal("failed to rotate refresh token")
	}
	if !rotated {
		return nil, ErrStaleRefreshToken
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the stored refresh token. Idempotent; already-issued access
// tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, ""); err != nil {
		return domain.Internal("failed to clear refresh token")
	}
	return nil
}

// ChangePassword re-verifies the current password before accepting the new
// one. The stored refresh token is deliberately left untouched.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return domain.Validation("current password is required")
	}
	if newPassword == "" {
		return domain.Validation("new password is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return domain.Internal("failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Internal("failed to hash password")
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return domain.Internal("failed to update password")
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, domain.Internal("failed to load user")
	}
	return user, nil
}

func (s *AuthService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*domain.User, error) {
	if fullName == "" {
		return nil, domain.Validation("full name is required")
	}
	if email == "" {
		return nil, domain.Validation("email is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, domain.Internal("failed to load user")
	}

	user.FullName = fullName
	user.Email = email
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, domain.Internal("failed to update account")
	}
	return user, nil
}

// UpdateAvatar persists a new avatar reference and returns the previous one so
// the caller can release the old object.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar string) (*domain.User, string, error) {
	if avatar == "" {
		return nil, "", domain.Validation("avatar is required")
	}
	return s.updateImage(ctx, userID, func(user *domain.User) string {
		old := user.Avatar
		user.Avatar = avatar
		return old
	})
}

func (s *AuthService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, coverImage string) (*domain.User, string, error) {
	if coverImage == "" {
		return nil, "", domain.Validation("cover image is required")
	}
	return s.updateImage(ctx, userID, func(user *domain.User) string {
		old := user.CoverImage
		user.CoverImage = coverImage
		return old
	})
}

func (s *AuthService) updateImage(ctx context.Context, userID uuid.UUID, swap func(*domain.User) string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", domain.Internal("failed to load user")
	}

	old := swap(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", domain.Internal("failed to update account")
	}
	return user, old, nil
}

func (s *AuthService) issuePair(userID uuid.UUID) (string, string, error) {
	accessToken, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return "", "", domain.Internal("failed to issue tokens")
	}
	refreshToken, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return "", "", domain.Internal("failed to issue tokens")
	}
	return accessToken, refreshToken, nil
}
