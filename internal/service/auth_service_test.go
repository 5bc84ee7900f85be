package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/raghavk/vidtube/internal/domain"
	"github.com/raghavk/vidtube/internal/repository/postgres"
	"github.com/raghavk/vidtube/internal/service"
	"github.com/raghavk/vidtube/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, service.NewTokenService(cfg))
	ctx := context.Background()

	valid := service.RegisterInput{
		Username: "Bob",
		Email:    "bob@example.com",
		FullName: "Bob B",
		Password: "pw123",
		Avatar:   "https://media.test/uploads/bob.png",
	}

	tests := []struct {
		name     string
		input    service.RegisterInput
		setup    func()
		wantKind domain.ErrorKind
	}{
		{
			name:  "successful registration",
			input: valid,
		},
		{
			name: "missing username",
			input: service.RegisterInput{
				Email: "x@example.com", FullName: "X", Password: "pw", Avatar: "a",
			},
			wantKind: domain.KindValidation,
		},
		{
			name: "missing avatar",
			input: service.RegisterInput{
				Username: "x", Email: "x@example.com", FullName: "X", Password: "pw",
			},
			wantKind: domain.KindValidation,
		},
		{
			name:  "duplicate username different casing",
			input: valid,
			setup: func() {
				testutil.NewUserBuilder().WithUsername("bob").Build(t, testDB.DB)
			},
			wantKind: domain.KindConflict,
		},
		{
			name:  "duplicate email",
			input: valid,
			setup: func() {
				testutil.NewUserBuilder().WithEmail("bob@example.com").Build(t, testDB.DB)
			},
			wantKind: domain.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			user, err := authService.Register(ctx, tt.input)

			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.Kind(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "bob", user.Username, "username persisted lowercase")
			assert.Empty(t, user.RefreshToken, "no session on registration")

			// Retrievable by id, and the stored credential is never plaintext.
			stored, err := repos.User.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.NotEqual(t, tt.input.Password, stored.PasswordHash)
			assert.False(t, strings.Contains(stored.PasswordHash, tt.input.Password))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokens := service.NewTokenService(cfg)
	authService := service.NewAuthService(repos.User, tokens)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name     string
		email    string
		password string
		wantKind domain.ErrorKind
	}{
		{name: "successful login", email: user.Email, password: rawPassword},
		{name: "wrong password", email: user.Email, password: "wrongpassword", wantKind: domain.KindUnauthorized},
		{name: "unknown email", email: "nobody@example.com", password: "anypassword", wantKind: domain.KindNotFound},
		{name: "missing email", email: "", password: "x", wantKind: domain.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.email, tt.password)

			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.Kind(err))
				return
			}

			require.NoError(t, err)

			// Both tokens verify under their own kind and resolve to the
			// same account.
			accessID, err := tokens.Verify(result.AccessToken, service.TokenKindAccess)
			require.NoError(t, err)
			refreshID, err := tokens.Verify(result.RefreshToken, service.TokenKindRefresh)
			require.NoError(t, err)
			assert.Equal(t, user.ID, accessID)
			assert.Equal(t, user.ID, refreshID)

			// The issued refresh token is the stored one.
			stored, err := repos.User.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, result.RefreshToken, stored.RefreshToken)
		})
	}
}

func TestAuthService_Login_OverwritesPreviousSession(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, service.NewTokenService(testutil.TestConfig()))
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	first, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)
	second, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)

	// The first session's refresh token no longer rotates.
	_, err = authService.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, service.ErrStaleRefreshToken)

	_, err = authService.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_SingleUse(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, service.NewTokenService(testutil.TestConfig()))
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	login, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)
	r0 := login.RefreshToken

	// R0 exchanges once.
	pair1, err := authService.Refresh(ctx, r0)
	require.NoError(t, err)
	r1 := pair1.RefreshToken
	assert.NotEqual(t, r0, r1)

	// Replaying R0 fails even though it is cryptographically valid.
	_, err = authService.Refresh(ctx, r0)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.Kind(err))

	// R1 is the live token and rotates normally.
	pair2, err := authService.Refresh(ctx, r1)
	require.NoError(t, err)
	assert.NotEqual(t, r1, pair2.RefreshToken)
}

func TestAuthService_Refresh_Rejections(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	tokens := service.NewTokenService(cfg)
	authService := service.NewAuthService(repos.User, tokens)
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		_, err := authService.Refresh(ctx, "")
		assert.Equal(t, domain.KindValidation, domain.Kind(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := authService.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("access token presented", func(t *testing.T) {
		user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
		login, err := authService.Login(ctx, user.Email, rawPassword)
		require.NoError(t, err)

		_, err = authService.Refresh(ctx, login.AccessToken)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("account deleted after issuance", func(t *testing.T) {
		user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
		login, err := authService.Login(ctx, user.Email, rawPassword)
		require.NoError(t, err)

		require.NoError(t, testDB.DB.Delete(&domain.User{}, "id = ?", user.ID).Error)

		_, err = authService.Refresh(ctx, login.RefreshToken)
		assert.Equal(t, domain.KindNotFound, domain.Kind(err))
	})
}

func TestAuthService_Refresh_ConcurrentRotation(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, service.NewTokenService(testutil.TestConfig()))
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	login, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)

	const attempts = 2
	var wg sync.WaitGroup
	results := make([]*service.TokenPair, attempts)
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = authService.Refresh(ctx, login.RefreshToken)
		}(i)
	}
	wg.Wait()

	// Exactly one rotation wins.
	var winners []*service.TokenPair
	for i := 0; i < attempts; i++ {
		if errs[i] == nil {
			winners = append(winners, results[i])
		} else {
			assert.Equal(t, domain.KindUnauthorized, domain.Kind(errs[i]))
		}
	}
	require.Len(t, winners, 1)

	// The stored token is the winner's new refresh token.
	stored, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, winners[0].RefreshToken, stored.RefreshToken)
}

func TestAuthService_Logout(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, service.NewTokenService(testutil.TestConfig()))
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	login, err := authService.Login(ctx, user.Email, rawPassword)
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, user.ID))

	stored, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)

	// The pre-logout refresh token stops validating.
	_, err = authService.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, service.ErrStaleRefreshToken)

	// Idempotent.
	assert.NoError(t, authService.Logout(ctx, user.ID))
}

func TestAuthService_ChangePassword(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, service.NewTokenService(testutil.TestConfig()))
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("wrong current password", func(t *testing.T) {
		err := authService.ChangePassword(ctx, user.ID, "not-the-password", "newpassword")
		assert.Equal(t, domain.KindUnauthorized, domain.Kind(err))
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, authService.ChangePassword(ctx, user.ID, rawPassword, "newpassword"))

		// Old password no longer works; new one does.
		_, err := authService.Login(ctx, user.Email, rawPassword)
		assert.Equal(t, domain.KindUnauthorized, domain.Kind(err))
		_, err = authService.Login(ctx, user.Email, "newpassword")
		assert.NoError(t, err)
	})

	t.Run("refresh token untouched by password change", func(t *testing.T) {
		// Session state is preserved; the login above replaced the stored
		// token, so re-login and verify the chain from scratch.
		result, err := authService.Login(ctx, user.Email, "newpassword")
		require.NoError(t, err)

		require.NoError(t, authService.ChangePassword(ctx, user.ID, "newpassword", "anotherpassword"))

		_, err = authService.Refresh(ctx, result.RefreshToken)
		assert.NoError(t, err, "password change must not revoke the refresh token")
	})
}
