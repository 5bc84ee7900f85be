package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/domain"
	"github.com/raghavk/vidtube/internal/repository/postgres"
	"github.com/raghavk/vidtube/internal/service"
	"github.com/raghavk/vidtube/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(testDB *testutil.TestDB) *service.ProfileService {
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewProfileService(repos.User, repos.Video, repos.Subscription)
}

func TestProfileService_ChannelProfile(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	profileService := newProfileService(testDB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().
		WithUsername("alice").
		WithFullName("Alice A").
		Build(t, testDB.DB)
	sub1, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	sub2, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	channel, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	// Two subscribers to alice; alice subscribes to one channel.
	testutil.Subscribe(t, testDB.DB, sub1, alice)
	testutil.Subscribe(t, testDB.DB, sub2, alice)
	testutil.Subscribe(t, testDB.DB, alice, channel)

	tests := []struct {
		name             string
		viewer           *uuid.UUID
		username         string
		wantKind         domain.ErrorKind
		wantIsSubscribed bool
	}{
		{name: "anonymous viewer", viewer: nil, username: "alice"},
		{name: "subscribed viewer", viewer: &sub1.ID, username: "alice", wantIsSubscribed: true},
		{name: "non-subscribed viewer", viewer: &outsider.ID, username: "alice"},
		{name: "case-insensitive lookup", viewer: &sub2.ID, username: "ALICE", wantIsSubscribed: true},
		{name: "unknown channel", username: "nobody", wantKind: domain.KindNotFound},
		{name: "empty username", username: "", wantKind: domain.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := profileService.ChannelProfile(ctx, tt.viewer, tt.username)

			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.Kind(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice", profile.Username)
			assert.Equal(t, "Alice A", profile.FullName)
			assert.Equal(t, int64(2), profile.SubscriberCount)
			assert.Equal(t, int64(1), profile.SubscribedToCount)
			assert.Equal(t, tt.wantIsSubscribed, profile.IsSubscribed)
		})
	}
}

func TestProfileService_WatchHistory(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	profileService := newProfileService(testDB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().
		WithUsername("creator").
		WithFullName("The Creator").
		Build(t, testDB.DB)
	v1 := testutil.NewVideoBuilder().WithOwner(owner).WithTitle("first").Build(t, testDB.DB)
	v2 := testutil.NewVideoBuilder().WithOwner(owner).WithTitle("second").Build(t, testDB.DB)
	v3 := testutil.NewVideoBuilder().WithOwner(owner).WithTitle("third").Build(t, testDB.DB)

	// History references v2 twice; order is most recent first.
	viewer, _ := testutil.NewUserBuilder().
		WithWatchHistory(v3.ID.String(), v2.ID.String(), v1.ID.String(), v2.ID.String()).
		Build(t, testDB.DB)

	t.Run("preserves stored order and duplicates", func(t *testing.T) {
		history, err := profileService.WatchHistory(ctx, viewer.ID)
		require.NoError(t, err)
		require.Len(t, history, 4)

		assert.Equal(t, "third", history[0].Title)
		assert.Equal(t, "second", history[1].Title)
		assert.Equal(t, "first", history[2].Title)
		assert.Equal(t, "second", history[3].Title)

		// Owner projected down to the public fields.
		assert.Equal(t, "creator", history[0].Owner.Username)
		assert.Equal(t, "The Creator", history[0].Owner.FullName)
		assert.NotEmpty(t, history[0].Owner.Avatar)
	})

	t.Run("silently drops deleted videos", func(t *testing.T) {
		require.NoError(t, testDB.DB.Delete(&domain.Video{}, "id = ?", v2.ID).Error)

		history, err := profileService.WatchHistory(ctx, viewer.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "third", history[0].Title)
		assert.Equal(t, "first", history[1].Title)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := profileService.WatchHistory(ctx, uuid.New())
		assert.Equal(t, domain.KindNotFound, domain.Kind(err))
	})

	t.Run("append is most recent first", func(t *testing.T) {
		fresh, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		require.NoError(t, profileService.AddToWatchHistory(ctx, fresh.ID, v1.ID))
		require.NoError(t, profileService.AddToWatchHistory(ctx, fresh.ID, v3.ID))

		stored, err := repos.User.GetByID(ctx, fresh.ID)
		require.NoError(t, err)
		require.Len(t, stored.WatchHistory, 2)
		assert.Equal(t, v3.ID.String(), stored.WatchHistory[0])
		assert.Equal(t, v1.ID.String(), stored.WatchHistory[1])
	})
}
