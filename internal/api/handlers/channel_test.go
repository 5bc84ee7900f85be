package handlers_test

import (
	"net/http"
	"testing"

	"github.com/raghavk/vidtube/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

type profileData struct {
	FullName          string `json:"fullName"`
	Username          string `json:"username"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

func TestChannelHandler_GetProfile(t *testing.T) {
	ts := testutil.NewTestServer(t)

	alice, _ := testutil.NewUserBuilder().WithUsername("alice").Build(t, ts.DB.DB)
	fan, fanLogin := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	other, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	testutil.Subscribe(t, ts.DB.DB, fan, alice)
	testutil.Subscribe(t, ts.DB.DB, other, alice)
	testutil.Subscribe(t, ts.DB.DB, alice, other)

	t.Run("anonymous viewer", func(t *testing.T) {
		resp := get(t, ts.APIURL("/channel/alice"), "")
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var profile profileData
		testutil.DecodeEnvelope(t, resp, &profile)
		assert.Equal(t, "alice", profile.Username)
		assert.Equal(t, int64(2), profile.SubscriberCount)
		assert.Equal(t, int64(1), profile.SubscribedToCount)
		assert.False(t, profile.IsSubscribed)
	})

	t.Run("subscribed viewer", func(t *testing.T) {
		resp := get(t, ts.APIURL("/channel/alice"), fanLogin.AccessToken)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var profile profileData
		testutil.DecodeEnvelope(t, resp, &profile)
		assert.True(t, profile.IsSubscribed)
	})

	t.Run("unknown channel", func(t *testing.T) {
		resp := get(t, ts.APIURL("/channel/nobody"), "")
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "channel does not exist")
	})
}

func TestChannelHandler_WatchHistory(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	v1 := testutil.NewVideoBuilder().WithOwner(owner).WithTitle("one").Build(t, ts.DB.DB)
	v2 := testutil.NewVideoBuilder().WithOwner(owner).WithTitle("two").Build(t, ts.DB.DB)

	_, login := testutil.NewUserBuilder().
		WithWatchHistory(v2.ID.String(), v1.ID.String()).
		BuildAndLogin(t, ts)

	t.Run("authenticated", func(t *testing.T) {
		resp := get(t, ts.APIURL("/watch-history"), login.AccessToken)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var history []struct {
			Title string `json:"title"`
			Owner struct {
				Username string `json:"username"`
			} `json:"owner"`
		}
		testutil.DecodeEnvelope(t, resp, &history)
		require.Len(t, history, 2)
		assert.Equal(t, "two", history[0].Title)
		assert.Equal(t, "one", history[1].Title)
		assert.Equal(t, owner.Username, history[0].Owner.Username)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		resp := get(t, ts.APIURL("/watch-history"), "")
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}
