package evolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"evowatch-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cookie string, handler http.HandlerFunc) (*Client, *httptest.Server) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/evolve")
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientOptions{
		BaseUrl:    server.URL,
		Session:    NewSessionStore(cookie),
		RetryDelay: time.Millisecond,
	})
	return client, server
}

func TestFetchFailsFastWithoutSession(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	list, err := client.Businesses(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	require.Nil(t, list)
	require.Zero(t, requests)
}

func TestFetchSuccess(t *testing.T) {
	client, _ := newTestClient(t, "PHPSESSID=abc", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "PHPSESSID=abc", r.Header.Get("cookie"))
		w.Write([]byte(`{"success":true,"content":[
			{"name":"Alpha","status":"Активен","owner":"Bob","products":"4200","price":"100"},
			{"name":"Beta","status":"На аукционе","owner":"none","products":"0","price":"0"}
		]}`))
	})

	list, err := client.Businesses(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Alpha", list[0].Name)
	require.False(t, list[0].OnAuction())
	require.True(t, list[1].OnAuction())
}

func TestFetchResolvesChallengeOnce(t *testing.T) {
	page := challengePage(challengeKey, challengeIv, challengeCipher)

	var requests int
	var replayCookie string
	client, _ := newTestClient(t, "PHPSESSID=abc", func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Write([]byte(page))
			return
		}
		replayCookie = r.Header.Get("cookie")
		w.Write([]byte(`{"success":true,"content":[{"number":"7","status":"На аукционе"}]}`))
	})

	list, err := client.Farms(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "7", list[0].Number)

	require.Equal(t, 2, requests)
	require.Equal(t, "PHPSESSID=abc; R3ACTLB="+challengeToken, replayCookie)
	require.Equal(t, replayCookie, client.Session().Get())
}

func TestFetchChallengeUnresolvable(t *testing.T) {
	var requests int
	client, _ := newTestClient(t, "PHPSESSID=abc", func(w http.ResponseWriter, r *http.Request) {
		requests++
		// a challenge page missing its token triplet
		w.Write([]byte(`<!DOCTYPE html><html><body>checking your browser</body></html>`))
	})

	list, err := client.Businesses(context.Background())
	require.ErrorIs(t, err, ErrChallengeUnresolved)
	require.Nil(t, list)
	require.Equal(t, 1, requests, "no retry without a token")
}

func TestFetchRepeatedChallengeGivesUp(t *testing.T) {
	page := challengePage(challengeKey, challengeIv, challengeCipher)

	var requests int
	client, _ := newTestClient(t, "PHPSESSID=abc", func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(page))
	})

	_, err := client.Businesses(context.Background())
	require.ErrorIs(t, err, ErrChallengeUnresolved)
	require.Equal(t, 2, requests, "exactly one replay per fetch")
}

func TestFetchAuthFailureClearsSession(t *testing.T) {
	client, _ := newTestClient(t, "PHPSESSID=abc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	list, err := client.Realtors(context.Background())
	require.Error(t, err)
	require.Nil(t, list)
	require.Empty(t, client.Session().Get())
}

func TestFetchUnsuccessfulPayloadIsValidEmpty(t *testing.T) {
	client, _ := newTestClient(t, "PHPSESSID=abc", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	})

	list, err := client.ServiceStations(context.Background())
	require.NoError(t, err, "a well-formed unsuccessful reply is not a fetch failure")
	require.Empty(t, list)
}

func TestFetchDoesNotFollowRedirects(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, "PHPSESSID=abc", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.Contains(r.URL.Path, "userPanel") {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		t.Fatalf("redirect was followed to %s", r.URL.Path)
	})

	list, err := client.CarMarket(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
	require.Len(t, paths, 1)
}
