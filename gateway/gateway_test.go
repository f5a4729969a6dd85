package gateway_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yeohaeng/travel-client/auth"
	"github.com/yeohaeng/travel-client/auth/authfakes"
	"github.com/yeohaeng/travel-client/credentials"
	fakecredentialstore "github.com/yeohaeng/travel-client/credentials/repofake"
	"github.com/yeohaeng/travel-client/gateway"
	"github.com/yeohaeng/travel-client/member"
)

func storedRecord() credentials.Record {
	return credentials.Record{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		User:         &member.User{MemberID: 7, Nickname: "kimchi"},
	}
}

func TestBearerTokenAttachedWhenStored(t *testing.T) {
	store := fakecredentialstore.NewFakeStore()
	require.NoError(t, store.Write(storedRecord()))

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	transport := gateway.New(store, gateway.WithLogger(zerolog.Nop()))
	resp, err := transport.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	require.Equal(t, "Bearer AT1", gotAuth)
}

func TestUnauthenticatedRequestPassesThroughUnchanged(t *testing.T) {
	store := fakecredentialstore.NewFakeStore()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	transport := gateway.New(store, gateway.WithLogger(zerolog.Nop()))
	resp, err := transport.Client().Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, gotAuth)
}

func TestNonAuthFailuresPassThrough(t *testing.T) {
	store := fakecredentialstore.NewFakeStore()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var fired bool
	transport := gateway.New(store, gateway.WithLogger(zerolog.Nop()))
	transport.SetUnauthorizedHandler(func() { fired = true })

	resp, err := transport.Client().Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.False(t, fired)
}

// A 401 on any request, related to the current screen or not, ends the
// session: user empty, store cleared, one alert, navigation to the entry
// route. Two racing 401s must not produce a second alert.
func TestUnauthorizedResponseForcesLogoutOnce(t *testing.T) {
	store := fakecredentialstore.NewFakeStore()
	require.NoError(t, store.Write(storedRecord()))

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	notifier := &authfakes.SpyNotifier{}
	navigator := &authfakes.SpyNavigator{}
	transport := gateway.New(store, gateway.WithLogger(zerolog.Nop()))

	backend := &authfakes.FakeBackend{}
	sessions, err := auth.NewManager(store, backend, notifier, navigator,
		auth.WithLogger(zerolog.Nop()),
		auth.WithTimerFactory((&authfakes.FakeScheduler{}).Factory),
	)
	require.NoError(t, err)
	require.NotNil(t, sessions.User())
	transport.SetUnauthorizedHandler(sessions.ForceLogout)

	client := transport.Client()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
			resp, err := client.Do(req)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	time.Sleep(50 * time.Millisecond) // both requests in flight
	close(release)
	wg.Wait()

	require.Nil(t, sessions.User())
	rec, err := store.Read()
	require.NoError(t, err)
	require.Nil(t, rec)
	require.Equal(t, []string{auth.MsgLoginExpired}, notifier.Alerts())
	require.Equal(t, []string{auth.EntryRoute}, navigator.Routes())
}
