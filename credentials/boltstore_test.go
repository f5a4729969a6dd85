package credentials_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeohaeng/travel-client/credentials"
	"github.com/yeohaeng/travel-client/member"
)

func openTestStore(t *testing.T) *credentials.BoltStore {
	t.Helper()
	store, err := credentials.OpenBoltStore(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReadEmptyStore(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Read()
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Write(credentials.Record{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		User:         &member.User{MemberID: 7, Name: "Kim", Nickname: "kimchi", Email: "a@b.com"},
	}))

	rec, err := store.Read()
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "AT1", rec.AccessToken)
	require.Equal(t, "RT1", rec.RefreshToken)
	require.Equal(t, int64(7), rec.User.MemberID)
	require.Equal(t, "kimchi", rec.User.Nickname)
}

func TestWriteReplacesPreviousTriple(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Write(credentials.Record{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		User:         &member.User{MemberID: 7},
	}))
	require.NoError(t, store.Write(credentials.Record{
		AccessToken:  "AT2",
		RefreshToken: "RT2",
		User:         &member.User{MemberID: 8},
	}))

	rec, err := store.Read()
	require.NoError(t, err)
	require.Equal(t, "AT2", rec.AccessToken)
	require.Equal(t, "RT2", rec.RefreshToken)
	require.Equal(t, int64(8), rec.User.MemberID)
}

func TestClearRemovesWholeTriple(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Write(credentials.Record{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		User:         &member.User{MemberID: 7},
	}))
	require.NoError(t, store.Clear())

	rec, err := store.Read()
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestClearOnEmptyStoreIsNoOp(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}
