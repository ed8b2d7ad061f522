package store

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dvolkovs/fileshare/internal/client/localstate"
	"github.com/dvolkovs/fileshare/internal/client/models"
	"github.com/dvolkovs/fileshare/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := localstate.Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeAuthAPI records the installed token and serves canned credentials.
type fakeAuthAPI struct {
	creds    *models.Credentials
	err      error
	Token    string
	SetCalls int
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*models.Credentials, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.creds, nil
}

func (f *fakeAuthAPI) Register(ctx context.Context, name, email, password string) (*models.Credentials, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.creds, nil
}

func (f *fakeAuthAPI) SetToken(token string) {
	f.Token = token
	f.SetCalls++
}

// mintToken builds a signed JWT whose exp lies at the given offset from now.
func mintToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func testCredentials(t *testing.T) *models.Credentials {
	t.Helper()
	return &models.Credentials{
		Token: mintToken(t, time.Hour),
		User:  models.User{ID: 42, Name: "Dana", Email: "dana@example.com", StorageUsed: 100},
	}
}

func TestAuth_LoginAppliesCredentials(t *testing.T) {
	apiClient := &fakeAuthAPI{creds: testCredentials(t)}
	auth := NewAuth(apiClient, newTestDB(t), discardLogger())

	user, err := auth.Login(context.Background(), "dana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)

	assert.Equal(t, apiClient.creds.Token, apiClient.Token)
	assert.Equal(t, apiClient.creds.Token, auth.Token())

	id, ok := auth.CurrentUserID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestAuth_LoginFailureLeavesLoggedOut(t *testing.T) {
	apiClient := &fakeAuthAPI{err: assert.AnError}
	auth := NewAuth(apiClient, newTestDB(t), discardLogger())

	_, err := auth.Login(context.Background(), "dana@example.com", "wrong")
	require.Error(t, err)

	_, ok := auth.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, auth.Token())
}

func TestAuth_RestoreAbsent(t *testing.T) {
	auth := NewAuth(&fakeAuthAPI{}, newTestDB(t), discardLogger())

	require.NoError(t, auth.Restore(context.Background()))

	snap := auth.Snapshot()
	assert.False(t, snap.LoggedIn)
}

func TestAuth_RestorePersisted(t *testing.T) {
	db := newTestDB(t)
	apiClient := &fakeAuthAPI{creds: testCredentials(t)}
	first := NewAuth(apiClient, db, discardLogger())

	_, err := first.Login(context.Background(), "dana@example.com", "secret")
	require.NoError(t, err)

	// a fresh store over the same database picks the session back up
	restoredAPI := &fakeAuthAPI{}
	second := NewAuth(restoredAPI, db, discardLogger())
	require.NoError(t, second.Restore(context.Background()))

	user, ok := second.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, apiClient.creds.Token, restoredAPI.Token)
}

func TestAuth_RestoreCorruptResetsToLoggedOut(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := localstate.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, "auth_token", []byte(mintToken(t, time.Hour))))
	require.NoError(t, repo.Set(ctx, "auth_user", []byte("{not json")))

	auth := NewAuth(&fakeAuthAPI{}, db, discardLogger())
	require.NoError(t, auth.Restore(ctx))

	_, ok := auth.CurrentUser()
	assert.False(t, ok)

	// both rows are wiped, not kept around
	for _, key := range []string{"auth_token", "auth_user"} {
		raw, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, raw)
	}
}

func TestAuth_RestorePartialStateResetsToLoggedOut(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := localstate.NewSQLiteRepository(db)
	// a token without its user row counts as corrupt
	require.NoError(t, repo.Set(ctx, "auth_token", []byte(mintToken(t, time.Hour))))

	auth := NewAuth(&fakeAuthAPI{}, db, discardLogger())
	require.NoError(t, auth.Restore(ctx))

	_, ok := auth.CurrentUser()
	assert.False(t, ok)
}

func TestAuth_RestoreExpiredTokenResetsToLoggedOut(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apiClient := &fakeAuthAPI{creds: &models.Credentials{
		Token: mintToken(t, -time.Minute),
		User:  models.User{ID: 42, Email: "dana@example.com"},
	}}
	first := NewAuth(apiClient, db, discardLogger())
	_, err := first.Login(ctx, "dana@example.com", "secret")
	require.NoError(t, err)

	second := NewAuth(&fakeAuthAPI{}, db, discardLogger())
	require.NoError(t, second.Restore(ctx))

	_, ok := second.CurrentUser()
	assert.False(t, ok)

	raw, err := localstate.NewSQLiteRepository(db).Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestAuth_LogoutWipes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	apiClient := &fakeAuthAPI{creds: testCredentials(t)}
	auth := NewAuth(apiClient, db, discardLogger())

	_, err := auth.Login(ctx, "dana@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx))

	_, ok := auth.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, apiClient.Token)

	for _, key := range []string{"auth_token", "auth_user"} {
		raw, err := localstate.NewSQLiteRepository(db).Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, raw)
	}
}

func TestAuth_AdjustStorageUsed(t *testing.T) {
	apiClient := &fakeAuthAPI{creds: testCredentials(t)}
	auth := NewAuth(apiClient, newTestDB(t), discardLogger())
	ctx := context.Background()

	_, err := auth.Login(ctx, "dana@example.com", "secret")
	require.NoError(t, err)

	auth.AdjustStorageUsed(ctx, 1024)
	user, _ := auth.CurrentUser()
	assert.Equal(t, int64(1124), user.StorageUsed)

	// deltas below zero clamp instead of going negative
	auth.AdjustStorageUsed(ctx, -5000)
	user, _ = auth.CurrentUser()
	assert.Equal(t, int64(0), user.StorageUsed)
}

func TestAuth_AdjustStorageUsedLoggedOut(t *testing.T) {
	auth := NewAuth(&fakeAuthAPI{}, newTestDB(t), discardLogger())

	// no-op rather than a panic or a phantom user
	auth.AdjustStorageUsed(context.Background(), 1024)

	_, ok := auth.CurrentUser()
	assert.False(t, ok)
}
