// Package store holds the client-side aggregate state: the authenticated
// identity (auth), the mirrored file/folder/share collections (data), and
// the speculative usage counters (analytics). Stores are injectable service
// objects; mutators call the backend first and apply the authoritative
// response, except analytics which is purely local.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dvolkovs/fileshare/internal/client/api"
	"github.com/dvolkovs/fileshare/internal/client/localstate"
	"github.com/dvolkovs/fileshare/internal/client/models"
	"github.com/dvolkovs/fileshare/internal/dbx"
	"github.com/dvolkovs/fileshare/internal/logging"
)

// The credential set persists as two rows, written and wiped together.
const (
	authTokenKey = "auth_token"
	authUserKey  = "auth_user"
)

// Auth holds the current-user identity and bearer token. The credential set
// is persisted locally so a restart can restore the logged-in state; a
// missing, corrupt or expired saved state restores to clean logged-out,
// never to anything partial.
type Auth struct {
	api api.AuthAPI
	db  *sql.DB
	log logging.Logger

	mu    sync.RWMutex
	creds *models.Credentials
}

// AuthSnapshot is a read-only copy of the auth state.
type AuthSnapshot struct {
	LoggedIn bool
	User     models.User
}

func NewAuth(apiClient api.AuthAPI, db *sql.DB, log logging.Logger) *Auth {
	return &Auth{api: apiClient, db: db, log: log}
}

func (a *Auth) repo() localstate.Repository {
	return localstate.NewSQLiteRepository(a.db)
}

// Login authenticates against the backend, installs the bearer token on the
// API client and persists the credential set locally.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.User, error) {
	creds, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.apply(ctx, creds)
	user := creds.User
	return &user, nil
}

// Register creates a new account; the backend logs the account in as part of
// registration, so the returned credentials are applied the same way.
func (a *Auth) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	creds, err := a.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	a.apply(ctx, creds)
	user := creds.User
	return &user, nil
}

// Logout drops the in-memory credentials, clears the bearer token and wipes
// the persisted state.
func (a *Auth) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.creds = nil
	a.mu.Unlock()
	a.api.SetToken("")
	return a.wipe(ctx)
}

// Restore loads the persisted credential set. An absent, unreadable or
// expired set leaves the store logged out and wipes the saved state;
// Restore only fails on storage errors.
func (a *Auth) Restore(ctx context.Context) error {
	repo := a.repo()
	token, err := repo.Get(ctx, authTokenKey)
	if err != nil {
		return err
	}
	rawUser, err := repo.Get(ctx, authUserKey)
	if err != nil {
		return err
	}
	if token == nil && rawUser == nil {
		return nil
	}

	var user models.User
	if token == nil || rawUser == nil || json.Unmarshal(rawUser, &user) != nil {
		a.log.Warn(ctx, "discarding unreadable saved credentials")
		return a.wipe(ctx)
	}
	if tokenExpired(string(token)) {
		a.log.Warn(ctx, "discarding expired saved credentials", "user", user.Email)
		return a.wipe(ctx)
	}

	creds := &models.Credentials{Token: string(token), User: user}
	a.mu.Lock()
	a.creds = creds
	a.mu.Unlock()
	a.api.SetToken(creds.Token)
	return nil
}

// AdjustStorageUsed shifts the storage-used counter by delta bytes, clamped
// at zero. The data store calls this after uploads and deletes. A no-op when
// logged out.
func (a *Auth) AdjustStorageUsed(ctx context.Context, delta int64) {
	a.mu.Lock()
	if a.creds == nil {
		a.mu.Unlock()
		return
	}
	used := a.creds.User.StorageUsed + delta
	if used < 0 {
		used = 0
	}
	a.creds.User.StorageUsed = used
	a.mu.Unlock()

	a.persist(ctx)
}

// CurrentUser returns a copy of the logged-in user, if any.
func (a *Auth) CurrentUser() (models.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.creds == nil {
		return models.User{}, false
	}
	return a.creds.User, true
}

// CurrentUserID reports the logged-in account id. It satisfies the identity
// dependency of the session service.
func (a *Auth) CurrentUserID() (int64, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.creds == nil {
		return 0, false
	}
	return a.creds.User.ID, true
}

func (a *Auth) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.creds == nil {
		return ""
	}
	return a.creds.Token
}

func (a *Auth) Snapshot() AuthSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.creds == nil {
		return AuthSnapshot{}
	}
	return AuthSnapshot{LoggedIn: true, User: a.creds.User}
}

func (a *Auth) apply(ctx context.Context, creds *models.Credentials) {
	a.mu.Lock()
	a.creds = creds
	a.mu.Unlock()
	a.api.SetToken(creds.Token)
	a.persist(ctx)
}

// persist saves the credential set, both rows in one transaction so a crash
// cannot leave a token without its user. Failures are logged, not returned:
// losing persistence degrades the next restart, not this session.
func (a *Auth) persist(ctx context.Context) {
	a.mu.RLock()
	creds := a.creds
	a.mu.RUnlock()
	if creds == nil {
		return
	}

	rawUser, err := json.Marshal(creds.User)
	if err != nil {
		a.log.Warn(ctx, "failed to encode user", "error", err)
		return
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := localstate.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, authTokenKey, []byte(creds.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, authUserKey, rawUser)
	})
	if err != nil {
		a.log.Warn(ctx, "failed to save credentials", "error", err)
	}
}

func (a *Auth) wipe(ctx context.Context) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := localstate.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, authTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, authUserKey)
	})
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the server's job. Unparseable tokens count
// as expired.
func tokenExpired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
