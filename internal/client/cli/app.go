package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dvolkovs/fileshare/internal/client/api"
	"github.com/dvolkovs/fileshare/internal/client/config"
	"github.com/dvolkovs/fileshare/internal/client/localstate"
	"github.com/dvolkovs/fileshare/internal/client/session"
	"github.com/dvolkovs/fileshare/internal/client/store"
	"github.com/dvolkovs/fileshare/internal/client/transfer"
	"github.com/dvolkovs/fileshare/internal/filex"
	"github.com/dvolkovs/fileshare/internal/logging"
)

// App ties the stores and services together behind the REPL.
type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	auth      *store.Auth
	data      *store.Data
	analytics *store.Analytics
	transfer  *transfer.Service

	// session state while a passhare session is open
	session   *session.Service
	poller    *session.Poller
	sessionID int64

	newSession func() *session.Service

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := localstate.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if _, err := filex.EnsureDir(c.DownloadDir); err != nil {
		_ = db.Close()
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerEndpointAddr)

	auth := store.NewAuth(apiClient, db, log)
	if err := auth.Restore(ctx); err != nil {
		log.Warn(ctx, "failed to restore credentials", "error", err)
	}

	analytics := store.NewAnalytics(apiClient, db, log)
	if err := analytics.Restore(ctx); err != nil {
		log.Warn(ctx, "failed to restore analytics", "error", err)
	}

	return &App{
		config:     c,
		log:        log,
		db:         db,
		auth:       auth,
		data:       store.NewData(apiClient, auth, log),
		analytics:  analytics,
		transfer:   transfer.NewService(apiClient),
		newSession: func() *session.Service { return session.NewService(apiClient, auth) },
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	a.stopPolling()
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close local database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.CurrentUser()
	return ok
}

func (a *App) userName() string {
	user, ok := a.auth.CurrentUser()
	if !ok {
		return ""
	}
	return user.Name
}

func (a *App) stopPolling() {
	if a.poller != nil {
		a.poller.Stop()
		a.poller = nil
	}
	a.session = nil
	a.sessionID = 0
}
