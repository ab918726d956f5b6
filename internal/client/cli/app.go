package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/docudefense/internal/client/client"
	"github.com/dmitrijs2005/docudefense/internal/client/config"
	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docudefense/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/docudefense/internal/client/services"
	"github.com/dmitrijs2005/docudefense/internal/client/session"
	"github.com/dmitrijs2005/docudefense/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single reachability check.
const pingTimeout = 3 * time.Second

// sessionIface is the session surface the commands use. *session.Controller
// satisfies it.
type sessionIface interface {
	Init(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, input models.UserInput) (*models.User, error)
	Logout(ctx context.Context) error
	UserID(ctx context.Context) (string, error)
	Email() string
	LoggedIn() bool
	OpenAuthModal()
	CloseAuthModal()
}

type claimsReader interface {
	Claims(ctx context.Context) (*session.Claims, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config    *config.Config
	session   sessionIface
	tokens    claimsReader
	directory services.DirectoryService
	dashboard services.DashboardService
	api       pinger
	logger    logging.Logger
	db        *sql.DB
	reader    *bufio.Reader
	out       io.Writer

	mu   sync.Mutex
	Mode Mode
}

// NewApp opens the local database and builds every service the REPL needs.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	tokens := session.NewTokenStore(metadata.NewSQLiteRepository(db))

	apiClient, err := client.NewDocuDefenseClient(c.BaseURL, tokens,
		client.WithTimeout(c.RequestTimeout),
		client.WithSearchPath(c.SearchPath),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctrl := session.NewController(tokens, apiClient, logger)

	return &App{
		config:    c,
		session:   ctrl,
		tokens:    tokens,
		directory: services.NewDirectoryService(apiClient, c.PageSize, logger),
		dashboard: services.NewDashboardService(apiClient, ctrl, documents.NewSQLiteRepository(db), c.DownloadDir, logger),
		api:       apiClient,
		logger:    logger,
		db:        db,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run blocks in the REPL until the user exits, then closes the database.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

// checkOnline pings the backend once and updates Mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the backend every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
