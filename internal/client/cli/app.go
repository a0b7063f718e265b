package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/moodkeeper/internal/client/client"
	"github.com/dmitrijs2005/moodkeeper/internal/client/config"
	"github.com/dmitrijs2005/moodkeeper/internal/client/printers"
	"github.com/dmitrijs2005/moodkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodkeeper/internal/client/services"
	"github.com/dmitrijs2005/moodkeeper/internal/client/store"
	"github.com/dmitrijs2005/moodkeeper/internal/filex"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/fatih/color"
)

// authService is the part of services.AuthService the commands use.
type authService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*client.Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*client.Session, bool, error)
	Session() (*client.Session, bool)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService authService
	store       *store.MoodStore
	catalog     *catalog.Catalog
	printer     *printers.PrettyPrint
	reader      *bufio.Reader
	out         io.Writer
	loc         *time.Location

	closers []func() error
}

// loadCatalog reads the configured catalog, falling back to the embedded one.
func loadCatalog(ctx context.Context, c *config.Config, logger logging.Logger) *catalog.Catalog {
	if c.CatalogPath == "" {
		return catalog.LoadDefault(ctx, logger)
	}
	return catalog.LoadFile(ctx, c.CatalogPath, logger)
}

// NewApp opens the local database, dials the remote store and wires the
// services. in and out are the terminal.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	policy, err := store.ParseWritePolicy(c.WritePolicy)
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(c.DownloadDir) {
		dir, err := filex.EnsureSubDir(c.DownloadDir)
		if err != nil {
			return nil, err
		}
		c.DownloadDir = dir
	}

	db, err := client.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("init local database: %w", err)
	}
	meta := metadata.NewSQLiteRepository(db)

	// the store is built after the client, so the hook resets through st
	var st *store.MoodStore
	hook := onSessionChange(services.PersistSessionHook(meta, logger), func() {
		if st != nil {
			st.Reset()
		}
	})
	remote, err := client.NewGRPCClient(c.ServerEndpointAddr, client.WithSessionHook(hook))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("dial %s: %w", c.ServerEndpointAddr, err)
	}

	auth := services.NewAuthService(remote, meta, logger)
	cat := loadCatalog(ctx, c, logger)
	st = store.New(remote, cat,
		store.WithWritePolicy(policy),
		store.WithInvalidator(auth),
		store.WithLogger(logger))

	a := newApp(c, logger, auth, st, cat, in, out)
	a.closers = []func() error{remote.Close, db.Close}
	return a, nil
}

// onSessionChange calls persist for every session change and reset when
// the session is gone.
func onSessionChange(persist func(*client.Session), reset func()) func(*client.Session) {
	return func(sess *client.Session) {
		persist(sess)
		if sess == nil {
			reset()
		}
	}
}

func newApp(c *config.Config, logger logging.Logger, auth authService, st *store.MoodStore, cat *catalog.Catalog, in io.Reader, out io.Writer) *App {
	return &App{
		config:      c,
		logger:      logger.With("module", "cli"),
		authService: auth,
		store:       st,
		catalog:     cat,
		printer:     &printers.PrettyPrint{Out: out, ShowID: true},
		reader:      bufio.NewReader(in),
		out:         out,
		loc:         time.Local,
	}
}

// Close releases the remote connection and the local database.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.authService.Session()
	return ok
}

func (a *App) status() string {
	if s, ok := a.authService.Session(); ok {
		return fmt.Sprintf("(%s)", s.Username)
	}
	return ""
}

// withTimeout bounds one remote operation by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

func (a *App) warn(format string, args ...any) {
	_, _ = color.New(color.FgYellow).Fprintf(a.out, format+"\n", args...)
}

// Run restores a saved session, loads the entries and starts the REPL. It
// returns when the user exits or in reaches EOF.
func (a *App) Run(ctx context.Context) error {
	if err := a.catalog.LoadErr(); err != nil {
		a.warn("Mood catalog unavailable: %v", err)
	}

	sess, ok, err := a.authService.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
	}
	if ok {
		a.println("Welcome back,", sess.Username)
		if err := a.Refresh(ctx); err != nil {
			a.warn("Could not load entries: %v", err)
		}
	}

	a.println("MoodKeeper (type 'help' for commands)")
	runREPL(ctx, a, a.reader, a.out)
	return nil
}
