// Package server wires configuration, storage, services and the HTTP
// transport together and runs them until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/auth"
	"github.com/dmitrijs2005/todoapi/internal/server/config"
	"github.com/dmitrijs2005/todoapi/internal/server/httpserver"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todoapi/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpserver.HTTPServer
}

// NewApp connects storage, applies migrations and builds the HTTP server.
// With config.MemoryDSN no database is opened.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogLevel)
	gin.SetMode(c.GinMode)

	var (
		db     *sql.DB
		conn   dbx.DBTX
		pinger httpserver.Pinger
		rm     repomanager.RepositoryManager
	)

	if c.DatabaseDSN == config.MemoryDSN {
		logger.Warn(ctx, "using in-memory storage, data is lost on exit")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = dbx.Open(ctx, c.DatabaseDSN, dbx.PoolOptions{
			MaxOpenConns:    c.DBMaxOpenConns,
			MaxIdleConns:    c.DBMaxIdleConns,
			ConnMaxLifetime: c.DBConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}

		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		conn, pinger = db, db
	}

	tokens := auth.NewTokenManager(
		c.AccessTokenSecret, c.AccessTokenValidityDuration,
		c.RefreshTokenSecret, c.RefreshTokenValidityDuration,
	)

	us := services.NewUserService(conn, rm, tokens)
	ts := services.NewTodoService(conn, rm)

	srv := httpserver.NewHTTPServer(httpserver.Options{
		Address:            c.ServerAddress,
		CookieSecure:       c.CookieSecure,
		AccessTokenMaxAge:  c.AccessTokenValidityDuration,
		RefreshTokenMaxAge: c.RefreshTokenValidityDuration,
		AllowedOrigins:     c.CORSAllowedOrigins,
		ShutdownTimeout:    c.ShutdownTimeout,
	}, logger, us, ts, pinger)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until ctx is cancelled or a signal arrives. It returns the
// server error, if any, after closing the database.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server error", "error", err)
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
