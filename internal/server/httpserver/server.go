// Package httpserver exposes the user and todo services over HTTP JSON
// using gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.UserInfo, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Logout(ctx context.Context, userID string) error
	VerifyAccess(token string) (*models.UserInfo, error)
	RefreshSession(ctx context.Context, refreshToken string) (*services.Session, error)
}

type TodoService interface {
	List(ctx context.Context, userID string) ([]models.Todo, error)
	Add(ctx context.Context, userID, title, description string) (*models.Todo, error)
	Remove(ctx context.Context, userID, todoID string) error
}

// Pinger reports database reachability for /health. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options are the transport settings of the server.
type Options struct {
	Address            string
	CookieSecure       bool
	AccessTokenMaxAge  time.Duration
	RefreshTokenMaxAge time.Duration
	AllowedOrigins     []string
	ShutdownTimeout    time.Duration
}

type HTTPServer struct {
	opts   Options
	logger logging.Logger
	users  UserService
	todos  TodoService
	db     Pinger
}

// NewHTTPServer builds the server. db may be nil, in which case /health
// does not check storage.
func NewHTTPServer(opts Options, l logging.Logger, us UserService, ts TodoService, db Pinger) *HTTPServer {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServer{
		opts:   opts,
		logger: l.With("module", "http_server"),
		users:  us,
		todos:  ts,
		db:     db,
	}
}

// Router returns the gin engine with every route and middleware attached.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(s.requestID(), s.accessLog(), s.recovery())

	if len(s.opts.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.opts.AllowedOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		corsConfig.ExposeHeaders = []string{common.RequestIDHeaderName}
		r.Use(cors.New(corsConfig))
	}

	r.GET("/health", s.health)

	users := r.Group("/users")
	{
		users.POST("/register", s.register)
		users.POST("/login", s.login)
		users.POST("/logout", s.authGuard(), s.logout)
	}

	todos := r.Group("/todos", s.authGuard())
	{
		todos.GET("", s.listTodos)
		todos.POST("/addTodo", s.addTodo)
		todos.DELETE("/removeTodo", s.removeTodo)
		todos.DELETE("/removeTodo/:id", s.removeTodo)
	}

	r.NoRoute(func(c *gin.Context) {
		s.writeError(c, errRouteNotFound)
	})

	return r
}

func (s *HTTPServer) health(c *gin.Context) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
