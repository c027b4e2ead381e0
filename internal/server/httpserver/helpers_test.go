package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUsers struct {
	mu sync.Mutex

	registerOut *models.UserInfo
	registerErr error
	loginOut    *services.Session
	loginErr    error
	logoutErr   error
	logoutIDs   []string

	// verify and refresh default to rejecting every token
	verify        func(token string) (*models.UserInfo, error)
	refresh       func(token string) (*services.Session, error)
	refreshTokens []string
}

func (s *stubUsers) Register(ctx context.Context, name, email, password string) (*models.UserInfo, error) {
	return s.registerOut, s.registerErr
}

func (s *stubUsers) Login(ctx context.Context, email, password string) (*services.Session, error) {
	return s.loginOut, s.loginErr
}

func (s *stubUsers) Logout(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.logoutIDs = append(s.logoutIDs, userID)
	s.mu.Unlock()
	return s.logoutErr
}

func (s *stubUsers) VerifyAccess(token string) (*models.UserInfo, error) {
	if s.verify == nil {
		return nil, errors.New("invalid token")
	}
	return s.verify(token)
}

func (s *stubUsers) RefreshSession(ctx context.Context, token string) (*services.Session, error) {
	s.mu.Lock()
	s.refreshTokens = append(s.refreshTokens, token)
	s.mu.Unlock()
	if s.refresh == nil {
		return nil, errors.New("refresh rejected")
	}
	return s.refresh(token)
}

// acceptToken makes VerifyAccess accept exactly tok as user.
func acceptToken(tok string, user models.UserInfo) func(string) (*models.UserInfo, error) {
	return func(got string) (*models.UserInfo, error) {
		if got != tok {
			return nil, errors.New("invalid token")
		}
		u := user
		return &u, nil
	}
}

type stubTodos struct {
	listOut   []models.Todo
	listErr   error
	addOut    *models.Todo
	addErr    error
	removeErr error

	gotUserID, gotTitle, gotDescription, gotTodoID string
}

func (s *stubTodos) List(ctx context.Context, userID string) ([]models.Todo, error) {
	s.gotUserID = userID
	return s.listOut, s.listErr
}

func (s *stubTodos) Add(ctx context.Context, userID, title, description string) (*models.Todo, error) {
	s.gotUserID, s.gotTitle, s.gotDescription = userID, title, description
	return s.addOut, s.addErr
}

func (s *stubTodos) Remove(ctx context.Context, userID, todoID string) error {
	s.gotUserID, s.gotTodoID = userID, todoID
	return s.removeErr
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func testOptions() Options {
	return Options{
		Address:            "127.0.0.1:0",
		CookieSecure:       true,
		AccessTokenMaxAge:  15 * time.Minute,
		RefreshTokenMaxAge: 7 * 24 * time.Hour,
		ShutdownTimeout:    time.Second,
	}
}

func newTestServer(us UserService, ts TodoService, db Pinger) *HTTPServer {
	return NewHTTPServer(testOptions(), logging.Nop(), us, ts, db)
}

type reqOpt func(r *http.Request)

func withCookie(name, value string) reqOpt {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

func withHeader(name, value string) reqOpt {
	return func(r *http.Request) { r.Header.Set(name, value) }
}

func do(t *testing.T, h http.Handler, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), "body: %s", w.Body.String())
	return e
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
