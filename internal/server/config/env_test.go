package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	isolateEnv(t)

	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://db/app")
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "900")
	t.Setenv("REFRESH_TOKEN_SECRET", "r")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "10d")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("DB_MAX_IDLE_CONNS", "4")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1h")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	c := &Config{}
	parseEnv(c)

	want := &Config{
		ServerAddress:                ":8080",
		DatabaseDSN:                  "postgres://db/app",
		AccessTokenSecret:            "a",
		RefreshTokenSecret:           "r",
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 10 * 24 * time.Hour,
		DBMaxOpenConns:               20,
		DBMaxIdleConns:               4,
		DBConnMaxLifetime:            time.Hour,
		CookieSecure:                 false,
		CORSAllowedOrigins:           []string{"https://a.example", "https://b.example"},
		GinMode:                      "release",
		LogLevel:                     "debug",
		ShutdownTimeout:              30 * time.Second,
	}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseEnv_ServerAddressWinsOverPort(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9000")

	c := &Config{}
	parseEnv(c)

	assert.Equal(t, "127.0.0.1:9000", c.ServerAddress)
}

func TestParseEnv_BlankLeavesValues(t *testing.T) {
	isolateEnv(t)

	c := &Config{}
	c.LoadDefaults()
	want := *c

	parseEnv(c)

	assert.Empty(t, cmp.Diff(&want, c))
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	isolateEnv(t)
	// t.Setenv("", ...) above left the keys present but blank; godotenv
	// never overrides present keys, so drop the one under test.
	require.NoError(t, os.Unsetenv("ACCESS_TOKEN_SECRET"))
	t.Cleanup(func() { _ = os.Unsetenv("ACCESS_TOKEN_SECRET") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ACCESS_TOKEN_SECRET=from-file\n"), 0o600))
	envFile = path

	c := &Config{}
	parseEnv(c)

	assert.Equal(t, "from-file", c.AccessTokenSecret)
}

func TestParseEnv_MalformedPanics(t *testing.T) {
	cases := map[string]string{
		"ACCESS_TOKEN_EXPIRY": "soon",
		"DB_MAX_OPEN_CONNS":   "many",
		"COOKIE_SECURE":       "maybe",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(key, val)
			require.Panics(t, func() { parseEnv(&Config{}) })
		})
	}
}
