package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/timex"
	"github.com/joho/godotenv"
)

// envFile is loaded before reading the environment. Variables already set
// in the process environment win over the file.
var envFile = ".env"

// parseEnv overlays environment variables onto config. Malformed values
// panic, like malformed flags.
//
// Recognized variables:
//
//	PORT                   listen on ":PORT"
//	SERVER_ADDRESS         full bind address, wins over PORT
//	DATABASE_URL           PostgreSQL DSN
//	ACCESS_TOKEN_SECRET    access token HMAC secret
//	ACCESS_TOKEN_EXPIRY    access token lifetime ("15m", "1d", "900")
//	REFRESH_TOKEN_SECRET   refresh token HMAC secret
//	REFRESH_TOKEN_EXPIRY   refresh token lifetime
//	DB_MAX_OPEN_CONNS      pool size
//	DB_MAX_IDLE_CONNS      idle pool size
//	DB_CONN_MAX_LIFETIME   connection lifetime
//	COOKIE_SECURE          Secure cookie attribute (bool)
//	CORS_ALLOWED_ORIGINS   comma separated origins
//	GIN_MODE               debug, release or test
//	LOG_LEVEL              debug, info, warn or error
//	SHUTDOWN_TIMEOUT       graceful shutdown limit
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("load %s: %w", envFile, err))
	}

	if v, ok := lookup("PORT"); ok {
		config.ServerAddress = ":" + v
	}
	if v, ok := lookup("SERVER_ADDRESS"); ok {
		config.ServerAddress = v
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("ACCESS_TOKEN_SECRET"); ok {
		config.AccessTokenSecret = v
	}
	if v, ok := lookup("REFRESH_TOKEN_SECRET"); ok {
		config.RefreshTokenSecret = v
	}
	envDuration("ACCESS_TOKEN_EXPIRY", &config.AccessTokenValidityDuration)
	envDuration("REFRESH_TOKEN_EXPIRY", &config.RefreshTokenValidityDuration)
	envDuration("DB_CONN_MAX_LIFETIME", &config.DBConnMaxLifetime)
	envDuration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)
	envInt("DB_MAX_OPEN_CONNS", &config.DBMaxOpenConns)
	envInt("DB_MAX_IDLE_CONNS", &config.DBMaxIdleConns)

	if v, ok := lookup("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("COOKIE_SECURE: %w", err))
		}
		config.CookieSecure = b
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	if v, ok := lookup("GIN_MODE"); ok {
		config.GinMode = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
}

// lookup treats set-but-blank variables as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envDuration(key string, dst *time.Duration) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}

func envInt(key string, dst *int) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = n
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
