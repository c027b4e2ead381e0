package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept strings such
// as "15m" or "7d" as well as integer nanoseconds. Absent fields leave the
// current value untouched.
type JsonConfig struct {
	ServerAddress                *string         `json:"server_address"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	AccessTokenSecret            *string         `json:"access_token_secret"`
	RefreshTokenSecret           *string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	DBMaxOpenConns               *int            `json:"db_max_open_conns"`
	DBMaxIdleConns               *int            `json:"db_max_idle_conns"`
	DBConnMaxLifetime            *timex.Duration `json:"db_conn_max_lifetime"`
	CookieSecure                 *bool           `json:"cookie_secure"`
	CORSAllowedOrigins           []string        `json:"cors_allowed_origins"`
	GinMode                      *string         `json:"gin_mode"`
	LogLevel                     *string         `json:"log_level"`
	ShutdownTimeout              *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays the file named by -c/-config onto config. Without the
// flag it does nothing; an unreadable or malformed file panics.
func parseJson(config *Config) {
	path := configFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.ServerAddress, c.ServerAddress)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.AccessTokenSecret, c.AccessTokenSecret)
	setIf(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	setDurationIf(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDurationIf(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setIf(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	setIf(&config.DBMaxIdleConns, c.DBMaxIdleConns)
	setDurationIf(&config.DBConnMaxLifetime, c.DBConnMaxLifetime)
	setIf(&config.CookieSecure, c.CookieSecure)
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	setIf(&config.GinMode, c.GinMode)
	setIf(&config.LogLevel, c.LogLevel)
	setDurationIf(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDurationIf(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}
