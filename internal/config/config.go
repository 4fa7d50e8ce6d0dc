package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Remote
		UI
		Session
		Store
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Remote struct {
		BaseURL string        // URL of the books resource
		Timeout time.Duration // Per request timeout, 0 disables it
	}
	UI struct {
		PageSize       int
		ExportBaseName string
	}
	Session struct {
		DBPath        string
		Lifetime      time.Duration
		Secret        string // CSRF key, generated at startup if empty
		SecureCookies bool   // Set to false for local dev without HTTPS
	}
	Store struct {
		Port          int32
		Host          string
		DatabasePath  string
		SeedCount     int
		ResetSchedule string // Cron format, empty disables periodic resets
		ReadOnly      bool   // Reject every write to the store
	}
	Log struct {
		Level  string
		Format string // "text" or "json"
	}
)

// NewConfig reads the configuration from the environment. A .env file in the
// working directory is loaded first; variables already set win over it.
func NewConfig() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("remote_base_url", DefaultRemoteBaseURL)
	v.SetDefault("remote_timeout", "30s")

	v.SetDefault("ui_page_size", 10)
	v.SetDefault("export_base_name", DefaultExportBaseName)

	// Session defaults
	v.SetDefault("session_db_path", DefaultSessionDBPath)
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secret", "")
	v.SetDefault("secure_cookies", false)

	// Bundled store defaults
	v.SetDefault("store_port", 8189)
	v.SetDefault("store_host", "0.0.0.0")
	v.SetDefault("store_database_path", DefaultStoreDatabasePath)
	v.SetDefault("store_seed_count", 20)
	v.SetDefault("store_reset_schedule", "")
	v.SetDefault("store_read_only", false)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Remote: Remote{
			BaseURL: v.GetString("REMOTE_BASE_URL"),
			Timeout: v.GetDuration("REMOTE_TIMEOUT"),
		},
		UI: UI{
			PageSize:       v.GetInt("UI_PAGE_SIZE"),
			ExportBaseName: v.GetString("EXPORT_BASE_NAME"),
		},
		Session: Session{
			DBPath:        v.GetString("SESSION_DB_PATH"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			Secret:        v.GetString("SESSION_SECRET"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Store: Store{
			Port:          v.GetInt32("STORE_PORT"),
			Host:          v.GetString("STORE_HOST"),
			DatabasePath:  v.GetString("STORE_DATABASE_PATH"),
			SeedCount:     v.GetInt("STORE_SEED_COUNT"),
			ResetSchedule: v.GetString("STORE_RESET_SCHEDULE"),
			ReadOnly:      v.GetBool("STORE_READ_ONLY"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
