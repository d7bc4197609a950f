package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/polyglottos/dataport/internal/storage"
)

type (
	Config struct {
		HTTP
		Storage
		API
		CloudSync
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Storage struct {
		Type         string // "local" or "cloud"
		FallbackType string // Optional secondary backend
		DatabasePath string
		SessionPath  string // Session file for the cloud backend
	}
	API struct {
		BaseURL string
		Token   string
		Timeout time.Duration
	}
	CloudSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 */6 * * *" = every 6 hours
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("storage_type", "local")
	v.SetDefault("storage_fallback_type", "")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("session_path", "")
	v.SetDefault("api_base_url", "http://localhost:3000/api")
	v.SetDefault("api_token", "")
	v.SetDefault("api_timeout", "5s")
	v.SetDefault("cloud_sync_enabled", false)
	v.SetDefault("cloud_sync_schedule", "0 */6 * * *") // Every 6 hours

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Storage: Storage{
			Type:         v.GetString("STORAGE_TYPE"),
			FallbackType: v.GetString("STORAGE_FALLBACK_TYPE"),
			DatabasePath: v.GetString("DATABASE_PATH"),
			SessionPath:  v.GetString("SESSION_PATH"),
		},
		API: API{
			BaseURL: v.GetString("API_BASE_URL"),
			Token:   v.GetString("API_TOKEN"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		CloudSync: CloudSync{
			Enabled:  v.GetBool("CLOUD_SYNC_ENABLED"),
			Schedule: v.GetString("CLOUD_SYNC_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

// StorageConfig maps the environment-driven settings onto the storage
// layer's own config type.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Type:         storage.Type(c.Storage.Type),
		FallbackType: storage.Type(c.Storage.FallbackType),
		DatabasePath: c.Storage.DatabasePath,
		SessionPath:  c.Storage.SessionPath,
		APIBaseURL:   c.API.BaseURL,
		APIToken:     c.API.Token,
		Timeout:      c.API.Timeout,
	}
}
