package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Firestore  FirestoreConfig
	Gemini     GeminiConfig
	Auth       AuthConfig
	LocalStore LocalStoreConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type FirestoreConfig struct {
	ProjectID string
}

type GeminiConfig struct {
	APIKey string
}

type AuthConfig struct {
	APIKey string
}

type LocalStoreConfig struct {
	Path string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from .env (when present) and the process
// environment, with the environment taking precedence.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// A missing .env is fine on Cloud Run where everything arrives via the
	// environment.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Firestore: FirestoreConfig{
			ProjectID: viper.GetString("FIRESTORE_PROJECT_ID"),
		},
		Gemini: GeminiConfig{
			APIKey: viper.GetString("GEMINI_API_KEY"),
		},
		Auth: AuthConfig{
			APIKey: viper.GetString("AUTH_API_KEY"),
		},
		LocalStore: LocalStoreConfig{
			Path: viper.GetString("LOCAL_STORE_PATH"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.LocalStore.Path == "" {
		cfg.LocalStore.Path = "./data/localstore"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Firestore.ProjectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required")
	}

	return cfg, nil
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
