package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vamsiche/retail-sales-api/internal/db"
)

// ServerConfig holds HTTP server settings. MaxPageSize is the hard cap the
// transactions endpoint clamps oversized limits to.
type ServerConfig struct {
	Addr            string
	DefaultPageSize int
	MaxPageSize     int
	AllowedOrigins  []string
}

// Config is the full application configuration.
type Config struct {
	DB     db.Config
	Server ServerConfig
}

// DefaultServerConfig returns the server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8000",
		DefaultPageSize: 50,
		MaxPageSize:     200,
		AllowedOrigins:  []string{"*"},
	}
}

// Load reads config.yaml from configPath, with environment overrides.
func Load(configPath string) (Config, error) {
	cfg := Config{
		DB:     db.DefaultConfig(),
		Server: DefaultServerConfig(),
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("SALES")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("server.default_page_size")
	v.BindEnv("server.max_page_size")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.default_page_size") {
		cfg.Server.DefaultPageSize = v.GetInt("server.default_page_size")
	}
	if v.IsSet("server.max_page_size") {
		cfg.Server.MaxPageSize = v.GetInt("server.max_page_size")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}

	if cfg.Server.DefaultPageSize <= 0 || cfg.Server.MaxPageSize <= 0 {
		return Config{}, fmt.Errorf("page sizes must be positive (default=%d, max=%d)",
			cfg.Server.DefaultPageSize, cfg.Server.MaxPageSize)
	}
	if cfg.Server.DefaultPageSize > cfg.Server.MaxPageSize {
		cfg.Server.DefaultPageSize = cfg.Server.MaxPageSize
	}

	return cfg, nil
}
