package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Store  StoreConfig  `mapstructure:"store" validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StoreConfig selects and configures the keyed-store backend.
// The memory backend needs no URL; the postgres backend requires one.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory postgres"`
	URL     string `mapstructure:"url" validate:"required_if=Backend postgres,omitempty,url"`
}

// AuthConfig contains the settings of the identity adapter. Token issuance
// itself belongs to the external identity provider; the engine only
// verifies signatures.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}
