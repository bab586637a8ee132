package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	// AdminUsername/AdminPassword bootstrap the first administrator
	// account on startup when no such user exists yet.
	AdminUsername string `mapstructure:"admin_username" yaml:"admin_username"`
	AdminPassword string `mapstructure:"admin_password" yaml:"admin_password"`

	// SubmitRateLimit caps public contact form submissions per minute.
	// 0 disables the limit.
	SubmitRateLimit int `mapstructure:"submit_rate_limit" yaml:"submit_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "lychee.db",
		LogLevel:          "info",
		JWTIssuer:         "lychee",
		JWTAudience:       "lychee",
		SubmitRateLimit:   10,
	}
}
