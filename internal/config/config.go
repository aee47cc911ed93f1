// Package config loads the on-disk/CLI configuration the kirind binary
// is started with. It is deliberately separate from engine.Config,
// which is the protocol-level "configuration bag" SPEC_FULL §6
// describes (handler factory, naming contexts, schema). This package
// is the ambient, operator-facing settings that choose an address, TLS
// material, and log verbosity, none of which the core spec mandates a
// format for.
package config

import "time"

// Config is the top-level configuration tree, loaded via viper from
// defaults, a TOML file, and environment variables (in that ascending
// priority). CLI flags are not layered in.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
}

// ServerConfig holds listener and TLS settings.
type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	TLSAddress     string        `mapstructure:"tls_address"`
	TLSCertFile    string        `mapstructure:"tls_cert_file"`
	TLSKeyFile     string        `mapstructure:"tls_key_file"`
	NamingContexts []string      `mapstructure:"naming_contexts"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds logging.Config's loaded equivalents, spelled as
// plain strings so they round-trip through TOML/env/flags before being
// parsed into logging.Level/logging.Format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when no file, env var, or flag
// overrides a setting.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:      "127.0.0.1:3890",
			ReadTimeout:  0,
			WriteTimeout: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
