package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load builds a viper instance seeded with Default(), then layers a
// config file (if configFile is non-empty) and KIRIND_-prefixed
// environment variables on top, in that ascending priority, the shape
// ValentinKolb-dKV's cmd/root.go wires viper with. Load binds no
// command-line flags; the viper instance it returns is created inside
// Load, after the configuration has already been unmarshalled.
func Load(configFile string) (Config, *viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")

	def := Default()
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetEnvPrefix("kirind")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, nil, err
	}
	return cfg, v, nil
}
