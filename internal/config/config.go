package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	JWT    JWTConfig

	// Origins allowed to reach the REST surface and open websocket
	// connections. The inventory frontend lives on one of these.
	AllowedOrigins []string
}

var (
	ConfigInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type JWTConfig struct {
	Secret string
}

func LoadConfig() (*Config, error) {
	// Viper setup
	once.Do(func() {
		viper.SetDefault("STOCKCHAT_PORT", "3001")
		viper.SetDefault("STOCKCHAT_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("STOCKCHAT_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("STOCKCHAT_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("STOCKCHAT_JWT_SECRET", "secret")
		viper.SetDefault("STOCKCHAT_ALLOWED_ORIGINS", "http://localhost:3000")
		viper.AutomaticEnv()

		ConfigInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("STOCKCHAT_HOST"),
				Port:         viper.GetString("STOCKCHAT_PORT"),
				ReadTimeout:  viper.GetDuration("STOCKCHAT_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("STOCKCHAT_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("STOCKCHAT_IDLE_TIMEOUT"),
			},
			JWT: JWTConfig{
				Secret: viper.GetString("STOCKCHAT_JWT_SECRET"),
			},
			AllowedOrigins: splitOrigins(viper.GetString("STOCKCHAT_ALLOWED_ORIGINS")),
		}
	})

	return ConfigInstance, nil
}

func splitOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
