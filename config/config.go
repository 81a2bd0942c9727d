package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`

	AccessSecret  string `mapstructure:"ACCESS_SECRET"`
	RefreshSecret string `mapstructure:"REFRESH_SECRET"`
	AdminKey      string `mapstructure:"ADMIN_KEY"`

	HTTPPort       string `mapstructure:"HTTP_PORT"`
	GRPCPort       string `mapstructure:"GRPC_PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	LogDir   string `mapstructure:"LOG_DIR"`
	LogDebug bool   `mapstructure:"LOG_DEBUG"`

	// ResetTimezone decides where the calendar day boundary falls.
	ResetTimezone string `mapstructure:"RESET_TIMEZONE"`
	ResetEnabled  bool   `mapstructure:"RESET_ENABLED"`
}

var keys = []string{
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"REDIS_ADDR",
	"ACCESS_SECRET", "REFRESH_SECRET", "ADMIN_KEY",
	"HTTP_PORT", "GRPC_PORT", "ALLOWED_ORIGINS",
	"LOG_DIR", "LOG_DEBUG",
	"RESET_TIMEZONE", "RESET_ENABLED",
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "habitrpg")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("GRPC_PORT", "127.0.0.1:9090")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RESET_TIMEZONE", "UTC")
	v.SetDefault("RESET_ENABLED", true)

	v.AutomaticEnv()
	// Bind explicitly so Unmarshal sees variables that have no entry in app.env.
	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Origins splits the comma separated ALLOWED_ORIGINS list.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Location resolves ResetTimezone.
func (c Config) Location() (*time.Location, error) {
	if c.ResetTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.ResetTimezone)
}

func (c Config) Validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("ACCESS_SECRET and REFRESH_SECRET must be set")
	}
	return nil
}
