package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Data     DataConfig     `yaml:"data"`
	Auth     AuthConfig     `yaml:"auth"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Dataset  DatasetConfig  `yaml:"dataset"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// DataConfig locates the flat-file stores (conversation transcripts, uploads).
type DataConfig struct {
	Dir string `yaml:"dir"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	// Users maps username to either a plaintext password or a bcrypt hash.
	Users map[string]string `yaml:"users"`
}

type WebhookConfig struct {
	URL            string `yaml:"url"`
	AuthHeader     string `yaml:"auth_header"`
	AuthValue      string `yaml:"auth_value"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type DatasetConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 8000},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "staffchat.db"},
		Data:     DataConfig{Dir: "./data"},
		Auth:     AuthConfig{JWTSecret: "staffchat-secret-2026"},
		Webhook:  WebhookConfig{TimeoutSeconds: 20},
		Dataset:  DatasetConfig{DefaultLimit: 200, MaxLimit: 1000},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/staffchat/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.DSN, "DB_DSN")
	envOverride(&c.Data.Dir, "CHAT_DATA_DIR")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Webhook.URL, "WEBHOOK_URL")
	envOverride(&c.Webhook.AuthHeader, "WEBHOOK_AUTH_HEADER")
	envOverride(&c.Webhook.AuthValue, "WEBHOOK_AUTH_VALUE")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(c.Database.DSN)
	case "mysql":
		dialector = mysql.Open(c.Database.DSN)
	case "postgres":
		dialector = postgres.Open(c.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
