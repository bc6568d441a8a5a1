package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `envconfig:"PORT" default:"3000"`

	// DATABASE_URLがあれば個別のPOSTGRES_*より優先
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"jaystore"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	FEURL    string `envconfig:"FE_URL" default:"http://localhost:5173"`
}

// Loadは.envと環境変数から設定を読む。.envが無いのはエラーにしない。
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// gorm用のDSN
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}
