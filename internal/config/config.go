package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Cart     CartConfig
	Uploads  UploadsConfig
	Log      LogConfig
}

type AppConfig struct {
	Name string
	Env  string // development, production
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig controls session issuing.
type SessionConfig struct {
	CookieName string
	Lifetime   time.Duration
	Secure     bool
}

// CartConfig holds the pricing rules applied to every cart.
type CartConfig struct {
	TaxRate           string // decimal fraction, e.g. "0.12"
	FlatShippingRate  string // charged when 0 < subtotal <= free threshold
	FreeShippingAbove string // subtotal threshold for free shipping
}

type UploadsConfig struct {
	Dir           string
	MaxAvatarSize int64 // bytes
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// DSN builds the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables with sane
// defaults. Keys use the RV_ prefix, e.g. RV_DATABASE_HOST.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "rageventura")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rageventura")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "rageventura")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.cookiename", "rv_session")
	v.SetDefault("session.lifetime", 7*24*time.Hour)
	v.SetDefault("session.secure", true)

	v.SetDefault("cart.taxrate", "0.12")
	v.SetDefault("cart.flatshippingrate", "5.00")
	v.SetDefault("cart.freeshippingabove", "100.00")

	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("uploads.maxavatarsize", int64(5*1024*1024))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
}
