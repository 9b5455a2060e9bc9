package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rageventura", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	assert.Equal(t, "rv_session", cfg.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.Lifetime)
	assert.True(t, cfg.Session.Secure)

	assert.Equal(t, "0.12", cfg.Cart.TaxRate)
	assert.Equal(t, "5.00", cfg.Cart.FlatShippingRate)
	assert.Equal(t, "100.00", cfg.Cart.FreeShippingAbove)

	assert.Equal(t, int64(5*1024*1024), cfg.Uploads.MaxAvatarSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RV_APP_PORT", "9090")
	t.Setenv("RV_DATABASE_HOST", "db.internal")
	t.Setenv("RV_SESSION_LIFETIME", "24h")
	t.Setenv("RV_CART_TAXRATE", "0.21")
	t.Setenv("RV_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, "0.21", cfg.Cart.TaxRate)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "rageventura",
		Password: "secret",
		DBName:   "rageventura",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=rageventura password=secret dbname=rageventura sslmode=disable",
		d.DSN())
}
