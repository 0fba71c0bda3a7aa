package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Sales.ReceiptRetries)
	assert.Equal(t, 60*time.Second, cfg.Redis.ReportTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "Memory")
	v.Set("HTTP_PORT", "9090")
	v.Set("SALES_RECEIPT_RETRIES", "5")
	v.Set("REPORT_CACHE_TTL_SECONDS", "15")
	v.Set("DB_MIGRATE", "true")
	v.Set("DB_PORT", "no-es-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5, cfg.Sales.ReceiptRetries)
	assert.Equal(t, 15*time.Second, cfg.Redis.ReportTTL)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestFromViperRechazaDriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "sqlite")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViperProduccionExigeSecreto(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss word", DBName: "colibri", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%20word@db:5432/colibri?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
