package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvFile(t *testing.T) {
	for _, key := range []string{"APP_PORT", "JWT_SECRET", "JWT_ACCESS_EXPIRY", "JWT_REFRESH_EXPIRY", "KAFKA_BROKERS", "KAFKA_TOPIC", "DB_NAME", "DB_SSLMODE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "APP_PORT=9090\nCORS_ALLOWED_ORIGINS=https://clinic.example\nJWT_SECRET=s3cret\nJWT_ACCESS_EXPIRY=30m\nKAFKA_BROKERS=k1:9092, k2:9092\nDB_NAME=pharmacy\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	cfg, err := load(viper.New(), file)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.App.Port)
	require.Equal(t, "pharmacy", cfg.DB.Name)
	require.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	require.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "prescriptions", cfg.Kafka.Topic)
	require.Equal(t, "disable", cfg.DB.SSLMode)
	require.Equal(t, []string{"https://clinic.example"}, cfg.App.AllowedOrigins)
}

func TestLoad_MissingFileFallsBackToEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_ENV", "production")

	cfg, err := load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.JWT.Secret)
	require.True(t, cfg.App.IsProduction())
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	require.Empty(t, cfg.Kafka.Brokers)
	require.Equal(t, []string{"*"}, cfg.App.AllowedOrigins)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorIs(t, err, ErrMissingJWTSecret)
}
