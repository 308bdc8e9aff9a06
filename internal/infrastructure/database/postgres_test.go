package database

import (
	"io/fs"
	"testing"

	"pharmacy-clinic/config"
	"pharmacy-clinic/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "clinic",
		Password: "secret",
		Name:     "pharmacy",
		SSLMode:  "require",
		TimeZone: "UTC",
	})

	assert.Equal(t, "host=db user=clinic password=secret dbname=pharmacy port=5432 sslmode=require TimeZone=UTC", dsn)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLogLevel(true))
	assert.Equal(t, logger.Warn, gormLogLevel(false))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrations.FS, "*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
