package database

import (
	"context"
	"testing"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{"postgres", postgres.Dialector{}.Name(), false},
		{"", postgres.Dialector{}.Name(), false},
		{"mysql", mysql.Dialector{}.Name(), false},
		{"sqlite", sqlite.Dialector{}.Name(), false},
		{"oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := Dialector(&config.Config{DBDriver: tt.driver, DBSQLitePath: ":memory:"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestConnect_SQLiteMigrates(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBSQLitePath: ":memory:", DBAutoMigrate: true}

	db, err := Connect(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "%T table missing", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Email"))
}

func TestConfigurePool(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"), logger.Silent)
	require.NoError(t, err)

	require.NoError(t, configurePool(db, &config.Config{DBDriver: "postgres"}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, 25, sqlDB.Stats().MaxOpenConnections)
}

func TestGormLogger_LogMode(t *testing.T) {
	l := NewGormLogger(logger.Warn)
	quiet := l.LogMode(logger.Silent).(*CustomGormLogger)

	assert.Equal(t, logger.Silent, quiet.Config.LogLevel)
	assert.Equal(t, logger.Warn, l.Config.LogLevel)

	// Silent loggers never call fc.
	quiet.Trace(context.Background(), time.Now(), func() (string, int64) {
		t.Fatal("trace callback should not run when silent")
		return "", 0
	}, nil)
}
