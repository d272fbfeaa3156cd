// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/loopdex/internal/platform/config"
)

/*
TestLoad_Defaults parses an environment with only the required values.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/loopdex-test.db")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SAFE_ONLY", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "/tmp/loopdex-test.db", cfg.SQLitePath)
	assert.True(t, cfg.SafeOnly)
	assert.Equal(t, "./data/migrations", cfg.MigrationPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name: "postgres with url",
			cfg:  config.Config{StorageDriver: config.DriverPostgres, DatabaseURL: "postgres://localhost/loopdex"},
		},
		{
			name:    "postgres without url",
			cfg:     config.Config{StorageDriver: config.DriverPostgres},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "sqlite without path",
			cfg:     config.Config{StorageDriver: config.DriverSQLite},
			wantErr: "SQLITE_PATH",
		},
		{
			name:    "unknown driver",
			cfg:     config.Config{StorageDriver: "mysql"},
			wantErr: "unknown STORAGE_DRIVER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, (&config.Config{Environment: "development"}).IsDevelopment())
	assert.False(t, (&config.Config{Environment: "production"}).IsDevelopment())
}
