package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[server]
http_port = 8090

[database]
host = "db"
dbname = "reservations"
user = "smc"
password = "${TEST_RESERVATION_DB_PASSWORD}"

[lock]
driver = "memory"
wait_timeout_ms = 250

[menu_service]
url = "http://menu:8080"

[booking]
lead_days = 0

[booking.horizon]
enabled = true
days_ahead = 7

[[booking.horizon.targets]]
business_id = 1
service_id = 2
interval_minutes = 30
capacity = 4
`

func TestParse(t *testing.T) {
	t.Setenv("TEST_RESERVATION_DB_PASSWORD", "s3cret")

	cfg, err := Parse(sample)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "default kept")
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "host=db port=5432 user=smc password=s3cret dbname=reservations sslmode=disable", cfg.Database.DSN())

	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, LockDriverMemory, cfg.Lock.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Lock.WaitTimeout())
	assert.Equal(t, 10*time.Second, cfg.Lock.TTL())

	assert.Equal(t, 0, cfg.Booking.LeadDays)
	assert.Equal(t, "0 3 * * *", cfg.Booking.Horizon.Cron)
	require.Len(t, cfg.Booking.Horizon.Targets, 1)
	target := cfg.Booking.Horizon.Targets[0]
	assert.Equal(t, int64(1), target.BusinessID)
	require.NotNil(t, target.Capacity)
	assert.Equal(t, 4, *target.Capacity)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse(`
[storage]
driver = "memory"
[lock]
driver = "memory"
[menu_service]
url = "http://menu"
`)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		match string
	}{
		{
			name:  "UnknownStorage",
			data:  "[storage]\ndriver = \"sqlite\"\n[menu_service]\nurl = \"http://menu\"",
			match: "storage.driver",
		},
		{
			name:  "UnknownLock",
			data:  "[lock]\ndriver = \"etcd\"\n[menu_service]\nurl = \"http://menu\"",
			match: "lock.driver",
		},
		{
			name:  "MissingMenuURL",
			data:  "[storage]\ndriver = \"memory\"",
			match: "menu_service.url",
		},
		{
			name:  "NegativeLeadDays",
			data:  "[menu_service]\nurl = \"http://menu\"\n[booking]\nlead_days = -1",
			match: "lead_days",
		},
		{
			name:  "BadHorizonTarget",
			data:  "[menu_service]\nurl = \"http://menu\"\n[booking.horizon]\nenabled = true\n[[booking.horizon.targets]]\nbusiness_id = 1",
			match: "targets[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.match)
		})
	}

	t.Run("BrokenTOML", func(t *testing.T) {
		_, err := Parse("[server")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\ndriver = \"memory\"\n[lock]\ndriver = \"memory\"\n[menu_service]\nurl = \"http://menu\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
