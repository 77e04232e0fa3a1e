package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, SequenceBackendPostgres, cfg.Business.SequenceBackend)
	assert.Equal(t, RecalculationReset, cfg.Business.RecalculationPolicy)
	assert.Equal(t, OverpaymentAllow, cfg.Business.OverpaymentPolicy)
	assert.Equal(t, 30, cfg.Business.LeaveMonthDays)
	assert.Equal(t, 3, cfg.Business.PaymentRetries)
	assert.Equal(t, 5*time.Second, cfg.GetHealthTimeout())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RECALCULATION_POLICY", RecalculationPreserve)
	t.Setenv("OVERPAYMENT_POLICY", OverpaymentReject)
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, RecalculationPreserve, cfg.Business.RecalculationPolicy)
	assert.Equal(t, OverpaymentReject, cfg.Business.OverpaymentPolicy)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
}

func TestLoad_InvalidPolicy(t *testing.T) {
	t.Setenv("RECALCULATION_POLICY", "sometimes")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECALCULATION_POLICY")
}

func validConfig() Config {
	return Config{
		Server:    ServerConfig{Port: "8080", Env: "development"},
		Database:  DatabaseConfig{Host: "localhost"},
		Redis:     RedisConfig{Enabled: true},
		Scheduler: SchedulerConfig{Timezone: "UTC"},
		Business: BusinessConfig{
			SequenceBackend:     SequenceBackendPostgres,
			RecalculationPolicy: RecalculationReset,
			OverpaymentPolicy:   OverpaymentAllow,
			PaymentRetries:      3,
			LeaveMonthDays:      30,
			DefaultPageSize:     10,
			MaxPageSize:         100,
		},
		Health: HealthConfig{Timeout: "5s"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		errorContains string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:          "missing port",
			mutate:        func(c *Config) { c.Server.Port = "" },
			errorContains: "SERVER_PORT",
		},
		{
			name:          "production without secret",
			mutate:        func(c *Config) { c.Server.Env = "production" },
			errorContains: "JWT_SECRET",
		},
		{
			name: "redis sequence without redis",
			mutate: func(c *Config) {
				c.Business.SequenceBackend = SequenceBackendRedis
				c.Redis.Enabled = false
			},
			errorContains: "REDIS_ENABLED",
		},
		{
			name:          "unknown sequence backend",
			mutate:        func(c *Config) { c.Business.SequenceBackend = "memory" },
			errorContains: "SEQUENCE_BACKEND",
		},
		{
			name:          "zero leave month days",
			mutate:        func(c *Config) { c.Business.LeaveMonthDays = 0 },
			errorContains: "LEAVE_MONTH_DAYS",
		},
		{
			name:          "page size above max",
			mutate:        func(c *Config) { c.Business.DefaultPageSize = 500 },
			errorContains: "DEFAULT_PAGE_SIZE",
		},
		{
			name:          "bad health timeout",
			mutate:        func(c *Config) { c.Health.Timeout = "soon" },
			errorContains: "HEALTH_CHECK_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{URL: "postgres://u:p@db:5432/x?sslmode=disable"}
	assert.Equal(t, d.URL, d.DSN())

	d = DatabaseConfig{Host: "db", Port: "5432", Name: "settlements", User: "app", Password: "secret", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:secret@db:5432/settlements?sslmode=disable", d.DSN())
}
