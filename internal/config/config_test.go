package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Store:     StoreConfig{Driver: StoreDriverPostgres},
		JWT:       JWTConfig{Secret: "secret"},
		Analytics: AnalyticsConfig{FetchTimeout: 5 * time.Second},
		Scheduler: SchedulerConfig{DigestCron: "0 8 * * *", Timezone: "UTC"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Store.Driver = "sqlite"
	require.ErrorContains(t, cfg.Validate(), "STORE_DRIVER")

	cfg = validConfig()
	cfg.JWT.Secret = ""
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Scheduler.DigestCron = "every day"
	require.ErrorContains(t, cfg.Validate(), "ALERT_DIGEST_CRON")

	cfg = validConfig()
	cfg.Scheduler.DigestCron = ""
	cfg.Scheduler.Timezone = "Nowhere/Invalid"
	require.NoError(t, cfg.Validate(), "disabled digest ignores the timezone")
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " c ", ""}))
	require.Empty(t, splitList(nil))
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", Name: "n", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	require.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}
