package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "SERVER_PORT", "MONGODB_URI", "MONGO_URI", "DB_HOST", "DB_DRIVER",
		"AUTH_MODE", "JWT_SIGNING_KEY", "EVENTS_DRIVER", "KAFKA_BROKERS", "CACHE_TTL",
		"MAINTENANCE_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_MODE", "header")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, AuthModeHeader, cfg.Auth.Mode)
	assert.Equal(t, EventsNone, cfg.Events.Driver)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.False(t, cfg.Maintenance.Enabled)
}

func TestLoad_MongoURIAliasSelectsMongo(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_MODE", "header")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
}

func TestLoad_PostgresWhenDBHostSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_MODE", "header")
	t.Setenv("DB_HOST", "db")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=importexporthub sslmode=disable", cfg.DB.GetDSN())
}

func TestLoad_JWTModeRequiresSigningKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()

	assert.ErrorContains(t, err, "JWT_SIGNING_KEY")
}

func TestLoad_MongoDriverRequiresURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_MODE", "header")
	t.Setenv("DB_DRIVER", "mongo")

	_, err := Load()

	assert.ErrorContains(t, err, "MONGODB_URI")
}

func TestLoad_KafkaBrokersList(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_MODE", "header")
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Events.KafkaBrokers)
}
