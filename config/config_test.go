package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_BundledFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_IDENTITY_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Suggestions.Limit)
	assert.True(t, cfg.Suggestions.Randomize)
	assert.Equal(t, 30*time.Second, cfg.Suggestions.CacheTTL)
	assert.Equal(t, 4, cfg.Dispatcher.Workers)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	content := []byte("database:\n  driver: sqlite\n  dsn: file.db\nsuggestions:\n  limit: 5\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_IDENTITY_SECRET", testSecret)
	t.Setenv("APP_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file.db", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.Suggestions.Limit)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, testSecret, cfg.Identity.Secret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database:    DatabaseConfig{Driver: "mysql"},
		Identity:    IdentityConfig{Secret: testSecret},
		Suggestions: SuggestionsConfig{Limit: 3},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	assert.NoError(t, cfg.Validate())

	cfg.Kafka = KafkaConfig{Enabled: true}
	assert.Error(t, cfg.Validate())
}

func TestLoad_RequiresIdentitySecret(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_IDENTITY_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity.secret")
}

func TestValidate_IdentitySecret(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "sqlite"}, Suggestions: SuggestionsConfig{Limit: 3}}
	assert.Error(t, cfg.Validate())

	cfg.Identity.Secret = "short"
	assert.Error(t, cfg.Validate())

	cfg.Identity.Secret = testSecret
	assert.NoError(t, cfg.Validate())
}
