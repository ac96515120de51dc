package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "DB_TYPE", "DB_DATABASE", "DB_USER", "DB_PORT",
		"AUTHZ_URL", "AUTHZ_CLIENT_ID", "LEADS_REQUIRE_TAX_ID", "WEBHOOK_DEFAULT_TIMEOUT_MS",
		"LEADS_RESEND_CONCURRENCY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "landing.db", cfg.DBDatabase)
	assert.Equal(t, 10000, cfg.WebhookDefaultTimeoutMs)
	assert.Equal(t, 4, cfg.LeadsResendConcurrency)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "landing.yaml")
	content := `
port: "8080"
database:
  type: mysql
  database: landing
  user: app
leads:
  requireTaxId: true
s3:
  bucket: backups
  region: us-east-1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port, "env wins over file")
	assert.Equal(t, "mysql", cfg.DBType)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.True(t, cfg.LeadsRequireTaxID)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)

	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_DATABASE", "landing")
	_, err := Load("")
	assert.ErrorContains(t, err, "DB_USER")

	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("AUTHZ_URL", "http://authorizer:8080")
	_, err = Load("")
	assert.ErrorContains(t, err, "AUTHZ_URL and AUTHZ_CLIENT_ID")
}
