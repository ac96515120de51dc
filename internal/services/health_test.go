package services

import (
	"context"
	"net"
	"testing"

	"github.com/localnerve/jam-build-landing/internal/config"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckDatabaseOnly(t *testing.T) {
	cfg := &config.Config{DBType: "sqlite", DBDatabase: ":memory:"}
	res := HealthCheck(context.Background(), cfg, testutil.NewDB(t), documents.DefaultWebhookConfig(), testutil.NewLogger(t))

	assert.True(t, res.Healthy(), res.ErrorMessage)
	assert.Equal(t, "ok", res.Database)
	assert.Equal(t, "disabled", res.Authorizer)
	assert.Equal(t, "inactive", res.Webhook)
}

func TestHealthCheckWebhookHost(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	hook := documents.DefaultWebhookConfig()
	hook.Active = true
	hook.URL = "http://" + ln.Addr().String() + "/hook?token=secret"

	cfg := &config.Config{DBType: "sqlite"}
	res := HealthCheck(context.Background(), cfg, testutil.NewDB(t), hook, testutil.NewLogger(t))
	assert.True(t, res.Healthy(), res.ErrorMessage)
	assert.Equal(t, "ok", res.Webhook)
	assert.Equal(t, ln.Addr().String(), res.Details["webhook_host"])

	ln.Close()
	res = HealthCheck(context.Background(), cfg, testutil.NewDB(t), hook, testutil.NewLogger(t))
	assert.False(t, res.Healthy())
	assert.Equal(t, "unreachable", res.Webhook)
	assert.Contains(t, res.ErrorMessage, "webhook ping")
}

func TestAuthServiceDisabled(t *testing.T) {
	assert.Nil(t, NewAuthService(&config.Config{}, testutil.NewLogger(t)))

	svc := NewAuthService(&config.Config{AuthzURL: "http://127.0.0.1:1", AuthzClientID: "id"}, testutil.NewLogger(t))
	require.NotNil(t, svc)
	assert.False(t, svc.Initialized())

	_, err := svc.ValidateSession(context.Background(), "http", "localhost", "cookie", []string{"admin"})
	assert.ErrorContains(t, err, "authorizer ping failed")
	assert.False(t, svc.Initialized())
}
