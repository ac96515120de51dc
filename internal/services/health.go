package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/localnerve/jam-build-landing/internal/config"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	Webhook      string            `json:"webhook"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every probed dependency answered
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

func (r *HealthCheckResult) fail(component, detailKey string, err error, log *zap.Logger) {
	r.Status = "unhealthy"
	r.Details[detailKey] = err.Error()
	msg := fmt.Sprintf("%s: %v", component, err)
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
	log.Warn("health check failed", zap.String("component", component), zap.Error(err))
}

// HealthCheck probes the database, the authorizer when admin auth is configured,
// and the webhook host when delivery is active.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, webhook documents.WebhookConfig, log *zap.Logger) HealthCheckResult {
	log = log.Named("health")
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.fail("database connection", "database_error", err, log)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.fail("database ping", "database_ping_error", err, log)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	switch {
	case !cfg.AuthEnabled():
		result.Authorizer = "disabled"
	default:
		if err := utils.PingAuthorizer(ctx, cfg.AuthzURL); err != nil {
			result.Authorizer = "unreachable"
			result.fail("authorizer ping", "authorizer_error", err, log)
		} else {
			result.Authorizer = "ok"
			result.Details["authorizer_url"] = cfg.AuthzURL
		}
	}

	switch {
	case !webhook.Enabled():
		result.Webhook = "inactive"
	default:
		if err := utils.PingWebhook(ctx, webhook.URL); err != nil {
			result.Webhook = "unreachable"
			result.fail("webhook ping", "webhook_error", err, log)
		} else {
			result.Webhook = "ok"
			result.Details["webhook_host"] = webhookHost(webhook.URL)
		}
	}

	if result.Healthy() {
		log.Info("health check passed")
	}
	return result
}

// webhookHost strips the path and query, which may carry tokens
func webhookHost(u string) string {
	rest := u
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	return rest
}
