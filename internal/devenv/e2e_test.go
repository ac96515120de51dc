//go:build e2e

// e2e_test.go
//
// Landing page content service with lead capture
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-landing.
// jam-build-landing is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-landing is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-landing.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package devenv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/localnerve/jam-build-landing/internal/database"
	"github.com/localnerve/jam-build-landing/internal/devenv"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/services"
	"github.com/localnerve/jam-build-landing/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// TestE2EWithFullStack runs the service image against the database and redis containers
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ctx := context.Background()
	env, err := devenv.Start(ctx, t, devenv.Options{
		Authorizer: os.Getenv("AUTHZ_IMAGE") != "",
		Service:    true,
	})
	require.NoError(t, err)
	t.Cleanup(env.Terminate)

	host, err := env.Service.Host(ctx)
	require.NoError(t, err)
	port, err := env.Service.MappedPort(ctx, "3000/tcp")
	require.NoError(t, err)
	baseURL := fmt.Sprintf("http://%s:%s", host, port.Port())

	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, env)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "landing_")
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/swagger/index.html")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("PublicPage", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/page")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.NotEmpty(t, page["sections"])
	})

	t.Run("LeadIsStoredWithoutWebhook", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"nome": "E2E", "whatsapp": "11987654321"})
		resp, err := http.Post(baseURL+"/api/leads", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var result map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, string(documents.StatusSkipped), result["status"])
	})

	t.Run("PrivateDocumentsStayPrivate", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/data/leads-data")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func testHealthCheck(t *testing.T, env *devenv.Environment) {
	ctx := context.Background()

	// Mapped ports on localhost, not the container network names
	cfg, err := env.Config(ctx)
	require.NoError(t, err)

	log := testutil.NewLogger(t)
	db, err := database.Connect(cfg, log, logger.Silent)
	require.NoError(t, err)
	defer database.Close(db)

	result := services.HealthCheck(ctx, cfg, db, documents.DefaultWebhookConfig(), log)
	assert.True(t, result.Healthy(), "%+v", result)
	t.Logf("Health check passed: status=%s, database=%s, authorizer=%s",
		result.Status, result.Database, result.Authorizer)
}
