package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/testutil"
	"github.com/localnerve/jam-build-landing/internal/types"
	"github.com/localnerve/jam-build-landing/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config(url string, timeoutMs uint64) documents.WebhookConfig {
	cfg := documents.DefaultWebhookConfig()
	cfg.URL = url
	cfg.Active = true
	cfg.Timeout = types.FlexUint64(timeoutMs)
	return cfg
}

func lead() documents.Lead {
	return documents.Lead{
		ID:          "1718000000000abcdefghi",
		Name:        "Maria",
		Phone:       "11999999999",
		TaxID:       documents.TaxIDYes,
		StoreType:   "online",
		SubmittedAt: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		Source:      "instagram",
	}
}

func TestSendSuccessCapturesRemoteID(t *testing.T) {
	var got map[string]any
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id_lead":"crm-42","ok":true}`))
	}))
	defer srv.Close()

	cfg := config(srv.URL, 1000)
	cfg.Headers = map[string]string{"Authorization": "Bearer t"}

	client := webhook.NewClient(0, testutil.NewLogger(t))
	res := client.Send(context.Background(), cfg, webhook.NewPayload(lead()))

	require.True(t, res.Success(), res.Err)
	assert.Equal(t, http.StatusCreated, res.HTTPStatus)
	require.NotNil(t, res.RemoteID)
	assert.Equal(t, "crm-42", *res.RemoteID)
	assert.JSONEq(t, `{"id_lead":"crm-42","ok":true}`, string(res.Raw))

	assert.Equal(t, "Bearer t", headers.Get("Authorization"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, true, got["tem_cnpj"])
	assert.Equal(t, "Maria", got["nome"])
	assert.Equal(t, "online", got["tipo_loja"])
	assert.Equal(t, "2024-06-10T12:00:00Z", got["data_envio"])
}

func TestSendNumericIDAndEmptyBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/numeric", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 77}`))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := webhook.NewClient(0, testutil.NewLogger(t))

	res := client.Send(context.Background(), config(srv.URL+"/numeric", 1000), webhook.NewPayload(lead()))
	require.True(t, res.Success())
	require.NotNil(t, res.RemoteID)
	assert.Equal(t, "77", *res.RemoteID)

	res = client.Send(context.Background(), config(srv.URL+"/empty", 1000), webhook.NewPayload(lead()))
	assert.True(t, res.Success())
	assert.Nil(t, res.RemoteID)
	assert.Nil(t, res.Raw)
}

func TestSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"telefone duplicado"}`))
	}))
	defer srv.Close()

	res := webhook.NewClient(0, testutil.NewLogger(t)).Send(context.Background(), config(srv.URL, 1000), webhook.NewPayload(lead()))
	assert.Equal(t, webhook.OutcomeRejected, res.Outcome)
	assert.Equal(t, http.StatusUnprocessableEntity, res.HTTPStatus)
	assert.Equal(t, "HTTP 422: telefone duplicado", res.Err)
	assert.False(t, res.TimedOut())
}

func TestSendRejectedWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := webhook.NewClient(0, testutil.NewLogger(t)).Send(context.Background(), config(srv.URL, 1000), webhook.NewPayload(lead()))
	assert.Equal(t, webhook.OutcomeRejected, res.Outcome)
	assert.Equal(t, "HTTP 500: webhook rejected the lead", res.Err)
}

func TestSendInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>ok</html>`))
	}))
	defer srv.Close()

	res := webhook.NewClient(0, testutil.NewLogger(t)).Send(context.Background(), config(srv.URL, 1000), webhook.NewPayload(lead()))
	assert.Equal(t, webhook.OutcomeInvalidResponse, res.Outcome)
	assert.Equal(t, http.StatusOK, res.HTTPStatus)
	assert.False(t, res.Success())
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	res := webhook.NewClient(0, testutil.NewLogger(t)).Send(context.Background(), config(srv.URL, 100), webhook.NewPayload(lead()))
	elapsed := time.Since(start)

	assert.True(t, res.TimedOut())
	assert.Equal(t, "timeout after 100ms", res.Err)
	assert.Zero(t, res.HTTPStatus)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := webhook.NewClient(0, testutil.NewLogger(t)).Send(context.Background(), config(url, 1000), webhook.NewPayload(lead()))
	assert.Equal(t, webhook.OutcomeUnreachable, res.Outcome)
	assert.NotEmpty(t, res.Err)
	assert.False(t, res.TimedOut())
}

func TestPayloadAlwaysCarriesEveryKey(t *testing.T) {
	l := lead()
	l.Source = ""
	body, err := json.Marshal(webhook.NewPayload(l))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	for _, key := range []string{"id", "nome", "whatsapp", "tem_cnpj", "tipo_loja", "data_envio", "origem", "dispositivo", "localizacao"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "", fields["origem"])
	assert.Equal(t, true, fields["tem_cnpj"])
	assert.Equal(t, "2024-06-10T12:00:00Z", fields["data_envio"])
}
