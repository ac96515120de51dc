// Package webhook posts captured leads to the configured external endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/metrics"
	"github.com/localnerve/jam-build-landing/internal/types"
	"go.uber.org/zap"
)

// Outcome classifies one delivery attempt
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeRejected        Outcome = "rejected"
	OutcomeTimeout         Outcome = "timeout"
	OutcomeUnreachable     Outcome = "unreachable"
	OutcomeInvalidResponse Outcome = "invalid_response"
	OutcomeSkipped         Outcome = "skipped"
)

// maxResponseBody bounds how much of a response is kept on the lead
const maxResponseBody = 64 << 10

// Payload is the body posted for a lead. Every key is always present,
// telemetry the lead lacks is sent as an empty string.
type Payload struct {
	ID          string `json:"id"`
	Name        string `json:"nome"`
	Phone       string `json:"whatsapp"`
	HasTaxID    bool   `json:"tem_cnpj"`
	StoreType   string `json:"tipo_loja"`
	SubmittedAt string `json:"data_envio"`
	Source      string `json:"origem"`
	Device      string `json:"dispositivo"`
	Location    string `json:"localizacao"`
}

// NewPayload maps a lead onto the webhook body
func NewPayload(l documents.Lead) Payload {
	return Payload{
		ID:          l.ID,
		Name:        l.Name,
		Phone:       l.Phone,
		HasTaxID:    l.HasTaxID(),
		StoreType:   l.StoreType,
		SubmittedAt: l.SubmittedAt.UTC().Format(time.RFC3339Nano),
		Source:      l.Source,
		Device:      l.Device,
		Location:    l.Location,
	}
}

// Result is the outcome of one delivery attempt
type Result struct {
	Outcome    Outcome
	HTTPStatus int
	RemoteID   *string
	Raw        json.RawMessage
	Err        string
	Duration   time.Duration
}

func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

// TimedOut distinguishes a timeout from every other failure
func (r Result) TimedOut() bool {
	return r.Outcome == OutcomeTimeout
}

// Response converts the result into the record kept on the lead
func (r Result) Response() *documents.WebhookResponse {
	var remote *types.FlexString
	if r.RemoteID != nil {
		id := types.FlexString(*r.RemoteID)
		remote = &id
	}
	return &documents.WebhookResponse{
		RemoteID:   remote,
		HTTPStatus: r.HTTPStatus,
		Raw:        r.Raw,
		Error:      r.Err,
	}
}

// Client delivers payloads. The zero timeout fallback is documents.DefaultWebhookTimeout.
type Client struct {
	http            *http.Client
	log             *zap.Logger
	fallbackTimeout time.Duration
}

func NewClient(fallbackTimeout time.Duration, log *zap.Logger) *Client {
	if fallbackTimeout <= 0 {
		fallbackTimeout = documents.DefaultWebhookTimeout
	}
	return &Client{
		http:            &http.Client{},
		log:             log.Named("webhook"),
		fallbackTimeout: fallbackTimeout,
	}
}

// Send posts payload to cfg.URL and classifies the result. It never returns an error,
// failures are reported on the Result.
func (c *Client) Send(ctx context.Context, cfg documents.WebhookConfig, payload any) Result {
	start := time.Now()
	res := c.send(ctx, cfg, payload)
	res.Duration = time.Since(start)

	metrics.WebhookDeliveries.WithLabelValues(string(res.Outcome)).Inc()
	metrics.WebhookDuration.Observe(res.Duration.Seconds())

	fields := []zap.Field{
		zap.String("outcome", string(res.Outcome)),
		zap.Int("status", res.HTTPStatus),
		zap.Duration("duration", res.Duration),
	}
	if res.Success() {
		c.log.Info("webhook delivered", fields...)
	} else {
		c.log.Warn("webhook delivery failed", append(fields, zap.String("error", res.Err))...)
	}
	return res
}

func (c *Client) send(ctx context.Context, cfg documents.WebhookConfig, payload any) Result {
	if cfg.URL == "" {
		return Result{Outcome: OutcomeSkipped, Err: "webhook url is not configured"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Outcome: OutcomeInvalidResponse, Err: fmt.Sprintf("encode payload: %v", err)}
	}

	timeout := cfg.TimeoutDuration(c.fallbackTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Result{Outcome: OutcomeUnreachable, Err: err.Error()}
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{Outcome: OutcomeTimeout, Err: fmt.Sprintf("timeout after %dms", timeout.Milliseconds())}
		}
		return Result{Outcome: OutcomeUnreachable, Err: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{Outcome: OutcomeTimeout, HTTPStatus: resp.StatusCode, Err: fmt.Sprintf("timeout after %dms", timeout.Milliseconds())}
		}
		return Result{Outcome: OutcomeUnreachable, HTTPStatus: resp.StatusCode, Err: err.Error()}
	}

	return classify(resp.StatusCode, data)
}

func classify(status int, data []byte) Result {
	ok := status >= 200 && status < 300
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) == 0 {
		if ok {
			return Result{Outcome: OutcomeSuccess, HTTPStatus: status}
		}
		return Result{Outcome: OutcomeRejected, HTTPStatus: status, Err: rejection(status, nil)}
	}

	if !json.Valid(trimmed) {
		raw, _ := json.Marshal(string(trimmed))
		if ok {
			return Result{
				Outcome:    OutcomeInvalidResponse,
				HTTPStatus: status,
				Raw:        raw,
				Err:        fmt.Sprintf("HTTP %d: response is not JSON", status),
			}
		}
		return Result{Outcome: OutcomeRejected, HTTPStatus: status, Raw: raw, Err: rejection(status, nil)}
	}

	var fields map[string]any
	_ = json.Unmarshal(trimmed, &fields)

	if !ok {
		return Result{Outcome: OutcomeRejected, HTTPStatus: status, Raw: json.RawMessage(trimmed), Err: rejection(status, fields)}
	}
	return Result{
		Outcome:    OutcomeSuccess,
		HTTPStatus: status,
		RemoteID:   remoteID(fields),
		Raw:        json.RawMessage(trimmed),
	}
}

func rejection(status int, fields map[string]any) string {
	msg := "webhook rejected the lead"
	if m, ok := fields["message"].(string); ok && strings.TrimSpace(m) != "" {
		msg = m
	}
	return fmt.Sprintf("HTTP %d: %s", status, msg)
}

// remoteID reads id_lead, then id, accepting strings and numbers
func remoteID(fields map[string]any) *string {
	for _, key := range []string{"id_lead", "id"} {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return &v
			}
		case float64:
			s := strconv.FormatFloat(v, 'f', -1, 64)
			return &s
		}
	}
	return nil
}
