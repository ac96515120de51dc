package documents

import (
	"encoding/json"
	"time"

	"github.com/localnerve/jam-build-landing/internal/types"
)

const (
	// DefaultWebhookTimeout applies when the stored timeout is zero
	DefaultWebhookTimeout = 10 * time.Second
	// MaxWebhookTimeout caps the stored timeout
	MaxWebhookTimeout = 5 * time.Minute
)

// WebhookConfig is the outbound lead delivery target
type WebhookConfig struct {
	URL     string            `json:"url"`
	Active  bool              `json:"ativo"`
	Headers map[string]string `json:"headers"`
	// Timeout in milliseconds, forms may send it as a string
	Timeout types.FlexUint64 `json:"timeout"`
}

func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		URL:     "",
		Active:  false,
		Headers: map[string]string{"Content-Type": "application/json"},
		Timeout: types.FlexUint64(DefaultWebhookTimeout.Milliseconds()),
	}
}

// UnmarshalJSON replaces the header map as a whole when one is stored
func (w *WebhookConfig) UnmarshalJSON(data []byte) error {
	type plain WebhookConfig
	p := plain(*w)
	p.Headers = nil

	err := json.Unmarshal(data, &p)
	if p.Headers == nil {
		p.Headers = w.Headers
	}
	*w = WebhookConfig(p)
	return err
}

// Enabled reports whether leads should be delivered
func (w WebhookConfig) Enabled() bool {
	return w.Active && w.URL != ""
}

// TimeoutDuration returns the configured timeout, or fallback when unset.
// Stored values beyond MaxWebhookTimeout are clamped to it.
func (w WebhookConfig) TimeoutDuration(fallback time.Duration) time.Duration {
	if w.Timeout == 0 {
		return fallback
	}
	if w.Timeout.Uint64() > uint64(MaxWebhookTimeout.Milliseconds()) {
		return MaxWebhookTimeout
	}
	return w.Timeout.Milliseconds()
}
