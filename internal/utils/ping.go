package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// PingTimeout bounds the dependency probes run by health checks
const PingTimeout = 1500 * time.Millisecond

// hostPort resolves the dial address of a service url, defaulting the port from the scheme
func hostPort(serviceURL string) (string, error) {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	host := parsedURL.Hostname()
	if host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", serviceURL)
	}

	port := parsedURL.Port()
	if port == "" {
		port = "80"
		if parsedURL.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(host, port), nil
}

// PingService checks that a TCP connection can be opened to the host of serviceURL
func PingService(ctx context.Context, serviceURL string, timeout time.Duration) error {
	address, err := hostPort(serviceURL)
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// PingAuthorizer checks if the Authorizer service is reachable
func PingAuthorizer(ctx context.Context, authzURL string) error {
	return PingService(ctx, authzURL, PingTimeout)
}

// PingWebhook checks that the webhook host accepts connections. No request is sent.
func PingWebhook(ctx context.Context, webhookURL string) error {
	return PingService(ctx, webhookURL, PingTimeout)
}
