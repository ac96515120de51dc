package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/localnerve/authorizer-go"
	"github.com/localnerve/jam-build-landing/internal/config"
	"github.com/localnerve/jam-build-landing/internal/utils"
	"go.uber.org/zap"
)

// AuthService validates authorizer sessions for the admin routes.
// The client is created on the first request, since the redirect url comes from the request host.
type AuthService struct {
	cfg *config.Config
	log *zap.Logger

	mu     sync.Mutex
	client *authorizer.AuthorizerClient
}

// NewAuthService returns nil when admin auth is not configured
func NewAuthService(cfg *config.Config, log *zap.Logger) *AuthService {
	if !cfg.AuthEnabled() {
		return nil
	}
	return &AuthService{cfg: cfg, log: log.Named("auth")}
}

// Initialized reports whether the authorizer client has been created
func (s *AuthService) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}

// init creates the client once. A failed attempt is retried on the next request.
func (s *AuthService) init(ctx context.Context, requestProtocol, requestHost string) (*authorizer.AuthorizerClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}

	if err := utils.PingAuthorizer(ctx, s.cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
	s.log.Info("initializing authorizer",
		zap.String("authorizerURL", s.cfg.AuthzURL),
		zap.String("clientID", s.cfg.AuthzClientID),
		zap.String("redirectURL", redirectURL))

	client, err := authorizer.NewAuthorizerClient(s.cfg.AuthzClientID, s.cfg.AuthzURL, redirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	s.client = client
	return client, nil
}

// ValidateSession checks a session cookie for the given roles and returns the session user
func (s *AuthService) ValidateSession(ctx context.Context, requestProtocol, requestHost, cookie string, roles []string) (any, error) {
	client, err := s.init(ctx, requestProtocol, requestHost)
	if err != nil {
		return nil, err
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}
	return res.User, nil
}
