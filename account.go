package storyclient

import (
	"context"
	"net/http"

	"github.com/jaramgle/storyclient/schema"
)

// AccountService covers the authenticated user's own account resources.
type AccountService struct {
	client *Client
}

// Me returns the authenticated user's profile.
func (s *AccountService) Me(ctx context.Context) (*schema.Profile, error) {
	profile := &schema.Profile{}
	if err := s.client.call(ctx, http.MethodGet, "me", nil, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// StorageQuota returns the user's storage usage and limits.
func (s *AccountService) StorageQuota(ctx context.Context) (*schema.StorageQuota, error) {
	quota := &schema.StorageQuota{}
	if err := s.client.call(ctx, http.MethodGet, "storage/me", nil, nil, quota); err != nil {
		return nil, err
	}
	return quota, nil
}

// Health probes the backend API.
func (s *AccountService) Health(ctx context.Context) (*schema.Health, error) {
	health := &schema.Health{}
	if err := s.client.call(ctx, http.MethodGet, "health", nil, nil, health); err != nil {
		return nil, err
	}
	return health, nil
}

// AIHealth probes the story-generation service behind the backend.
func (s *AccountService) AIHealth(ctx context.Context) (*schema.AIHealth, error) {
	health := &schema.AIHealth{}
	if err := s.client.call(ctx, http.MethodGet, "health/ai", nil, nil, health); err != nil {
		return nil, err
	}
	return health, nil
}
