package storyclient

import (
	"context"
	"fmt"
	"net/http"
	neturl "net/url"
	"strconv"

	"github.com/jaramgle/storyclient/schema"
)

// CharactersService manages the caller's custom characters and exposes the
// public character catalog.
type CharactersService struct {
	client *Client
}

// ListMine returns the caller's characters.
func (s *CharactersService) ListMine(ctx context.Context) ([]schema.Character, error) {
	var characters []schema.Character
	if err := s.client.call(ctx, http.MethodGet, "characters/me", nil, nil, &characters); err != nil {
		return nil, err
	}
	return characters, nil
}

// Create adds a character.
func (s *CharactersService) Create(ctx context.Context, upsert *schema.CharacterUpsert) (*schema.Character, error) {
	character := &schema.Character{}
	if err := s.client.call(ctx, http.MethodPost, "characters", nil, upsert, character); err != nil {
		return nil, err
	}
	return character, nil
}

// Update replaces a character.
func (s *CharactersService) Update(ctx context.Context, id int64, upsert *schema.CharacterUpsert) (*schema.Character, error) {
	character := &schema.Character{}
	if err := s.client.call(ctx, http.MethodPut, fmt.Sprintf("characters/%d", id), nil, upsert, character); err != nil {
		return nil, err
	}
	return character, nil
}

// Delete removes a character.
func (s *CharactersService) Delete(ctx context.Context, id int64) error {
	return s.client.call(ctx, http.MethodDelete, fmt.Sprintf("characters/%d", id), nil, nil, nil)
}

// PublicList returns the public character catalog.
func (s *CharactersService) PublicList(ctx context.Context) ([]schema.Character, error) {
	var characters []schema.Character
	if err := s.client.call(ctx, http.MethodGet, "public/characters", nil, nil, &characters); err != nil {
		return nil, err
	}
	return characters, nil
}

// PublicRandom returns count random public characters.
func (s *CharactersService) PublicRandom(ctx context.Context, count int) ([]schema.Character, error) {
	query := neturl.Values{"count": []string{strconv.Itoa(count)}}
	var characters []schema.Character
	if err := s.client.call(ctx, http.MethodGet, "public/characters/random", query, nil, &characters); err != nil {
		return nil, err
	}
	return characters, nil
}
