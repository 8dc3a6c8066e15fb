package storyclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jaramgle/storyclient/schema"
)

// StoriesService manages the caller's generated stories and storybooks.
type StoriesService struct {
	client *Client
}

// List returns the caller's stories.
func (s *StoriesService) List(ctx context.Context) ([]schema.StorySummary, error) {
	var stories []schema.StorySummary
	if err := s.client.call(ctx, http.MethodGet, "stories", nil, nil, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// Get returns one story with its generated content.
func (s *StoriesService) Get(ctx context.Context, id int64) (*schema.StoryDetail, error) {
	story := &schema.StoryDetail{}
	if err := s.client.call(ctx, http.MethodGet, fmt.Sprintf("stories/%d", id), nil, nil, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Create submits story-generation parameters. The params payload is passed
// through opaquely; the backend owns its shape.
func (s *StoriesService) Create(ctx context.Context, params json.RawMessage) (*schema.StoryRef, error) {
	ref := &schema.StoryRef{}
	if err := s.client.call(ctx, http.MethodPost, "stories", nil, params, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// Delete removes one story.
func (s *StoriesService) Delete(ctx context.Context, id int64) error {
	return s.client.call(ctx, http.MethodDelete, fmt.Sprintf("stories/%d", id), nil, nil, nil)
}

// BulkDelete removes multiple stories in one call.
func (s *StoriesService) BulkDelete(ctx context.Context, ids []int64) error {
	body := map[string][]int64{"storyIds": ids}
	return s.client.call(ctx, http.MethodPost, "stories/bulk-delete", nil, body, nil)
}

// StorybookPages returns the narrated pages of a story's storybook view.
func (s *StoriesService) StorybookPages(ctx context.Context, id int64) ([]schema.StorybookPage, error) {
	var pages []schema.StorybookPage
	path := fmt.Sprintf("stories/%d/storybook/pages", id)
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// GenerateAudio requests audio narration for one storybook page and returns
// the updated page.
func (s *StoriesService) GenerateAudio(ctx context.Context, storyID, pageID int64, params json.RawMessage) (*schema.StorybookPage, error) {
	page := &schema.StorybookPage{}
	path := fmt.Sprintf("stories/%d/storybook/pages/%d/audio", storyID, pageID)
	if err := s.client.call(ctx, http.MethodPost, path, nil, params, page); err != nil {
		return nil, err
	}
	return page, nil
}

// Share publishes a story to the public board and returns its share slug.
func (s *StoriesService) Share(ctx context.Context, id int64) (*schema.StoryDetail, error) {
	story := &schema.StoryDetail{}
	if err := s.client.call(ctx, http.MethodPost, fmt.Sprintf("stories/%d/share", id), nil, nil, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Unshare removes a story from the public board.
func (s *StoriesService) Unshare(ctx context.Context, id int64) error {
	return s.client.call(ctx, http.MethodDelete, fmt.Sprintf("stories/%d/share", id), nil, nil, nil)
}
