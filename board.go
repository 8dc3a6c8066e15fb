package storyclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jaramgle/storyclient/schema"
)

// BoardService covers the public sharing board: shared stories, their
// storybook pages, comments and likes.
type BoardService struct {
	client *Client
}

// SharedStories lists public board entries.
func (s *BoardService) SharedStories(ctx context.Context) ([]schema.SharedStorySummary, error) {
	var stories []schema.SharedStorySummary
	if err := s.client.call(ctx, http.MethodGet, "public/shared-stories", nil, nil, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// StorybookPages returns the storybook pages of a shared story.
func (s *BoardService) StorybookPages(ctx context.Context, slug string) ([]schema.StorybookPage, error) {
	var pages []schema.StorybookPage
	path := fmt.Sprintf("public/shared-stories/%s/storybook/pages", slug)
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// Comments lists the comments of a shared story.
func (s *BoardService) Comments(ctx context.Context, slug string) ([]schema.Comment, error) {
	var comments []schema.Comment
	path := fmt.Sprintf("public/shared-stories/%s/comments", slug)
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment; parentID nests it as a reply when non-nil.
func (s *BoardService) AddComment(ctx context.Context, slug, content string, parentID *int64) error {
	body := map[string]interface{}{"content": content}
	if parentID != nil {
		body["parent_comment_id"] = *parentID
	}
	path := fmt.Sprintf("public/shared-stories/%s/comments", slug)
	return s.client.call(ctx, http.MethodPost, path, nil, body, nil)
}

// UpdateComment edits one of the caller's comments.
func (s *BoardService) UpdateComment(ctx context.Context, slug string, commentID int64, content string) error {
	body := map[string]string{"content": content}
	path := fmt.Sprintf("public/shared-stories/%s/comments/%d", slug, commentID)
	return s.client.call(ctx, http.MethodPatch, path, nil, body, nil)
}

// DeleteComment removes one of the caller's comments.
func (s *BoardService) DeleteComment(ctx context.Context, slug string, commentID int64) error {
	path := fmt.Sprintf("public/shared-stories/%s/comments/%d", slug, commentID)
	return s.client.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ToggleLike flips the caller's like on a comment and returns the new count.
func (s *BoardService) ToggleLike(ctx context.Context, slug string, commentID int64) (*schema.CommentLike, error) {
	like := &schema.CommentLike{}
	path := fmt.Sprintf("public/shared-stories/%s/comments/%d/like", slug, commentID)
	if err := s.client.call(ctx, http.MethodPost, path, nil, nil, like); err != nil {
		return nil, err
	}
	return like, nil
}
