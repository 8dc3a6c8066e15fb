package storyclient

import (
	"context"
	"fmt"
	"net/http"
	neturl "net/url"
	"strconv"

	"github.com/jaramgle/storyclient/schema"
)

// AdminService covers the admin console: user, story, order and comment
// moderation. Every call requires an account with the ADMIN role; the backend
// answers 403 otherwise.
type AdminService struct {
	client *Client
}

func pageQuery(page, size int) neturl.Values {
	query := neturl.Values{}
	query.Set("page", strconv.Itoa(page))
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}
	return query
}

// Users returns a page of users.
func (s *AdminService) Users(ctx context.Context, page, size int) (*schema.Page[schema.AdminUser], error) {
	result := &schema.Page[schema.AdminUser]{}
	if err := s.client.call(ctx, http.MethodGet, "admin/users", pageQuery(page, size), nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

// PatchUser updates user moderation fields (status, soft-delete).
func (s *AdminService) PatchUser(ctx context.Context, userID int64, patch *schema.AdminUserPatch) (*schema.AdminUser, error) {
	user := &schema.AdminUser{}
	path := fmt.Sprintf("admin/users/%d", userID)
	if err := s.client.call(ctx, http.MethodPatch, path, nil, patch, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GrantHearts adjusts a user's heart balance by delta with an audit reason.
func (s *AdminService) GrantHearts(ctx context.Context, userID int64, delta int, reason string) (*schema.HeartTransaction, error) {
	body := map[string]interface{}{"delta": delta, "reason": reason}
	tx := &schema.HeartTransaction{}
	path := fmt.Sprintf("admin/users/%d/hearts", userID)
	if err := s.client.call(ctx, http.MethodPost, path, nil, body, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Stories returns a page of stories across all users.
func (s *AdminService) Stories(ctx context.Context, page, size int) (*schema.Page[schema.AdminStory], error) {
	result := &schema.Page[schema.AdminStory]{}
	if err := s.client.call(ctx, http.MethodGet, "admin/stories", pageQuery(page, size), nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

// PatchStory updates story moderation fields.
func (s *AdminService) PatchStory(ctx context.Context, storyID int64, patch *schema.AdminStoryPatch) (*schema.AdminStory, error) {
	story := &schema.AdminStory{}
	path := fmt.Sprintf("admin/stories/%d", storyID)
	if err := s.client.call(ctx, http.MethodPatch, path, nil, patch, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Orders returns a page of all purchase orders.
func (s *AdminService) Orders(ctx context.Context, page, size int) (*schema.Page[schema.AdminOrder], error) {
	result := &schema.Page[schema.AdminOrder]{}
	if err := s.client.call(ctx, http.MethodGet, "admin/billing/orders", pageQuery(page, size), nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

// CommentsForStory lists every comment of a shared story, including deleted
// ones.
func (s *AdminService) CommentsForStory(ctx context.Context, slug string) ([]schema.AdminComment, error) {
	var comments []schema.AdminComment
	path := fmt.Sprintf("admin/shared-stories/%s/comments", slug)
	if err := s.client.call(ctx, http.MethodGet, path, nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// PatchComment updates comment moderation fields (soft-delete / restore).
func (s *AdminService) PatchComment(ctx context.Context, commentID int64, deleted bool) (*schema.AdminComment, error) {
	body := map[string]bool{"deleted": deleted}
	comment := &schema.AdminComment{}
	path := fmt.Sprintf("admin/shared-comments/%d", commentID)
	if err := s.client.call(ctx, http.MethodPatch, path, nil, body, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
