package schema

import (
	"encoding/json"
	"time"
)

// TokenPair is the refresh exchange response. An absent AccessToken means the
// exchange failed regardless of HTTP status.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Profile describes the authenticated user as returned by GET /me.
type Profile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Provider string `json:"provider"`
	Role     string `json:"role"`
}

// StorySummary is a single entry of the caller's story list.
type StorySummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	ShareSlug     string    `json:"shareSlug,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StoryDetail carries a generated story. Content is the generated story
// payload, passed through opaquely.
type StoryDetail struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Status    string          `json:"status"`
	ShareSlug string          `json:"shareSlug,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// StoryRef identifies a newly created story.
type StoryRef struct {
	ID int64 `json:"id"`
}

// StorybookPage is one narrated page of a storybook view.
type StorybookPage struct {
	ID         int64  `json:"id"`
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
	ImageURL   string `json:"imageUrl,omitempty"`
	AudioURL   string `json:"audioUrl,omitempty"`
}

// Character is a user-defined story character.
type Character struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Public      bool   `json:"public,omitempty"`
}

// CharacterUpsert is the create/update payload for a character.
type CharacterUpsert struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// StorageQuota reports per-user storage usage limits.
type StorageQuota struct {
	UsedBytes  int64 `json:"usedBytes"`
	LimitBytes int64 `json:"limitBytes"`
	StoryCount int   `json:"storyCount"`
	StoryLimit int   `json:"storyLimit"`
}

// Wallet is the caller's heart balance.
type Wallet struct {
	HeartBalance int64 `json:"heartBalance"`
}

// Product is a purchasable heart bundle.
type Product struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Hearts   int    `json:"hearts"`
	Price    int64  `json:"price"`
	Currency string `json:"currency,omitempty"`
}

// Order is a heart purchase order.
type Order struct {
	ID          int64     `json:"id"`
	ProductCode string    `json:"productCode"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HeartTransaction records a heart balance change.
type HeartTransaction struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"userId"`
	Delta   int    `json:"delta"`
	Reason  string `json:"reason,omitempty"`
	Balance int64  `json:"balance"`
}

// SharedStorySummary is a public board entry.
type SharedStorySummary struct {
	Title     string    `json:"title"`
	ShareSlug string    `json:"shareSlug"`
	Author    string    `json:"author,omitempty"`
	SharedAt  time.Time `json:"sharedAt"`
}

// Comment is a comment on a shared story.
type Comment struct {
	ID              int64     `json:"id"`
	Content         string    `json:"content"`
	Author          string    `json:"author,omitempty"`
	ParentCommentID *int64    `json:"parentCommentId,omitempty"`
	LikeCount       int       `json:"likeCount"`
	Liked           bool      `json:"liked"`
	Deleted         bool      `json:"deleted,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CommentLike is the result of toggling a comment like.
type CommentLike struct {
	CommentID int64 `json:"commentId"`
	LikeCount int   `json:"likeCount"`
	Liked     bool  `json:"liked"`
}

// Page is the paged list envelope used by admin and billing listings.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Health is the backend health probe response.
type Health struct {
	Status string `json:"status"`
}

// AIHealth is the story-generation service health probe response.
type AIHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// AdminUser is the admin console view of a user.
type AdminUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Deleted      bool      `json:"deleted"`
	HeartBalance int64     `json:"heartBalance"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminUserPatch updates user moderation fields; nil fields are left unchanged.
type AdminUserPatch struct {
	Status  *string `json:"status,omitempty"`
	Deleted *bool   `json:"deleted,omitempty"`
}

// AdminStory is the admin console view of a story.
type AdminStory struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	OwnerEmail string    `json:"ownerEmail,omitempty"`
	Status     string    `json:"status"`
	Deleted    bool      `json:"deleted"`
	ShareSlug  string    `json:"shareSlug,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AdminStoryPatch updates story moderation fields; nil fields are left unchanged.
type AdminStoryPatch struct {
	Status  *string `json:"status,omitempty"`
	Deleted *bool   `json:"deleted,omitempty"`
	Shared  *bool   `json:"shared,omitempty"`
}

// AdminOrder is the admin console view of an order.
type AdminOrder struct {
	ID         int64     `json:"id"`
	UserEmail  string    `json:"userEmail,omitempty"`
	Status     string    `json:"status"`
	Amount     int64     `json:"amount"`
	PgProvider string    `json:"pgProvider,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AdminComment is the admin console view of a board comment.
type AdminComment struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"createdAt"`
}
