package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// BlogPost mirrors the backend blog post record.
type BlogPost struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment mirrors the backend comment record. Top-level comments carry their
// replies nested one level deep.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	ParentID  *int64    `json:"parent_id"`
	Content   string    `json:"content"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	Replies   []Comment `json:"replies,omitempty"`
}

// ListPublicPosts returns the public blog listing. Failures degrade to an
// empty list; public pages render an empty state rather than an error.
func (c *Client) ListPublicPosts(ctx context.Context) []BlogPost {
	var posts []BlogPost
	if err := c.do(ctx, http.MethodGet, "/blogs/public", nil, "", &posts); err != nil {
		return []BlogPost{}
	}
	return posts
}

// GetPublicPost returns one public post.
func (c *Client) GetPublicPost(ctx context.Context, id int64) (*BlogPost, error) {
	var post BlogPost
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/blogs/public/%d", id), nil, "", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns the authenticated blog listing.
func (c *Client) ListPosts(ctx context.Context) ([]BlogPost, error) {
	var posts []BlogPost
	if err := c.do(ctx, http.MethodGet, "/blogs", nil, "", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns one post from the authenticated surface.
func (c *Client) GetPost(ctx context.Context, id int64) (*BlogPost, error) {
	var post BlogPost
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/blogs/%d", id), nil, "", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// PostInput holds the fields for creating or replacing a post (admin only).
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	Category string `json:"category,omitempty"`
}

// CreatePost creates a post.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (*BlogPost, error) {
	body, contentType, err := jsonBody(input)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	var post BlogPost
	if err := c.do(ctx, http.MethodPost, "/blogs", body, contentType, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces a post's fields.
func (c *Client) UpdatePost(ctx context.Context, id int64, input PostInput) (*BlogPost, error) {
	body, contentType, err := jsonBody(input)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	var post BlogPost
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/blogs/%d", id), body, contentType, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post and its comments.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/blogs/%d", id), nil, "", nil)
}

// ListComments returns a post's threaded comment list.
func (c *Client) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/blogs/%d/comments", postID), nil, "", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment; a non-nil parentID makes it a reply.
func (c *Client) CreateComment(ctx context.Context, postID int64, parentID *int64, content string) (*Comment, error) {
	payload := map[string]any{
		"post_id":   postID,
		"parent_id": parentID,
		"content":   content,
	}
	body, contentType, err := jsonBody(payload)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	var comment Comment
	if err := c.do(ctx, http.MethodPost, "/comments", body, contentType, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment (author or admin).
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil, "", nil)
}
