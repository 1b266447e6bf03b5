package dto

import (
	"time"

	"github.com/artofworkflows/platform/internal/models"
)

// BlogPostDTO represents a blog post in API responses
type BlogPostDTO struct {
	ID        uint64              `json:"id"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	ImageURL  string              `json:"image_url,omitempty"`
	Category  models.BlogCategory `json:"category,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CommentDTO represents a comment in API responses. Top-level comments
// carry their replies nested one level deep.
type CommentDTO struct {
	ID        uint64       `json:"id"`
	PostID    uint64       `json:"post_id"`
	ParentID  *uint64      `json:"parent_id"`
	Content   string       `json:"content"`
	UserEmail string       `json:"user_email"`
	UserName  string       `json:"user_name"`
	CreatedAt time.Time    `json:"created_at"`
	Replies   []CommentDTO `json:"replies,omitempty"`
}

// ToBlogPostDTO converts a BlogPost model
func ToBlogPostDTO(post models.BlogPost) BlogPostDTO {
	return BlogPostDTO{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Category:  post.Category,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// ToBlogPostDTOs converts a slice of posts
func ToBlogPostDTOs(posts []models.BlogPost) []BlogPostDTO {
	dtos := make([]BlogPostDTO, len(posts))
	for i, p := range posts {
		dtos[i] = ToBlogPostDTO(p)
	}
	return dtos
}

// ToCommentDTO converts a single comment without nesting.
func ToCommentDTO(comment models.BlogComment) CommentDTO {
	name := comment.User.FirstName
	if comment.User.LastName != "" {
		name += " " + comment.User.LastName
	}
	return CommentDTO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		ParentID:  comment.ParentID,
		Content:   comment.Content,
		UserEmail: comment.User.Email,
		UserName:  name,
		CreatedAt: comment.CreatedAt,
	}
}

// ToCommentTree arranges a flat, chronologically ordered comment list into
// top-level comments with one level of nested replies. Replies whose parent
// is itself a reply are attached to the nearest top-level ancestor's thread.
func ToCommentTree(comments []models.BlogComment) []CommentDTO {
	byID := make(map[uint64]*CommentDTO, len(comments))
	order := make([]uint64, 0, len(comments))
	parents := make(map[uint64]*uint64, len(comments))

	for _, c := range comments {
		d := ToCommentDTO(c)
		byID[c.ID] = &d
		order = append(order, c.ID)
		parents[c.ID] = c.ParentID
	}

	roots := make([]CommentDTO, 0, len(comments))
	rootIndex := make(map[uint64]int)

	for _, id := range order {
		node := byID[id]
		parentID := parents[id]

		if parentID == nil {
			roots = append(roots, *node)
			rootIndex[id] = len(roots) - 1
			continue
		}

		rootID := *parentID
		// Walk up in case the parent is itself a reply.
		for parents[rootID] != nil {
			rootID = *parents[rootID]
		}

		idx, ok := rootIndex[rootID]
		if !ok {
			// Orphaned reply; surface it as a root rather than dropping it.
			roots = append(roots, *node)
			rootIndex[id] = len(roots) - 1
			continue
		}
		roots[idx].Replies = append(roots[idx].Replies, *node)
	}

	return roots
}
