package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artofworkflows/platform/internal/models"
	"github.com/artofworkflows/platform/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrPostTitleRequired    = errors.New("title is required")
	ErrPostContentRequired  = errors.New("content is required")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrCommentEmpty         = errors.New("comment content is required")
	ErrParentNotTopLevel    = errors.New("replies can only target a top-level comment")
	ErrParentWrongPost      = errors.New("parent comment belongs to a different post")
	ErrNotCommentAuthor     = errors.New("only the comment author or an admin can delete a comment")
	ErrInvalidBlogCategory  = errors.New("unknown blog category")
)

var blogCategories = map[models.BlogCategory]bool{
	models.BlogCategoryAutomation: true,
	models.BlogCategoryTutorial:   true,
	models.BlogCategoryCaseStudy:  true,
	models.BlogCategoryNews:       true,
}

// BlogService handles blog post and comment business logic.
type BlogService struct {
	blogRepo repository.BlogRepository
}

// NewBlogService creates a new BlogService.
func NewBlogService(blogRepo repository.BlogRepository) *BlogService {
	return &BlogService{blogRepo: blogRepo}
}

// PostInput holds the fields for creating or updating a blog post.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
	Category string
}

// CreatePost creates a blog post.
func (s *BlogService) CreatePost(input PostInput) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	if err := applyPostInput(post, input); err != nil {
		return nil, err
	}

	if err := s.blogRepo.CreatePost(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

// GetPost retrieves a blog post by ID.
func (s *BlogService) GetPost(id uint64) (*models.BlogPost, error) {
	post, err := s.blogRepo.FindPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// ListPosts returns all blog posts, newest first.
func (s *BlogService) ListPosts() ([]models.BlogPost, error) {
	posts, err := s.blogRepo.ListPosts()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost replaces a post's fields.
func (s *BlogService) UpdatePost(id uint64, input PostInput) (*models.BlogPost, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}

	if err := applyPostInput(post, input); err != nil {
		return nil, err
	}

	if err := s.blogRepo.UpdatePost(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// DeletePost removes a post and its comment thread.
func (s *BlogService) DeletePost(id uint64) error {
	if _, err := s.GetPost(id); err != nil {
		return err
	}
	if err := s.blogRepo.DeletePost(id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func applyPostInput(post *models.BlogPost, input PostInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrPostTitleRequired
	}
	if strings.TrimSpace(input.Content) == "" {
		return ErrPostContentRequired
	}

	category := models.BlogCategory(input.Category)
	if input.Category != "" && !blogCategories[category] {
		return ErrInvalidBlogCategory
	}

	post.Title = title
	post.Content = input.Content
	post.ImageURL = input.ImageURL
	post.Category = category
	return nil
}

// CommentInput holds the fields for creating a comment or reply.
type CommentInput struct {
	PostID   uint64
	ParentID *uint64
	Content  string
}

// CreateComment adds a comment to a post. Replies must reference a
// top-level comment on the same post, keeping threads one level deep.
func (s *BlogService) CreateComment(userID uint64, input CommentInput) (*models.BlogComment, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrCommentEmpty
	}

	if _, err := s.GetPost(input.PostID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.blogRepo.FindCommentByID(*input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, fmt.Errorf("failed to find parent comment: %w", err)
		}
		if parent.ParentID != nil {
			return nil, ErrParentNotTopLevel
		}
		if parent.PostID != input.PostID {
			return nil, ErrParentWrongPost
		}
	}

	comment := &models.BlogComment{
		PostID:   input.PostID,
		UserID:   userID,
		ParentID: input.ParentID,
		Content:  input.Content,
	}

	if err := s.blogRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListComments returns all comments for a post, oldest first.
func (s *BlogService) ListComments(postID uint64) ([]models.BlogComment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}

	comments, err := s.blogRepo.ListCommentsByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment if the actor is its author or an admin.
func (s *BlogService) DeleteComment(id uint64, actor *models.User) error {
	comment, err := s.blogRepo.FindCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.UserID != actor.ID && !actor.IsSuperuser {
		return ErrNotCommentAuthor
	}

	if err := s.blogRepo.DeleteComment(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}
