package repository

import (
	"errors"
	"fmt"

	"github.com/artofworkflows/platform/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDeleteComment is returned when removing a comment thread fails inside the transaction.
	ErrDeleteComment = errors.New("blog repository: delete comment failed")
)

// GormBlogRepository is a GORM implementation of BlogRepository
type GormBlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new BlogRepository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &GormBlogRepository{db: db}
}

// CreatePost creates a new blog post
func (r *GormBlogRepository) CreatePost(post *models.BlogPost) error {
	return r.db.Create(post).Error
}

// FindPostByID finds a blog post by ID
func (r *GormBlogRepository) FindPostByID(id uint64) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts retrieves blog posts newest first
func (r *GormBlogRepository) ListPosts() ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := r.db.Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates a blog post
func (r *GormBlogRepository) UpdatePost(post *models.BlogPost) error {
	return r.db.Save(post).Error
}

// DeletePost soft deletes a blog post and its comments
func (r *GormBlogRepository) DeletePost(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.BlogComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BlogPost{}, id).Error
	})
}

// CreateComment creates a comment or reply
func (r *GormBlogRepository) CreateComment(comment *models.BlogComment) error {
	return r.db.Create(comment).Error
}

// FindCommentByID finds a comment by ID
func (r *GormBlogRepository) FindCommentByID(id uint64) (*models.BlogComment, error) {
	var comment models.BlogComment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByPost returns a post's comments oldest first with authors preloaded
func (r *GormBlogRepository) ListCommentsByPost(postID uint64) ([]models.BlogComment, error) {
	var comments []models.BlogComment
	err := r.db.
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment deletes a comment; deleting a root comment also removes its replies
func (r *GormBlogRepository) DeleteComment(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&models.BlogComment{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteComment, err)
		}
		if err := tx.Delete(&models.BlogComment{}, id).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteComment, err)
		}
		return nil
	})
}
