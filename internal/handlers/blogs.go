package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/artofworkflows/platform/internal/dto"
	apierrors "github.com/artofworkflows/platform/internal/errors"
	"github.com/artofworkflows/platform/internal/middleware"
	"github.com/artofworkflows/platform/internal/services"
	"github.com/gin-gonic/gin"
)

// BlogHandler coordinates blog post and comment HTTP handlers.
type BlogHandler struct {
	blogService *services.BlogService
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

// ListPosts returns all posts, newest first. Served both on the public and
// the authenticated listing route.
func (h *BlogHandler) ListPosts(c *gin.Context) {
	posts, err := h.blogService.ListPosts()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, dto.ToBlogPostDTOs(posts))
}

// GetPost returns one post by ID.
func (h *BlogHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.blogService.GetPost(id)
	if err != nil {
		respondBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBlogPostDTO(*post))
}

type postRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

// CreatePost creates a blog post (admin only, enforced by middleware).
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.blogService.CreatePost(services.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: req.Category,
	})
	if err != nil {
		respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBlogPostDTO(*post))
}

// UpdatePost replaces a post's fields (admin only).
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.blogService.UpdatePost(id, services.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: req.Category,
	})
	if err != nil {
		respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBlogPostDTO(*post))
}

// DeletePost removes a post and its comments (admin only).
func (h *BlogHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.blogService.DeletePost(id); err != nil {
		respondBlogError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListComments returns a post's threaded comments.
func (h *BlogHandler) ListComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	comments, err := h.blogService.ListComments(id)
	if err != nil {
		respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentTree(comments))
}

// CreateComment adds a comment or one-level reply to a post.
func (h *BlogHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type commentRequest struct {
		PostID   uint64  `json:"post_id" binding:"required"`
		ParentID *uint64 `json:"parent_id"`
		Content  string  `json:"content" binding:"required"`
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.blogService.CreateComment(userID, services.CommentInput{
		PostID:   req.PostID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		respondBlogError(c, err)
		return
	}

	// Reload with the author so the response mirrors the list shape.
	if full, err := h.blogService.ListComments(req.PostID); err == nil {
		for _, root := range dto.ToCommentTree(full) {
			if root.ID == comment.ID {
				c.JSON(http.StatusCreated, root)
				return
			}
			for _, reply := range root.Replies {
				if reply.ID == comment.ID {
					c.JSON(http.StatusCreated, reply)
					return
				}
			}
		}
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment if the actor authored it or is an admin.
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.blogService.DeleteComment(id, user); err != nil {
		respondBlogError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

func respondBlogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPostTitleRequired),
		errors.Is(err, services.ErrPostContentRequired),
		errors.Is(err, services.ErrCommentEmpty),
		errors.Is(err, services.ErrParentNotTopLevel),
		errors.Is(err, services.ErrParentWrongPost),
		errors.Is(err, services.ErrInvalidBlogCategory):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
