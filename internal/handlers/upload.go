package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/artofworkflows/platform/internal/config"
	"github.com/artofworkflows/platform/internal/constants"
	apierrors "github.com/artofworkflows/platform/internal/errors"
	"github.com/artofworkflows/platform/internal/services"
	"github.com/gin-gonic/gin"
)

// UploadHandler serves image uploads for blog content (admin only).
type UploadHandler struct {
	fileService *services.FileService
	cfg         *config.Config
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(fileService *services.FileService, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
		cfg:         cfg,
	}
}

// Upload stores an image file and returns its relative and absolute URLs.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "file is required")
		return
	}

	if file.Size > constants.MaxImageSize {
		apierrors.BadRequest(c, "File too large")
		return
	}

	name, err := h.fileService.Save(file, constants.ImageExtensions)
	if err != nil {
		if errors.Is(err, services.ErrExtensionNotAllowed) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to store file")
		return
	}

	url := h.fileService.URL(name)
	c.JSON(http.StatusCreated, gin.H{
		"url":      url,
		"full_url": strings.TrimSuffix(h.cfg.PublicURL, "/") + url,
	})
}
