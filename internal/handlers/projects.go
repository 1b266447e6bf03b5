package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/artofworkflows/platform/internal/constants"
	"github.com/artofworkflows/platform/internal/dto"
	apierrors "github.com/artofworkflows/platform/internal/errors"
	"github.com/artofworkflows/platform/internal/middleware"
	"github.com/artofworkflows/platform/internal/models"
	"github.com/artofworkflows/platform/internal/services"
	"github.com/artofworkflows/platform/internal/utils"
	"github.com/gin-gonic/gin"
)

// ProjectHandler coordinates project, onboarding and proposal HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	fileService    *services.FileService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, fileService *services.FileService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		fileService:    fileService,
	}
}

// CreateProject creates a project owned by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type createRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(userID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the current user's projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(userID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns the project loaded by RequireProjectAccess.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject applies partial updates to a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	type updateRequest struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.projectService.UpdateProject(project, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// DeleteProject removes a project.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	if err := h.projectService.DeleteProject(project.ID); err != nil {
		apierrors.InternalError(c, "Failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

// SubmitOnboarding accepts the multipart onboarding submission: a required
// form_data field carrying the questionnaire JSON and an optional document.
func (h *ProjectHandler) SubmitOnboarding(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	formData := c.PostForm("form_data")
	if formData == "" {
		apierrors.BadRequest(c, "form_data is required")
		return
	}

	var filePath string
	if file, err := c.FormFile("file"); err == nil {
		name, err := h.fileService.Save(file, constants.DocumentExtensions)
		if err != nil {
			if errors.Is(err, services.ErrExtensionNotAllowed) {
				apierrors.BadRequest(c, err.Error())
				return
			}
			apierrors.InternalError(c, "Failed to store attachment")
			return
		}
		filePath = name
	}

	form, err := h.projectService.SubmitOnboarding(c.Request.Context(), project.ID, []byte(formData), filePath)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOnboardingFormDTO(*form))
}

// ListOnboarding returns the project's submissions, oldest first. An empty
// history is a 404 so clients can distinguish "never onboarded" cheaply.
func (h *ProjectHandler) ListOnboarding(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	forms, err := h.projectService.ListOnboardingForms(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch onboarding forms")
		return
	}
	if len(forms) == 0 {
		apierrors.NotFound(c, "No onboarding forms for this project")
		return
	}

	c.JSON(http.StatusOK, dto.ToOnboardingFormDTOs(forms))
}

// CreateProposal saves edited proposal content as a new version, or
// generates one from the latest onboarding submission when the body carries
// no content.
func (h *ProjectHandler) CreateProposal(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	type proposalRequest struct {
		Content string `json:"content"`
	}

	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var (
		proposal *models.Proposal
		err      error
	)
	if req.Content != "" {
		proposal, err = h.projectService.SaveProposal(project.ID, req.Content)
	} else {
		proposal, err = h.projectService.GenerateProposal(c.Request.Context(), project)
	}
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProposalDTO(*proposal))
}

// ListProposals returns the project's proposals, newest version first.
func (h *ProjectHandler) ListProposals(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	proposals, err := h.projectService.ListProposals(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch proposals")
		return
	}

	c.JSON(http.StatusOK, dto.ToProposalDTOs(proposals))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidFormData),
		errors.Is(err, services.ErrProposalEmpty),
		errors.Is(err, services.ErrNoOnboardingForm):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAIUnavailable):
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, err.Error()))
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
