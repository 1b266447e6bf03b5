package handlers

import (
	"net/http"

	apierrors "github.com/artofworkflows/platform/internal/errors"
	"github.com/artofworkflows/platform/internal/models"
	"github.com/artofworkflows/platform/internal/repository"
	"github.com/artofworkflows/platform/internal/utils"
	"github.com/gin-gonic/gin"
)

// LeadHandler handles contact-form lead submissions.
type LeadHandler struct {
	leadRepo repository.LeadRepository
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leadRepo repository.LeadRepository) *LeadHandler {
	return &LeadHandler{
		leadRepo: leadRepo,
	}
}

// CreateLead records a lead from the public contact form.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	type leadRequest struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Company string `json:"company"`
		Message string `json:"message"`
	}

	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	lead := &models.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Message: req.Message,
	}

	if err := h.leadRepo.Create(lead); err != nil {
		apierrors.InternalError(c, "Failed to store lead")
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// ListLeads returns leads newest first (admin only, enforced by middleware).
func (h *LeadHandler) ListLeads(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	leads, err := h.leadRepo.List(params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch leads")
		return
	}

	c.JSON(http.StatusOK, leads)
}

// GetLead returns one lead by ID (admin only).
func (h *LeadHandler) GetLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.leadRepo.FindByID(id)
	if err != nil {
		apierrors.NotFound(c, "Lead not found")
		return
	}

	c.JSON(http.StatusOK, lead)
}
