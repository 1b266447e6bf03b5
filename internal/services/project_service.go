package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/artofworkflows/platform/internal/models"
	"github.com/artofworkflows/platform/internal/repository"
	"github.com/artofworkflows/platform/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNameRequired = errors.New("project name is required")
	ErrProjectNotFound     = errors.New("project not found")
	ErrInvalidFormData     = errors.New("invalid form data format")
	ErrNoOnboardingForm    = errors.New("no onboarding form found for this project")
	ErrProposalEmpty       = errors.New("proposal content is required")
)

// ProjectService handles project, onboarding and proposal business logic.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	aiService   *AIService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, aiService *AIService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		aiService:   aiService,
	}
}

// CreateProjectInput holds the fields for a new project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// CreateProject creates a project owned by the given user.
func (s *ProjectService) CreateProject(userID uint64, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		UserID:      userID,
		Name:        name,
		Description: input.Description,
		Status:      models.ProjectStatusNew,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns a page of the user's projects, oldest first.
func (s *ProjectService) ListProjects(userID uint64, params utils.PaginationParams) ([]models.Project, int64, error) {
	projects, err := s.projectRepo.ListByUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	total, err := s.projectRepo.CountByUser(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	return projects, total, nil
}

// UpdateProjectInput holds optional project updates; nil fields stay unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// UpdateProject applies the given updates to a project.
func (s *ProjectService) UpdateProject(project *models.Project, input UpdateProjectInput) (*models.Project, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project.
func (s *ProjectService) DeleteProject(id uint64) error {
	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// SubmitOnboarding stores an onboarding submission. A PDF attachment is run
// through AI extraction; extraction failures leave the submission pending
// rather than rejecting it.
func (s *ProjectService) SubmitOnboarding(ctx context.Context, projectID uint64, formData []byte, filePath string) (*models.OnboardingForm, error) {
	if !json.Valid(formData) {
		return nil, ErrInvalidFormData
	}

	form := &models.OnboardingForm{
		ProjectID:        projectID,
		FormData:         formData,
		FilePath:         filePath,
		ProcessingStatus: models.ProcessingStatusPending,
	}

	if err := s.projectRepo.CreateOnboardingForm(form); err != nil {
		return nil, fmt.Errorf("failed to store onboarding form: %w", err)
	}

	if s.aiService != nil && strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		extracted, err := s.aiService.ExtractDocumentData(ctx, filePath)
		if err != nil {
			log.Printf("document extraction failed for form %d: %v", form.ID, err)
			return form, nil
		}

		form.ExtractedData = extracted
		form.ProcessingStatus = models.ProcessingStatusCompleted
		if err := s.projectRepo.UpdateOnboardingForm(form); err != nil {
			return nil, fmt.Errorf("failed to store extraction results: %w", err)
		}
	}

	return form, nil
}

// ListOnboardingForms returns a project's submissions oldest first, so the
// last element is the latest.
func (s *ProjectService) ListOnboardingForms(projectID uint64) ([]models.OnboardingForm, error) {
	forms, err := s.projectRepo.ListOnboardingForms(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list onboarding forms: %w", err)
	}
	return forms, nil
}

// SaveProposal stores edited proposal content as the project's next version.
func (s *ProjectService) SaveProposal(projectID uint64, content string) (*models.Proposal, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrProposalEmpty
	}

	proposal := &models.Proposal{
		ProjectID: projectID,
		Content:   content,
	}

	if err := s.projectRepo.CreateProposal(proposal); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}

	return proposal, nil
}

// GenerateProposal builds proposal content from the latest onboarding
// submission and stores it as the next version.
func (s *ProjectService) GenerateProposal(ctx context.Context, project *models.Project) (*models.Proposal, error) {
	forms, err := s.projectRepo.ListOnboardingForms(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list onboarding forms: %w", err)
	}
	if len(forms) == 0 {
		return nil, ErrNoOnboardingForm
	}

	latest := forms[len(forms)-1]

	formData := map[string]any{}
	if err := json.Unmarshal(latest.FormData, &formData); err != nil {
		return nil, fmt.Errorf("failed to decode form data: %w", err)
	}
	if len(latest.ExtractedData) > 0 {
		extracted := map[string]any{}
		if err := json.Unmarshal(latest.ExtractedData, &extracted); err == nil {
			for k, v := range extracted {
				formData[k] = v
			}
		}
	}

	if s.aiService == nil {
		return nil, ErrAIUnavailable
	}

	content, err := s.aiService.GenerateProposal(ctx, project.Name, formData)
	if err != nil {
		return nil, fmt.Errorf("failed to generate proposal: %w", err)
	}

	proposal := &models.Proposal{
		ProjectID: project.ID,
		Content:   content,
	}

	if err := s.projectRepo.CreateProposal(proposal); err != nil {
		return nil, fmt.Errorf("failed to store proposal: %w", err)
	}

	return proposal, nil
}

// ListProposals returns a project's proposals newest version first.
func (s *ProjectService) ListProposals(projectID uint64) ([]models.Proposal, error) {
	proposals, err := s.projectRepo.ListProposals(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// IsNotFound reports whether err means a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
