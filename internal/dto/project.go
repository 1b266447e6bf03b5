package dto

import (
	"encoding/json"
	"time"

	"github.com/artofworkflows/platform/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	UserID      uint64               `json:"user_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// OnboardingFormDTO represents one onboarding submission in API responses
type OnboardingFormDTO struct {
	ID               uint64                  `json:"id"`
	ProjectID        uint64                  `json:"project_id"`
	FormData         json.RawMessage         `json:"form_data"`
	FilePath         string                  `json:"file_path,omitempty"`
	ExtractedData    json.RawMessage         `json:"extracted_data,omitempty"`
	ProcessingStatus models.ProcessingStatus `json:"processing_status"`
	SubmittedAt      time.Time               `json:"submitted_at"`
}

// ProposalDTO represents a proposal version in API responses
type ProposalDTO struct {
	ID        uint64    `json:"id"`
	ProjectID uint64    `json:"project_id"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		UserID:      project.UserID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}

// ToOnboardingFormDTO converts an OnboardingForm model
func ToOnboardingFormDTO(form models.OnboardingForm) OnboardingFormDTO {
	return OnboardingFormDTO{
		ID:               form.ID,
		ProjectID:        form.ProjectID,
		FormData:         json.RawMessage(form.FormData),
		FilePath:         form.FilePath,
		ExtractedData:    json.RawMessage(form.ExtractedData),
		ProcessingStatus: form.ProcessingStatus,
		SubmittedAt:      form.SubmittedAt,
	}
}

// ToOnboardingFormDTOs converts a slice of onboarding forms
func ToOnboardingFormDTOs(forms []models.OnboardingForm) []OnboardingFormDTO {
	dtos := make([]OnboardingFormDTO, len(forms))
	for i, f := range forms {
		dtos[i] = ToOnboardingFormDTO(f)
	}
	return dtos
}

// ToProposalDTO converts a Proposal model
func ToProposalDTO(proposal models.Proposal) ProposalDTO {
	return ProposalDTO{
		ID:        proposal.ID,
		ProjectID: proposal.ProjectID,
		Content:   proposal.Content,
		Version:   proposal.Version,
		CreatedAt: proposal.CreatedAt,
	}
}

// ToProposalDTOs converts a slice of proposals
func ToProposalDTOs(proposals []models.Proposal) []ProposalDTO {
	dtos := make([]ProposalDTO, len(proposals))
	for i, p := range proposals {
		dtos[i] = ToProposalDTO(p)
	}
	return dtos
}
