package repository

import (
	"errors"
	"fmt"

	"github.com/artofworkflows/platform/internal/database"
	"github.com/artofworkflows/platform/internal/models"
	"github.com/artofworkflows/platform/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrCreateProposal is returned when storing a proposal fails inside the versioning transaction.
	ErrCreateProposal = errors.New("project repository: create proposal failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByUser retrieves a page of a user's projects, oldest first
func (r *GormProjectRepository) ListByUser(userID uint64, params utils.PaginationParams) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Scopes(database.Paginate(params)).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// CountByUser counts a user's projects
func (r *GormProjectRepository) CountByUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.
		Model(&models.Project{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete soft deletes a project
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Project{}, id).Error
}

// CreateOnboardingForm stores a new onboarding submission
func (r *GormProjectRepository) CreateOnboardingForm(form *models.OnboardingForm) error {
	return r.db.Create(form).Error
}

// UpdateOnboardingForm persists extraction results on a submission
func (r *GormProjectRepository) UpdateOnboardingForm(form *models.OnboardingForm) error {
	return r.db.Save(form).Error
}

// ListOnboardingForms returns a project's submissions oldest first
func (r *GormProjectRepository) ListOnboardingForms(projectID uint64) ([]models.OnboardingForm, error) {
	var forms []models.OnboardingForm
	err := r.db.
		Where("project_id = ?", projectID).
		Order("submitted_at asc").
		Find(&forms).Error
	if err != nil {
		return nil, err
	}
	return forms, nil
}

// CreateProposal stores a proposal as the next version for the project.
// The version is assigned inside a transaction so concurrent saves cannot
// claim the same number.
func (r *GormProjectRepository) CreateProposal(proposal *models.Proposal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		err := tx.Model(&models.Proposal{}).
			Where("project_id = ?", proposal.ProjectID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProposal, err)
		}

		proposal.Version = maxVersion + 1

		if err := tx.Create(proposal).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProposal, err)
		}

		return nil
	})
}

// ListProposals returns a project's proposals newest version first
func (r *GormProjectRepository) ListProposals(projectID uint64) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.
		Where("project_id = ?", projectID).
		Order("version desc").
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}
