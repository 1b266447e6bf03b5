package repository

import (
	"github.com/artofworkflows/platform/internal/database"
	"github.com/artofworkflows/platform/internal/models"
	"github.com/artofworkflows/platform/internal/utils"
	"gorm.io/gorm"
)

// GormLeadRepository is a GORM implementation of LeadRepository
type GormLeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &GormLeadRepository{db: db}
}

// Create stores a new lead submission
func (r *GormLeadRepository) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

// FindByID finds a lead by ID
func (r *GormLeadRepository) FindByID(id uint64) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List retrieves a page of leads, newest first
func (r *GormLeadRepository) List(params utils.PaginationParams) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.db.
		Scopes(database.Paginate(params)).
		Order("created_at desc").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
