package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusNew    ProjectStatus = "new"
	ProjectStatusActive ProjectStatus = "active"
	ProjectStatusClosed ProjectStatus = "closed"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Status      ProjectStatus  `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner           User             `gorm:"foreignKey:UserID" json:"-"`
	OnboardingForms []OnboardingForm `gorm:"foreignKey:ProjectID" json:"-"`
	Proposals       []Proposal       `gorm:"foreignKey:ProjectID" json:"-"`
}

type ProcessingStatus string

const (
	ProcessingStatusPending   ProcessingStatus = "pending"
	ProcessingStatusCompleted ProcessingStatus = "completed"
)

// OnboardingForm is one submission of the onboarding questionnaire. A
// project may accumulate several; the newest one is authoritative.
type OnboardingForm struct {
	ID               uint64           `gorm:"primarykey" json:"id"`
	ProjectID        uint64           `gorm:"not null;index" json:"project_id"`
	FormData         datatypes.JSON   `gorm:"not null" json:"form_data"`
	FilePath         string           `gorm:"type:varchar(512)" json:"file_path,omitempty"`
	ExtractedData    datatypes.JSON   `json:"extracted_data,omitempty"`
	ProcessingStatus ProcessingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"processing_status"`
	SubmittedAt      time.Time        `gorm:"autoCreateTime" json:"submitted_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// Proposal is a generated or hand-edited automation proposal. Saving never
// edits in place; each save creates the next version.
type Proposal struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}
