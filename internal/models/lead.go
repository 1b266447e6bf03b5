package models

import "time"

// Lead is a public contact-form submission from the marketing site.
type Lead struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Company   string    `gorm:"type:varchar(255)" json:"company,omitempty"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
