package models

import (
	"time"

	"gorm.io/gorm"
)

type BlogCategory string

const (
	BlogCategoryAutomation BlogCategory = "automation"
	BlogCategoryTutorial   BlogCategory = "tutorial"
	BlogCategoryCaseStudy  BlogCategory = "case-study"
	BlogCategoryNews       BlogCategory = "news"
)

type BlogPost struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ImageURL  string         `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	Category  BlogCategory   `gorm:"type:varchar(30)" json:"category,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Comments []BlogComment `gorm:"foreignKey:PostID" json:"-"`
}

// BlogComment threads exactly one level deep: a nil ParentID marks a root
// comment, a non-nil ParentID must reference a root comment on the same post.
type BlogComment struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	PostID    uint64         `gorm:"not null;index" json:"post_id"`
	UserID    uint64         `gorm:"not null" json:"user_id"`
	ParentID  *uint64        `gorm:"index" json:"parent_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User    User          `gorm:"foreignKey:UserID" json:"-"`
	Replies []BlogComment `gorm:"foreignKey:ParentID" json:"-"`
}
