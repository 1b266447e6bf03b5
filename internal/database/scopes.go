package database

import (
	"gorm.io/gorm"

	"github.com/artofworkflows/platform/internal/utils"
)

// Paginate applies a skip/limit window to a list query.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Skip).Limit(params.Limit)
	}
}
