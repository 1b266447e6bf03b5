package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Project lookups are always owner-scoped
		{"projects", "idx_projects_user_id", "user_id"},

		// Onboarding forms and proposals are fetched per project, newest wins
		{"onboarding_forms", "idx_onboarding_forms_project_id", "project_id"},
		{"onboarding_forms", "idx_onboarding_forms_submitted_at", "submitted_at"},
		{"proposals", "idx_proposals_project_id", "project_id"},
		{"proposals", "idx_proposals_version", "version"},

		// Comment threads are fetched per post and nested by parent
		{"blog_comments", "idx_blog_comments_post_id", "post_id"},
		{"blog_comments", "idx_blog_comments_parent_id", "parent_id"},

		// Blog listings sort by recency
		{"blog_posts", "idx_blog_posts_created_at", "created_at"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
