package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddIndexes adds the indexes used by task listing and the trash sweep
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Owner-scoped listing, filtered by status and ordered by creation
		{"tasks", "idx_tasks_user_status", "user_id, status"},
		{"tasks", "idx_tasks_user_created_at", "user_id, created_at"},
		// Title uniqueness checks and title ordering
		{"tasks", "idx_tasks_title", "title"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			logrus.WithField("index", idx.name).Debug("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.WithFields(logrus.Fields{
			"index":   idx.name,
			"table":   idx.table,
			"columns": idx.columns,
		}).Info("created index")
	}

	return nil
}
