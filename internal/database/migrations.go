package database

import (
	"crate/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for the catalog tables.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []any{
		&models.Artist{},
		&models.Genre{},
		&models.Label{},
		&models.Country{},
		&models.Format{},
		&models.Packaging{},
		&models.Release{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes adds expression indexes AutoMigrate cannot express.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_releases_catalog_number_lower ON releases (LOWER(TRIM(catalog_number)))",
		"CREATE INDEX IF NOT EXISTS idx_releases_title_lower ON releases (LOWER(TRIM(title)))",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
