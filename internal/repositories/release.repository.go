package repositories

import (
	"context"
	"crate/internal/database"
	. "crate/internal/models"
	"crate/internal/utils"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ReleaseRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Release, error)
	GetByExternalID(ctx context.Context, tx *gorm.DB, externalID int64) (*Release, error)
	GetByCatalogNumber(ctx context.Context, tx *gorm.DB, catalogNumber string) ([]*Release, error)
	GetByTitle(ctx context.Context, tx *gorm.DB, title string) ([]*Release, error)
	Create(ctx context.Context, tx *gorm.DB, release *Release) (*Release, error)
	UpdateUPC(ctx context.Context, tx *gorm.DB, release *Release, upc string) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type releaseRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReleaseRepository(db database.DB) ReleaseRepository {
	return &releaseRepository{
		db:  db,
		log: logger.New("releaseRepository"),
	}
}

func (r *releaseRepository) getDB(ctx context.Context, tx *gorm.DB) *gorm.DB {
	return withTx(ctx, r.db, tx)
}

func (r *releaseRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Release, error) {
	log := r.log.Function("GetByID")

	var release Release
	err := r.getDB(ctx, tx).
		Preload("Label").
		Preload("Country").
		Preload("Format").
		Preload("Packaging").
		First(&release, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get release by ID", err, "id", id)
	}

	return &release, nil
}

func (r *releaseRepository) GetByExternalID(
	ctx context.Context,
	tx *gorm.DB,
	externalID int64,
) (*Release, error) {
	log := r.log.Function("GetByExternalID")

	var release Release
	if err := r.getDB(ctx, tx).First(&release, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get release by external ID", err, "externalID", externalID)
	}

	return &release, nil
}

// GetByCatalogNumber compares trimmed, lowercased catalog numbers.
func (r *releaseRepository) GetByCatalogNumber(
	ctx context.Context,
	tx *gorm.DB,
	catalogNumber string,
) ([]*Release, error) {
	log := r.log.Function("GetByCatalogNumber")

	normalized := utils.NormalizeName(catalogNumber)
	releases := []*Release{}
	if normalized == "" {
		return releases, nil
	}

	err := r.getDB(ctx, tx).
		Where("LOWER(TRIM(catalog_number)) = ?", normalized).
		Order("id").
		Find(&releases).Error
	if err != nil {
		return nil, log.Err("failed to get releases by catalog number", err, "catalogNumber", catalogNumber)
	}

	return releases, nil
}

func (r *releaseRepository) GetByTitle(ctx context.Context, tx *gorm.DB, title string) ([]*Release, error) {
	log := r.log.Function("GetByTitle")

	normalized := utils.NormalizeName(title)
	releases := []*Release{}
	if normalized == "" {
		return releases, nil
	}

	err := r.getDB(ctx, tx).
		Where("LOWER(TRIM(title)) = ?", normalized).
		Order("id").
		Find(&releases).Error
	if err != nil {
		return nil, log.Err("failed to get releases by title", err, "title", title)
	}

	return releases, nil
}

func (r *releaseRepository) Create(ctx context.Context, tx *gorm.DB, release *Release) (*Release, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx, tx).Create(release).Error; err != nil {
		return nil, log.Err("failed to create release", err, "title", release.Title)
	}

	return release, nil
}

func (r *releaseRepository) UpdateUPC(ctx context.Context, tx *gorm.DB, release *Release, upc string) error {
	log := r.log.Function("UpdateUPC")

	if err := r.getDB(ctx, tx).Model(release).Update("upc", upc).Error; err != nil {
		return log.Err("failed to update release UPC", err, "id", release.ID, "upc", upc)
	}

	return nil
}

func (r *releaseRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.getDB(ctx, tx).Model(&Release{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count releases", err)
	}

	return count, nil
}
