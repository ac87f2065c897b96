package repositories

import (
	"context"
	"crate/internal/database"
	. "crate/internal/models"
	"crate/internal/utils"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const LOOKUP_BATCH_SIZE = 500

// Counter is the read-only slice of a lookup repository that lookup
// validation needs.
type Counter interface {
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Kind() LookupKind
}

type LookupRepository[T any] interface {
	Counter
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*T, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*T, error)
	GetByName(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, name string) (*T, error)
	Create(ctx context.Context, tx *gorm.DB, row *T) (*T, error)
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*T) error
}

type lookupRepository[T any, PT LookupPtr[T]] struct {
	db   database.DB
	kind LookupKind
	log  logger.Logger
}

func NewLookupRepository[T any, PT LookupPtr[T]](db database.DB) LookupRepository[T] {
	var zero T
	kind := PT(&zero).Kind()

	return &lookupRepository[T, PT]{
		db:   db,
		kind: kind,
		log:  logger.New(kind.String() + "Repository"),
	}
}

func (r *lookupRepository[T, PT]) Kind() LookupKind {
	return r.kind
}

func (r *lookupRepository[T, PT]) getDB(ctx context.Context, tx *gorm.DB) *gorm.DB {
	return withTx(ctx, r.db, tx)
}

func (r *lookupRepository[T, PT]) GetByID(ctx context.Context, tx *gorm.DB, id int) (*T, error) {
	log := r.log.Function("GetByID")

	var row T
	if err := r.getDB(ctx, tx).First(PT(&row), "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get "+r.kind.String()+" by ID", err, "id", id)
	}

	return &row, nil
}

func (r *lookupRepository[T, PT]) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*T, error) {
	log := r.log.Function("GetByIDs")

	if len(ids) == 0 {
		return []*T{}, nil
	}

	var rows []T
	if err := r.getDB(ctx, tx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, log.Err("failed to get "+r.kind.Plural()+" by IDs", err, "count", len(ids))
	}

	result := make([]*T, 0, len(rows))
	for i := range rows {
		result = append(result, &rows[i])
	}

	return result, nil
}

// GetByName matches on the normalized name. A nil owner searches every
// owner's rows.
func (r *lookupRepository[T, PT]) GetByName(
	ctx context.Context,
	tx *gorm.DB,
	ownerID uuid.UUID,
	name string,
) (*T, error) {
	log := r.log.Function("GetByName")

	cleaned, _ := utils.CleanUTF8(name)
	normalized := utils.NormalizeName(cleaned)
	if normalized == "" {
		return nil, nil
	}

	query := r.getDB(ctx, tx).Where("name_lower = ?", normalized)
	if ownerID != uuid.Nil {
		query = query.Where("owner_id = ?", ownerID)
	}

	var row T
	if err := query.Order("id").First(PT(&row)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get "+r.kind.String()+" by name", err, "name", name)
	}

	return &row, nil
}

func (r *lookupRepository[T, PT]) Create(ctx context.Context, tx *gorm.DB, row *T) (*T, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx, tx).Create(PT(row)).Error; err != nil {
		return nil, log.Err("failed to create "+r.kind.String(), err, "name", PT(row).GetName())
	}

	return row, nil
}

func (r *lookupRepository[T, PT]) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*T) error {
	log := r.log.Function("CreateBatch")

	if len(rows) == 0 {
		return nil
	}

	if err := r.getDB(ctx, tx).CreateInBatches(rows, LOOKUP_BATCH_SIZE).Error; err != nil {
		return log.Err("failed to create "+r.kind.Plural(), err, "count", len(rows))
	}

	log.Info("Created lookup rows", "kind", r.kind, "count", len(rows))
	return nil
}

func (r *lookupRepository[T, PT]) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.getDB(ctx, tx).Model(PT(new(T))).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count "+r.kind.Plural(), err)
	}

	return count, nil
}

func withTx(ctx context.Context, db database.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.SQLWithContext(ctx)
}
