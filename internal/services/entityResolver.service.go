package services

import (
	"context"
	. "crate/internal/models"
	"crate/internal/repositories"
	"crate/internal/utils"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReleaseReferences is every lookup reference a release record carries.
type ReleaseReferences struct {
	Label       []Reference
	Country     []Reference
	Format      []Reference
	Packaging   []Reference
	ArtistIDs   []int
	ArtistNames []string
	GenreIDs    []int
	GenreNames  []string
}

// ResolvedReferences holds the store ids a ReleaseReferences resolved to.
type ResolvedReferences struct {
	LabelID     *int
	CountryID   *int
	FormatID    *int
	PackagingID *int
	ArtistIDs   []int
	GenreIDs    []int
}

// EntityResolverService turns id-or-name references into lookup row ids,
// creating rows for names it has not seen. Rows are created with the
// resolver's owner and name lookups are scoped to it.
type EntityResolverService struct {
	repos   repositories.Repository
	ownerID uuid.UUID
}

func NewEntityResolverService(repos repositories.Repository, ownerID uuid.UUID) *EntityResolverService {
	return &EntityResolverService{
		repos:   repos,
		ownerID: ownerID,
	}
}

func (s *EntityResolverService) ResolveArtist(
	ctx context.Context,
	tx *gorm.DB,
	refs []Reference,
	acc *CreatedEntities,
) (*int, error) {
	return resolve[Artist](ctx, tx, s.repos.Artist, s.ownerID, refs, acc)
}

func (s *EntityResolverService) ResolveGenre(
	ctx context.Context,
	tx *gorm.DB,
	refs []Reference,
	acc *CreatedEntities,
) (*int, error) {
	return resolve[Genre](ctx, tx, s.repos.Genre, s.ownerID, refs, acc)
}

func (s *EntityResolverService) ResolveLabel(
	ctx context.Context,
	tx *gorm.DB,
	refs []Reference,
	acc *CreatedEntities,
) (*int, error) {
	return resolve[Label](ctx, tx, s.repos.Label, s.ownerID, refs, acc)
}

func (s *EntityResolverService) ResolveCountry(
	ctx context.Context,
	tx *gorm.DB,
	refs []Reference,
	acc *CreatedEntities,
) (*int, error) {
	return resolve[Country](ctx, tx, s.repos.Country, s.ownerID, refs, acc)
}

func (s *EntityResolverService) ResolveFormat(
	ctx context.Context,
	tx *gorm.DB,
	refs []Reference,
	acc *CreatedEntities,
) (*int, error) {
	return resolve[Format](ctx, tx, s.repos.Format, s.ownerID, refs, acc)
}

func (s *EntityResolverService) ResolvePackaging(
	ctx context.Context,
	tx *gorm.DB,
	refs []Reference,
	acc *CreatedEntities,
) (*int, error) {
	return resolve[Packaging](ctx, tx, s.repos.Packaging, s.ownerID, refs, acc)
}

// ResolveArtists returns nil when both inputs are empty. Otherwise the known
// ids come first, in input order, followed by the ids of the names.
func (s *EntityResolverService) ResolveArtists(
	ctx context.Context,
	tx *gorm.DB,
	ids []int,
	names []string,
	acc *CreatedEntities,
) ([]int, error) {
	return resolveMany[Artist](ctx, tx, s.repos.Artist, s.ownerID, ids, names, acc)
}

func (s *EntityResolverService) ResolveGenres(
	ctx context.Context,
	tx *gorm.DB,
	ids []int,
	names []string,
	acc *CreatedEntities,
) ([]int, error) {
	return resolveMany[Genre](ctx, tx, s.repos.Genre, s.ownerID, ids, names, acc)
}

// ResolveReferences resolves every reference of one release in tx.
func (s *EntityResolverService) ResolveReferences(
	ctx context.Context,
	tx *gorm.DB,
	refs ReleaseReferences,
	acc *CreatedEntities,
) (*ResolvedReferences, error) {
	var (
		resolved ResolvedReferences
		err      error
	)

	if resolved.LabelID, err = s.ResolveLabel(ctx, tx, refs.Label, acc); err != nil {
		return nil, err
	}
	if resolved.CountryID, err = s.ResolveCountry(ctx, tx, refs.Country, acc); err != nil {
		return nil, err
	}
	if resolved.FormatID, err = s.ResolveFormat(ctx, tx, refs.Format, acc); err != nil {
		return nil, err
	}
	if resolved.PackagingID, err = s.ResolvePackaging(ctx, tx, refs.Packaging, acc); err != nil {
		return nil, err
	}
	if resolved.ArtistIDs, err = s.ResolveArtists(ctx, tx, refs.ArtistIDs, refs.ArtistNames, acc); err != nil {
		return nil, err
	}
	if resolved.GenreIDs, err = s.ResolveGenres(ctx, tx, refs.GenreIDs, refs.GenreNames, acc); err != nil {
		return nil, err
	}

	return &resolved, nil
}

func resolve[T any, PT LookupPtr[T]](
	ctx context.Context,
	tx *gorm.DB,
	repo repositories.LookupRepository[T],
	ownerID uuid.UUID,
	refs []Reference,
	acc *CreatedEntities,
) (*int, error) {
	for _, ref := range refs {
		switch ref := ref.(type) {
		case ByID:
			row, err := repo.GetByID(ctx, tx, int(ref))
			if err != nil {
				return nil, err
			}
			if row != nil {
				id := PT(row).GetID()
				return &id, nil
			}
		case ByName:
			return resolveName[T, PT](ctx, tx, repo, ownerID, string(ref), acc)
		}
	}

	return nil, nil
}

func resolveName[T any, PT LookupPtr[T]](
	ctx context.Context,
	tx *gorm.DB,
	repo repositories.LookupRepository[T],
	ownerID uuid.UUID,
	name string,
	acc *CreatedEntities,
) (*int, error) {
	// cleaned the same way LookupModel.BeforeSave stores it
	cleaned, _ := utils.CleanUTF8(name)
	name = strings.TrimSpace(cleaned)
	if name == "" {
		return nil, nil
	}

	existing, err := repo.GetByName(ctx, tx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		id := PT(existing).GetID()
		return &id, nil
	}

	var row T
	PT(&row).Assign(name, ownerID)
	created, err := repo.Create(ctx, tx, &row)
	if err != nil {
		return nil, err
	}

	if acc != nil {
		acc.add(PT(created))
	}

	id := PT(created).GetID()
	return &id, nil
}

func resolveMany[T any, PT LookupPtr[T]](
	ctx context.Context,
	tx *gorm.DB,
	repo repositories.LookupRepository[T],
	ownerID uuid.UUID,
	ids []int,
	names []string,
	acc *CreatedEntities,
) ([]int, error) {
	if len(ids) == 0 && len(names) == 0 {
		return nil, nil
	}

	resolved := make([]int, 0, len(ids)+len(names))
	for _, id := range ids {
		row, err := repo.GetByID(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if row != nil {
			resolved = append(resolved, PT(row).GetID())
		}
	}

	for _, name := range names {
		id, err := resolveName[T, PT](ctx, tx, repo, ownerID, name, acc)
		if err != nil {
			return nil, err
		}
		if id != nil {
			resolved = append(resolved, *id)
		}
	}

	return resolved, nil
}
