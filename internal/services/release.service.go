package services

import (
	"context"
	"crate/internal/imports"
	. "crate/internal/models"
	"crate/internal/repositories"
	"errors"
	"fmt"
	"strings"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReleaseRequest struct {
	ExternalID    *int64   `json:"externalId,omitempty"`
	Title         string   `json:"title"`
	ReleaseYear   *string  `json:"releaseYear,omitempty"`
	CatalogNumber *string  `json:"catalogNumber,omitempty"`
	UPC           *string  `json:"upc,omitempty"`
	LabelID       *int     `json:"labelId,omitempty"`
	LabelName     *string  `json:"labelName,omitempty"`
	CountryID     *int     `json:"countryId,omitempty"`
	CountryName   *string  `json:"countryName,omitempty"`
	FormatID      *int     `json:"formatId,omitempty"`
	FormatName    *string  `json:"formatName,omitempty"`
	PackagingID   *int     `json:"packagingId,omitempty"`
	PackagingName *string  `json:"packagingName,omitempty"`
	ArtistIDs     []int    `json:"artistIds,omitempty"`
	ArtistNames   []string `json:"artistNames,omitempty"`
	GenreIDs      []int    `json:"genreIds,omitempty"`
	GenreNames    []string `json:"genreNames,omitempty"`
}

func (r CreateReleaseRequest) record() imports.ImportRecord {
	now := imports.Timestamp{Time: time.Now().UTC()}
	return imports.ImportRecord{
		Title:         r.Title,
		LabelID:       r.LabelID,
		LabelName:     r.LabelName,
		CountryID:     r.CountryID,
		CountryName:   r.CountryName,
		FormatID:      r.FormatID,
		FormatName:    r.FormatName,
		PackagingID:   r.PackagingID,
		PackagingName: r.PackagingName,
		ArtistIDs:     r.ArtistIDs,
		ArtistNames:   r.ArtistNames,
		GenreIDs:      r.GenreIDs,
		GenreNames:    r.GenreNames,
		ReleaseYear:   r.ReleaseYear,
		CatalogNumber: r.CatalogNumber,
		UPC:           r.UPC,
		DateAdded:     now,
		LastModified:  now,
	}
}

// ReleaseService creates single releases, refusing likely duplicates unless
// forced.
type ReleaseService struct {
	transactions TransactionRunner
	resolver     RecordResolver
	detector     *DuplicateDetectorService
	releaseRepo  repositories.ReleaseRepository
	artistRepo   repositories.LookupRepository[Artist]
	ownerID      uuid.UUID
	log          logger.Logger
}

func NewReleaseService(
	transactions TransactionRunner,
	resolver RecordResolver,
	detector *DuplicateDetectorService,
	repos repositories.Repository,
	ownerID uuid.UUID,
) *ReleaseService {
	return &ReleaseService{
		transactions: transactions,
		resolver:     resolver,
		detector:     detector,
		releaseRepo:  repos.Release,
		artistRepo:   repos.Artist,
		ownerID:      ownerID,
		log:          logger.New("releaseService"),
	}
}

func (s *ReleaseService) Create(
	ctx context.Context,
	request CreateReleaseRequest,
	force bool,
) (*Release, error) {
	log := s.log.Function("Create")

	if strings.TrimSpace(request.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRelease)
	}

	if !force {
		query, err := s.duplicateQuery(ctx, request)
		if err != nil {
			return nil, err
		}

		candidates, err := s.detector.FindCandidates(ctx, nil, query)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			log.Info("Refusing duplicate release", "title", request.Title, "candidates", len(candidates))
			return nil, &DuplicateReleaseError{Candidates: candidates}
		}
	}

	var created *Release
	err := s.transactions.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if request.ExternalID != nil {
			existing, err := s.releaseRepo.GetByExternalID(ctx, tx, *request.ExternalID)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: %d", ErrReleaseExists, *request.ExternalID)
			}
		}

		record := request.record()
		resolved, err := s.resolver.ResolveReferences(ctx, tx, referencesFor(record), NewCreatedEntities())
		if err != nil {
			return err
		}

		release := buildRelease(record, resolved, s.ownerID)
		release.ExternalID = request.ExternalID

		created, err = s.releaseRepo.Create(ctx, tx, release)
		return err
	})
	if errors.Is(err, ErrReleaseExists) {
		log.Info("Refusing existing external id", "externalId", *request.ExternalID)
		return nil, err
	}
	if err != nil {
		return nil, log.Err("failed to create release", err, "title", request.Title)
	}

	return created, nil
}

func (s *ReleaseService) CheckDuplicates(ctx context.Context, query DuplicateQuery) ([]DuplicateCandidate, error) {
	return s.detector.FindCandidates(ctx, nil, query)
}

// duplicateQuery includes the names of artists given by id.
func (s *ReleaseService) duplicateQuery(ctx context.Context, request CreateReleaseRequest) (DuplicateQuery, error) {
	names := append([]string{}, request.ArtistNames...)

	artists, err := s.artistRepo.GetByIDs(ctx, nil, request.ArtistIDs)
	if err != nil {
		return DuplicateQuery{}, err
	}
	for _, artist := range artists {
		names = append(names, artist.Name)
	}

	return DuplicateQuery{
		CatalogNumber: request.CatalogNumber,
		Title:         request.Title,
		ArtistNames:   names,
	}, nil
}
