package services

import (
	"context"
	"crate/internal/imports"
	"crate/internal/metrics"
	. "crate/internal/models"
	"crate/internal/repositories"
	"crate/internal/utils"
	"fmt"
	"strings"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OPERATION_PROCESS_BATCH = "process"
	OPERATION_UPC_BATCH     = "upc"
)

type RecordStatus string

const (
	RecordImported RecordStatus = "imported"
	RecordSkipped  RecordStatus = "skipped"
	RecordFailed   RecordStatus = "failed"
)

const SKIP_REASON_EXISTS = "release already imported"

type RecordResult struct {
	ExternalID int64        `json:"externalId"`
	ReleaseID  *int         `json:"releaseId,omitempty"`
	Status     RecordStatus `json:"status"`
	Reason     string       `json:"reason,omitempty"`
}

type BatchResult struct {
	Results []RecordResult   `json:"results"`
	Created *CreatedEntities `json:"created"`
}

func (b *BatchResult) count(status RecordStatus) int {
	if b == nil {
		return 0
	}
	count := 0
	for _, result := range b.Results {
		if result.Status == status {
			count++
		}
	}
	return count
}

func (b *BatchResult) Imported() int { return b.count(RecordImported) }
func (b *BatchResult) Skipped() int  { return b.count(RecordSkipped) }
func (b *BatchResult) Failed() int   { return b.count(RecordFailed) }

// FailureReasons lists "<external id>: <reason>" for every failed record.
func (b *BatchResult) FailureReasons() []string {
	var reasons []string
	if b == nil {
		return reasons
	}
	for _, result := range b.Results {
		if result.Status == RecordFailed {
			reasons = append(reasons, fmt.Sprintf("%d: %s", result.ExternalID, result.Reason))
		}
	}
	return reasons
}

type LookupValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// RecordResolver resolves the lookup references of one release.
type RecordResolver interface {
	ResolveReferences(
		ctx context.Context,
		tx *gorm.DB,
		refs ReleaseReferences,
		acc *CreatedEntities,
	) (*ResolvedReferences, error)
}

// BatchProcessorService writes batches of import records, one transaction
// per batch and one savepoint per record.
type BatchProcessorService struct {
	transactions TransactionRunner
	resolver     RecordResolver
	releaseRepo  repositories.ReleaseRepository
	lookups      []repositories.Counter
	metrics      *metrics.ImportMetrics
	ownerID      uuid.UUID
	log          logger.Logger
}

func NewBatchProcessorService(
	transactions TransactionRunner,
	resolver RecordResolver,
	releaseRepo repositories.ReleaseRepository,
	lookups []repositories.Counter,
	importMetrics *metrics.ImportMetrics,
	ownerID uuid.UUID,
) *BatchProcessorService {
	return &BatchProcessorService{
		transactions: transactions,
		resolver:     resolver,
		releaseRepo:  releaseRepo,
		lookups:      lookups,
		metrics:      importMetrics,
		ownerID:      ownerID,
		log:          logger.New("batchProcessorService"),
	}
}

// ProcessBatch returns how many records became new releases.
func (s *BatchProcessorService) ProcessBatch(
	ctx context.Context,
	records []imports.ImportRecord,
) (int, error) {
	result, err := s.ProcessBatchResults(ctx, records)
	if err != nil {
		return 0, err
	}
	return result.Imported(), nil
}

// ProcessBatchResults is ProcessBatch with the outcome of every record.
// Record failures are results. Only transaction failures are returned as
// errors, in which case nothing from the batch was kept.
func (s *BatchProcessorService) ProcessBatchResults(
	ctx context.Context,
	records []imports.ImportRecord,
) (*BatchResult, error) {
	log := s.log.Function("ProcessBatchResults")

	if len(records) == 0 {
		return &BatchResult{Results: []RecordResult{}, Created: NewCreatedEntities()}, nil
	}

	start := time.Now()
	var result *BatchResult

	err := s.transactions.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		attempt := &BatchResult{
			Results: make([]RecordResult, 0, len(records)),
			Created: NewCreatedEntities(),
		}

		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}

			recordResult, created := s.processRecord(ctx, tx, record)
			attempt.Results = append(attempt.Results, recordResult)
			if recordResult.Status == RecordImported {
				attempt.Created.Merge(created)
			}
		}

		result = attempt
		return nil
	})
	if err != nil {
		s.metrics.RecordBatch(OPERATION_PROCESS_BATCH, metrics.StatusError, time.Since(start))
		return nil, log.Err("failed to process batch", err, "records", len(records))
	}

	s.metrics.RecordBatch(OPERATION_PROCESS_BATCH, metrics.StatusSuccess, time.Since(start))
	s.metrics.RecordRecords(metrics.RecordImported, result.Imported())
	s.metrics.RecordRecords(metrics.RecordSkipped, result.Skipped())
	s.metrics.RecordRecords(metrics.RecordFailed, result.Failed())
	for kind, count := range result.Created.Counts() {
		s.metrics.RecordLookupsCreated(kind.String(), count)
	}

	log.Info("Processed batch",
		"records", len(records),
		"imported", result.Imported(),
		"skipped", result.Skipped(),
		"failed", result.Failed(),
		"lookupsCreated", result.Created.Total(),
		"duration", time.Since(start).String())

	return result, nil
}

func (s *BatchProcessorService) processRecord(
	ctx context.Context,
	tx *gorm.DB,
	record imports.ImportRecord,
) (RecordResult, *CreatedEntities) {
	log := s.log.Function("processRecord")

	result := RecordResult{ExternalID: record.ID}
	created := NewCreatedEntities()

	err := s.transactions.Nested(ctx, tx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := s.releaseRepo.GetByExternalID(ctx, tx, record.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			result.Status = RecordSkipped
			result.Reason = SKIP_REASON_EXISTS
			result.ReleaseID = &existing.ID
			return nil
		}

		if strings.TrimSpace(record.Title) == "" {
			return fmt.Errorf("%w: title is required", ErrInvalidRelease)
		}

		resolved, err := s.resolver.ResolveReferences(ctx, tx, referencesFor(record), created)
		if err != nil {
			return err
		}

		release, err := s.releaseRepo.Create(ctx, tx, buildRelease(record, resolved, s.ownerID))
		if err != nil {
			return err
		}

		result.Status = RecordImported
		result.ReleaseID = &release.ID
		return nil
	})
	if err != nil {
		log.Warn("Failed to import record", "externalID", record.ID, "title", record.Title, "error", err)
		return RecordResult{ExternalID: record.ID, Status: RecordFailed, Reason: err.Error()}, nil
	}

	return result, created
}

// UpdateUpcBatch sets the UPC of already imported releases. Records without
// a UPC, or whose release does not exist, are skipped.
func (s *BatchProcessorService) UpdateUpcBatch(
	ctx context.Context,
	records []imports.ImportRecord,
) (int, error) {
	log := s.log.Function("UpdateUpcBatch")

	if len(records) == 0 {
		return 0, nil
	}

	start := time.Now()
	updated := 0

	err := s.transactions.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		count := 0
		for _, record := range records {
			upc := utils.TrimmedOrNil(record.UPC)
			if upc == nil {
				continue
			}

			release, err := s.releaseRepo.GetByExternalID(ctx, tx, record.ID)
			if err != nil {
				return err
			}
			if release == nil {
				continue
			}

			if err := s.releaseRepo.UpdateUPC(ctx, tx, release, *upc); err != nil {
				return err
			}
			count++
		}

		updated = count
		return nil
	})
	if err != nil {
		s.metrics.RecordBatch(OPERATION_UPC_BATCH, metrics.StatusError, time.Since(start))
		return 0, log.Err("failed to update UPC batch", err, "records", len(records))
	}

	s.metrics.RecordBatch(OPERATION_UPC_BATCH, metrics.StatusSuccess, time.Since(start))
	s.metrics.RecordUpcUpdates(updated)

	log.Info("Updated UPC values", "records", len(records), "updated", updated)
	return updated, nil
}

// ValidateLookupData reports every required lookup table that has no rows.
func (s *BatchProcessorService) ValidateLookupData(ctx context.Context) (*LookupValidation, error) {
	log := s.log.Function("ValidateLookupData")

	validation := &LookupValidation{Errors: []string{}}
	for _, lookup := range s.lookups {
		count, err := lookup.Count(ctx, nil)
		if err != nil {
			return nil, log.Err("failed to count lookup table", err, "kind", lookup.Kind())
		}
		if count == 0 {
			validation.Errors = append(
				validation.Errors,
				fmt.Sprintf("No %s found. Load %s before importing releases.",
					lookup.Kind().Plural(), lookup.Kind().Plural()),
			)
		}
	}

	validation.IsValid = len(validation.Errors) == 0
	return validation, nil
}

func referencesFor(record imports.ImportRecord) ReleaseReferences {
	return ReleaseReferences{
		Label:       RefsFrom(record.LabelID, record.LabelName),
		Country:     RefsFrom(record.CountryID, record.CountryName),
		Format:      RefsFrom(record.FormatID, record.FormatName),
		Packaging:   RefsFrom(record.PackagingID, record.PackagingName),
		ArtistIDs:   record.ArtistIDs,
		ArtistNames: record.ArtistNames,
		GenreIDs:    record.GenreIDs,
		GenreNames:  record.GenreNames,
	}
}

func buildRelease(record imports.ImportRecord, resolved *ResolvedReferences, ownerID uuid.UUID) *Release {
	externalID := record.ID

	dateAdded := record.DateAdded.Time
	if dateAdded.IsZero() {
		dateAdded = time.Now().UTC()
	}
	lastModified := record.LastModified.Time
	if lastModified.IsZero() {
		lastModified = dateAdded
	}

	return &Release{
		ExternalID:    &externalID,
		Title:         strings.TrimSpace(record.Title),
		ReleaseYear:   utils.TrimmedOrNil(record.ReleaseYear),
		CatalogNumber: utils.TrimmedOrNil(record.CatalogNumber),
		UPC:           utils.TrimmedOrNil(record.UPC),
		LabelID:       resolved.LabelID,
		CountryID:     resolved.CountryID,
		FormatID:      resolved.FormatID,
		PackagingID:   resolved.PackagingID,
		ArtistIDs:     datatypes.JSONSlice[int](resolved.ArtistIDs),
		GenreIDs:      datatypes.JSONSlice[int](resolved.GenreIDs),
		DateAdded:     dateAdded,
		LastModified:  lastModified,
		OwnerID:       ownerID,
	}
}
