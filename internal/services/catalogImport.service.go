package services

import (
	"context"
	"crate/config"
	"crate/internal/events"
	"crate/internal/imports"
	"crate/internal/metrics"
	"fmt"
	"slices"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ImportState string

const (
	ImportNotStarted ImportState = "not_started"
	ImportReading    ImportState = "reading"
	ImportImporting  ImportState = "importing"
	ImportCommitted  ImportState = "committed"
	ImportAborted    ImportState = "aborted"
)

type ImportProgress struct {
	TotalRecords    int         `json:"totalRecords"`
	ImportedRecords int         `json:"importedRecords"`
	Percentage      float64     `json:"percentage"`
	Errors          []string    `json:"errors"`
	State           ImportState `json:"state"`
}

// BatchProcessor is what the import orchestration delegates chunks to.
type BatchProcessor interface {
	ProcessBatchResults(ctx context.Context, records []imports.ImportRecord) (*BatchResult, error)
	UpdateUpcBatch(ctx context.Context, records []imports.ImportRecord) (int, error)
	ValidateLookupData(ctx context.Context) (*LookupValidation, error)
}

type ImportEventPublisher interface {
	PublishImport(ctx context.Context, eventType events.MessageType, data map[string]any) error
}

type ReleaseCounter interface {
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

// CatalogImportService drives a dataset through the batch processor in
// sequential chunks. Only one run may be active per instance.
type CatalogImportService struct {
	reader      imports.DatasetReader
	processor   BatchProcessor
	releases    ReleaseCounter
	events      ImportEventPublisher
	metrics     *metrics.ImportMetrics
	datasetPath string
	chunkSize   int

	running    sync.Mutex
	stateMu    sync.RWMutex
	state      ImportState
	lastErrors []string

	log logger.Logger
}

func NewCatalogImportService(
	reader imports.DatasetReader,
	processor BatchProcessor,
	releases ReleaseCounter,
	publisher ImportEventPublisher,
	importMetrics *metrics.ImportMetrics,
	datasetPath string,
	chunkSize int,
) *CatalogImportService {
	if chunkSize <= 0 {
		chunkSize = config.DEFAULT_IMPORT_CHUNK_SIZE
	}

	return &CatalogImportService{
		reader:      reader,
		processor:   processor,
		releases:    releases,
		events:      publisher,
		metrics:     importMetrics,
		datasetPath: datasetPath,
		chunkSize:   chunkSize,
		state:       ImportNotStarted,
		lastErrors:  []string{},
		log:         logger.New("catalogImportService"),
	}
}

func (s *CatalogImportService) DatasetPath() string {
	return s.datasetPath
}

func (s *CatalogImportService) State() ImportState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// IsRunning reports whether an import, batch or UPC pass holds the run lock.
func (s *CatalogImportService) IsRunning() bool {
	if !s.running.TryLock() {
		return true
	}
	s.running.Unlock()
	return false
}

func (s *CatalogImportService) setState(state ImportState) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}

func (s *CatalogImportService) resetErrors() {
	s.stateMu.Lock()
	s.lastErrors = []string{}
	s.stateMu.Unlock()
}

func (s *CatalogImportService) recordErrors(reasons ...string) {
	if len(reasons) == 0 {
		return
	}
	s.stateMu.Lock()
	s.lastErrors = append(s.lastErrors, reasons...)
	s.stateMu.Unlock()
}

// ImportAll imports the whole dataset chunk by chunk. When a chunk fails the
// remaining chunks are not attempted and the count of releases committed by
// earlier chunks is returned with the error.
func (s *CatalogImportService) ImportAll(ctx context.Context) (int, error) {
	log := s.log.Function("ImportAll")

	if !s.running.TryLock() {
		return 0, ErrImportInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	records, err := s.readDataset(ctx)
	if err != nil {
		s.metrics.RecordRun(metrics.StatusError)
		return 0, log.Err("failed to read dataset", err, "path", s.datasetPath)
	}
	if len(records) == 0 {
		log.Warn("Dataset missing or empty, nothing to import", "path", s.datasetPath)
		return 0, nil
	}

	chunkCount := (len(records) + s.chunkSize - 1) / s.chunkSize
	imported := 0
	processed := 0
	chunkIndex := 0

	for chunk := range slices.Chunk(records, s.chunkSize) {
		chunkIndex++

		if err := ctx.Err(); err != nil {
			return imported, s.abort(ctx, log, err, imported, chunkIndex)
		}

		s.setState(ImportImporting)
		result, err := s.processor.ProcessBatchResults(ctx, chunk)
		if err != nil {
			return imported, s.abort(ctx, log, err, imported, chunkIndex)
		}
		s.setState(ImportCommitted)

		imported += result.Imported()
		processed += len(chunk)
		s.recordErrors(result.FailureReasons()...)

		s.publish(ctx, events.IMPORT_PROGRESS, map[string]any{
			"chunk":     chunkIndex,
			"chunks":    chunkCount,
			"processed": processed,
			"total":     len(records),
			"imported":  imported,
			"failed":    result.Failed(),
		})
	}

	s.metrics.RecordRun(metrics.StatusSuccess)
	s.publish(ctx, events.IMPORT_COMPLETE, map[string]any{
		"total":    len(records),
		"imported": imported,
		"chunks":   chunkCount,
	})

	log.Info("Catalog import completed",
		"records", len(records),
		"imported", imported,
		"chunks", chunkCount,
		"duration", time.Since(start).String())

	return imported, nil
}

func (s *CatalogImportService) abort(
	ctx context.Context,
	log logger.Logger,
	err error,
	imported int,
	chunkIndex int,
) error {
	s.setState(ImportAborted)
	s.recordErrors(fmt.Sprintf("chunk %d: %v", chunkIndex, err))
	s.metrics.RecordRun(metrics.StatusError)
	s.publish(context.WithoutCancel(ctx), events.IMPORT_ERROR, map[string]any{
		"chunk":    chunkIndex,
		"imported": imported,
		"error":    err.Error(),
	})

	return log.Err("catalog import aborted", err, "chunk", chunkIndex, "imported", imported)
}

// ImportBatch imports batchSize records after skipping skipCount, as a
// single batch.
func (s *CatalogImportService) ImportBatch(ctx context.Context, batchSize, skipCount int) (int, error) {
	log := s.log.Function("ImportBatch")

	if batchSize <= 0 {
		return 0, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidBatchRequest, batchSize)
	}
	if skipCount < 0 {
		return 0, fmt.Errorf("%w: skip count must not be negative, got %d", ErrInvalidBatchRequest, skipCount)
	}

	if !s.running.TryLock() {
		return 0, ErrImportInProgress
	}
	defer s.running.Unlock()

	records, err := s.readDataset(ctx)
	if err != nil {
		return 0, log.Err("failed to read dataset", err, "path", s.datasetPath)
	}
	if skipCount >= len(records) {
		log.Info("Nothing to import after skip", "records", len(records), "skip", skipCount)
		return 0, nil
	}

	end := min(skipCount+batchSize, len(records))

	s.setState(ImportImporting)
	result, err := s.processor.ProcessBatchResults(ctx, records[skipCount:end])
	if err != nil {
		s.setState(ImportAborted)
		s.recordErrors(err.Error())
		return 0, log.Err("failed to import batch", err, "batchSize", batchSize, "skip", skipCount)
	}
	s.setState(ImportCommitted)
	s.recordErrors(result.FailureReasons()...)

	s.publish(ctx, events.IMPORT_PROGRESS, map[string]any{
		"skip":      skipCount,
		"processed": end - skipCount,
		"imported":  result.Imported(),
		"failed":    result.Failed(),
	})

	return result.Imported(), nil
}

func (s *CatalogImportService) GetCount(ctx context.Context) (int, error) {
	log := s.log.Function("GetCount")

	count, err := s.reader.Count(ctx, s.datasetPath)
	if err != nil {
		return 0, log.Err("failed to count dataset records", err, "path", s.datasetPath)
	}

	return count, nil
}

// GetProgress compares the dataset size with the releases in the store.
// The percentage is not capped at 100.
func (s *CatalogImportService) GetProgress(ctx context.Context) (*ImportProgress, error) {
	log := s.log.Function("GetProgress")

	total, err := s.GetCount(ctx)
	if err != nil {
		return nil, err
	}

	imported, err := s.releases.Count(ctx, nil)
	if err != nil {
		return nil, log.Err("failed to count releases", err)
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(imported) / float64(total) * 100
	}

	s.stateMu.RLock()
	errs := slices.Clone(s.lastErrors)
	state := s.state
	s.stateMu.RUnlock()
	if errs == nil {
		errs = []string{}
	}

	return &ImportProgress{
		TotalRecords:    total,
		ImportedRecords: int(imported),
		Percentage:      percentage,
		Errors:          errs,
		State:           state,
	}, nil
}

func (s *CatalogImportService) UpdateUpcValues(ctx context.Context) (int, error) {
	log := s.log.Function("UpdateUpcValues")

	if !s.running.TryLock() {
		return 0, ErrImportInProgress
	}
	defer s.running.Unlock()

	records, err := s.readDataset(ctx)
	if err != nil {
		return 0, log.Err("failed to read dataset", err, "path", s.datasetPath)
	}
	if len(records) == 0 {
		return 0, nil
	}

	updated, err := s.processor.UpdateUpcBatch(ctx, records)
	if err != nil {
		return 0, log.Err("failed to update UPC values", err)
	}

	return updated, nil
}

func (s *CatalogImportService) ValidateLookupData(ctx context.Context) (*LookupValidation, error) {
	return s.processor.ValidateLookupData(ctx)
}

// readDataset returns nil when the dataset does not exist.
func (s *CatalogImportService) readDataset(ctx context.Context) ([]imports.ImportRecord, error) {
	s.resetErrors()
	s.setState(ImportReading)

	exists, err := s.reader.Exists(s.datasetPath)
	if err != nil {
		s.setState(ImportAborted)
		return nil, err
	}
	if !exists {
		s.setState(ImportNotStarted)
		return nil, nil
	}

	records, err := s.reader.ReadRecords(ctx, s.datasetPath)
	if err != nil {
		s.setState(ImportAborted)
		return nil, err
	}
	if len(records) == 0 {
		s.setState(ImportNotStarted)
	}

	return records, nil
}

func (s *CatalogImportService) publish(ctx context.Context, eventType events.MessageType, data map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishImport(ctx, eventType, data); err != nil {
		s.log.Function("publish").Warn("failed to publish import event", "type", eventType, "error", err)
	}
}
