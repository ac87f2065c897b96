package catalogController

import (
	"context"
	"crate/internal/jobs"
	"crate/internal/services"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrDatasetNotConfigured = errors.New("import dataset path is not configured")

type CatalogControllerInterface interface {
	TriggerImport(ctx context.Context) error
	ImportBatch(ctx context.Context, req BatchImportRequest) (*BatchImportResponse, error)
	UpdateUpc(ctx context.Context) (*UpcUpdateResponse, error)
	GetProgress(ctx context.Context) (*services.ImportProgress, error)
	ValidateLookups(ctx context.Context) (*services.LookupValidation, error)
	ProgressSnapshot(ctx context.Context) (map[string]any, error)
}

type CatalogImporter interface {
	IsRunning() bool
	DatasetPath() string
	ImportBatch(ctx context.Context, batchSize, skipCount int) (int, error)
	UpdateUpcValues(ctx context.Context) (int, error)
	GetProgress(ctx context.Context) (*services.ImportProgress, error)
	ValidateLookupData(ctx context.Context) (*services.LookupValidation, error)
}

type JobTrigger interface {
	TriggerJobByName(ctx context.Context, jobName string) error
}

type CatalogController struct {
	importer CatalogImporter
	jobs     JobTrigger
	log      logger.Logger
}

type BatchImportRequest struct {
	BatchSize int `json:"batchSize"`
	Skip      int `json:"skip"`
}

type BatchImportResponse struct {
	Imported  int `json:"imported"`
	BatchSize int `json:"batchSize"`
	Skip      int `json:"skip"`
}

type UpcUpdateResponse struct {
	Updated int `json:"updated"`
}

func New(importer CatalogImporter, jobs JobTrigger) *CatalogController {
	return &CatalogController{
		importer: importer,
		jobs:     jobs,
		log:      logger.New("catalogController"),
	}
}

// TriggerImport starts a full import in the background.
func (c *CatalogController) TriggerImport(ctx context.Context) error {
	log := c.log.Function("TriggerImport")

	if c.importer.DatasetPath() == "" {
		return ErrDatasetNotConfigured
	}
	if c.importer.IsRunning() {
		return services.ErrImportInProgress
	}

	if err := c.jobs.TriggerJobByName(ctx, jobs.CATALOG_IMPORT_JOB); err != nil {
		return log.Err("failed to trigger catalog import", err)
	}

	log.Info("Catalog import triggered", "path", c.importer.DatasetPath())
	return nil
}

func (c *CatalogController) ImportBatch(
	ctx context.Context,
	req BatchImportRequest,
) (*BatchImportResponse, error) {
	log := c.log.Function("ImportBatch")

	if c.importer.DatasetPath() == "" {
		return nil, ErrDatasetNotConfigured
	}

	imported, err := c.importer.ImportBatch(ctx, req.BatchSize, req.Skip)
	if err != nil {
		return nil, log.Err("batch import failed", err, "batchSize", req.BatchSize, "skip", req.Skip)
	}

	return &BatchImportResponse{Imported: imported, BatchSize: req.BatchSize, Skip: req.Skip}, nil
}

func (c *CatalogController) UpdateUpc(ctx context.Context) (*UpcUpdateResponse, error) {
	if c.importer.DatasetPath() == "" {
		return nil, ErrDatasetNotConfigured
	}

	updated, err := c.importer.UpdateUpcValues(ctx)
	if err != nil {
		return nil, c.log.Function("UpdateUpc").Err("UPC update failed", err)
	}

	return &UpcUpdateResponse{Updated: updated}, nil
}

func (c *CatalogController) GetProgress(ctx context.Context) (*services.ImportProgress, error) {
	return c.importer.GetProgress(ctx)
}

func (c *CatalogController) ValidateLookups(ctx context.Context) (*services.LookupValidation, error) {
	return c.importer.ValidateLookupData(ctx)
}

// ProgressSnapshot flattens the current progress for the websocket stream.
func (c *CatalogController) ProgressSnapshot(ctx context.Context) (map[string]any, error) {
	progress, err := c.importer.GetProgress(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"totalRecords":    progress.TotalRecords,
		"importedRecords": progress.ImportedRecords,
		"percentage":      progress.Percentage,
		"errors":          progress.Errors,
		"state":           string(progress.State),
		"running":         c.importer.IsRunning(),
	}, nil
}
