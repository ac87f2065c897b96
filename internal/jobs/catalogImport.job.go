package jobs

import (
	"context"
	"crate/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const CATALOG_IMPORT_JOB = "CatalogImport"

type CatalogImporter interface {
	ImportAll(ctx context.Context) (int, error)
	DatasetPath() string
}

type CatalogImportJob struct {
	importer CatalogImporter
	log      logger.Logger
	schedule services.Schedule
}

func NewCatalogImportJob(importer CatalogImporter, schedule services.Schedule) *CatalogImportJob {
	log := logger.New("catalogImportJob")
	log.Info("Creating new catalog import job", "schedule", schedule)

	return &CatalogImportJob{
		importer: importer,
		log:      log,
		schedule: schedule,
	}
}

func (j *CatalogImportJob) Name() string {
	return CATALOG_IMPORT_JOB
}

func (j *CatalogImportJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting catalog import", "path", j.importer.DatasetPath())

	imported, err := j.importer.ImportAll(ctx)
	if err != nil {
		return log.Err("catalog import failed", err, "imported", imported)
	}

	log.Info("Catalog import completed", "imported", imported)
	return nil
}

func (j *CatalogImportJob) Schedule() services.Schedule {
	return j.schedule
}
