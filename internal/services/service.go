package services

import (
	"crate/config"
	"crate/internal/database"
	"crate/internal/events"
	"crate/internal/imports"
	"crate/internal/metrics"
	"crate/internal/repositories"
)

type Service struct {
	Transaction    *TransactionService
	Resolver       *EntityResolverService
	Detector       *DuplicateDetectorService
	BatchProcessor *BatchProcessorService
	CatalogImport  *CatalogImportService
	Release        *ReleaseService
	Scheduler      *SchedulerService
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	eventBus *events.EventBus,
	importMetrics *metrics.ImportMetrics,
) Service {
	ownerID := config.OwnerID()

	transactionService := NewTransactionService(db)
	resolverService := NewEntityResolverService(repos, ownerID)
	detectorService := NewDuplicateDetectorService(repos.Release, repos.Artist)
	batchProcessorService := NewBatchProcessorService(
		transactionService,
		resolverService,
		repos.Release,
		repos.RequiredLookups(),
		importMetrics,
		ownerID,
	)

	var reader imports.DatasetReader = imports.NewJSONDatasetReader()
	if db.Cache.General != nil {
		reader = imports.NewCachedDatasetReader(reader, db.Cache.General)
	}

	var publisher ImportEventPublisher
	if eventBus != nil {
		publisher = eventBus
	}

	catalogImportService := NewCatalogImportService(
		reader,
		batchProcessorService,
		repos.Release,
		publisher,
		importMetrics,
		config.ImportDatasetPath,
		config.ImportChunkSize,
	)
	releaseService := NewReleaseService(
		transactionService,
		resolverService,
		detectorService,
		repos,
		ownerID,
	)

	return Service{
		Transaction:    transactionService,
		Resolver:       resolverService,
		Detector:       detectorService,
		BatchProcessor: batchProcessorService,
		CatalogImport:  catalogImportService,
		Release:        releaseService,
		Scheduler:      NewSchedulerService(config.ImportScheduleAt),
	}
}
