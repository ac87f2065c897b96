package jobs

import (
	"crate/config"
	"crate/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// RegisterAllJobs registers every background job. The catalog import is
// always registered so it can be triggered manually; it only runs on a
// timer when IMPORT_SCHEDULE_ENABLED is set.
func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	importer CatalogImporter,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	schedule := services.Manual
	if config.ImportScheduleEnabled {
		schedule = services.Daily
	}

	if err := schedulerService.AddJob(NewCatalogImportJob(importer, schedule)); err != nil {
		return log.Err("failed to register catalog import job", err)
	}
	log.Info("Registered catalog import job",
		"scheduled", config.ImportScheduleEnabled,
		"at", config.ImportScheduleAt)

	return nil
}
