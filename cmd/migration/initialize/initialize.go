package initialize

import (
	"context"
	. "crate/internal/models"
	"crate/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var (
	BASELINE_COUNTRIES = []string{
		"US", "UK", "Germany", "France", "Japan", "Canada", "Netherlands",
		"Italy", "Europe", "Australia", "Sweden", "Brazil", "Unknown",
	}
	BASELINE_FORMATS = []string{
		"Vinyl", "CD", "Cassette", "Digital", "Box Set", "DVD", "Blu-ray",
		"Shellac", "Reel-To-Reel", "8-Track Cartridge",
	}
	BASELINE_PACKAGINGS = []string{
		"Jewel Case", "Digipak", "Gatefold", "Single Sleeve", "Slipcase",
		"Cardboard Sleeve", "Box", "None",
	}
)

// InitializeTables loads the reference rows releases cannot be imported
// without. Rows already present are left alone.
func InitializeTables(
	ctx context.Context,
	repos repositories.Repository,
	ownerID uuid.UUID,
	log logger.Logger,
) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing baseline lookup data")

	created, err := SeedLookups[Country](ctx, repos.Country, ownerID, BASELINE_COUNTRIES, log)
	if err != nil {
		return log.Err("failed to initialize countries", err)
	}
	log.Info("Countries initialized", "created", created)

	created, err = SeedLookups[Format](ctx, repos.Format, ownerID, BASELINE_FORMATS, log)
	if err != nil {
		return log.Err("failed to initialize formats", err)
	}
	log.Info("Formats initialized", "created", created)

	created, err = SeedLookups[Packaging](ctx, repos.Packaging, ownerID, BASELINE_PACKAGINGS, log)
	if err != nil {
		return log.Err("failed to initialize packagings", err)
	}
	log.Info("Packagings initialized", "created", created)

	log.Info("Table initialization complete")
	return nil
}

// SeedLookups inserts the names that do not already resolve and returns how
// many rows were created.
func SeedLookups[T any, PT LookupPtr[T]](
	ctx context.Context,
	repo repositories.LookupRepository[T],
	ownerID uuid.UUID,
	names []string,
	log logger.Logger,
) (int, error) {
	missing := make([]*T, 0, len(names))
	for _, name := range names {
		existing, err := repo.GetByName(ctx, nil, ownerID, name)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			log.Debug("Lookup already exists", "kind", repo.Kind(), "name", name)
			continue
		}

		var row T
		PT(&row).Assign(name, ownerID)
		missing = append(missing, &row)
	}

	if len(missing) == 0 {
		return 0, nil
	}

	if err := repo.CreateBatch(ctx, nil, missing); err != nil {
		return 0, err
	}

	return len(missing), nil
}
