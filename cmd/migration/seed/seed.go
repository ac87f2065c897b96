package seed

import (
	"context"
	"crate/cmd/migration/initialize"
	. "crate/internal/models"
	"crate/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var (
	SEED_GENRES  = []string{"Jazz", "Rock", "Electronic", "Hip Hop", "Soul", "Classical", "Folk"}
	SEED_LABELS  = []string{"Blue Note", "Impulse!", "Warp", "Motown", "Deutsche Grammophon"}
	SEED_ARTISTS = []string{"John Coltrane", "Miles Davis", "Aphex Twin", "Marvin Gaye", "Nina Simone"}
)

// Seed loads development data on top of the baseline lookups.
func Seed(ctx context.Context, repos repositories.Repository, ownerID uuid.UUID, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	if _, err := initialize.SeedLookups[Genre](ctx, repos.Genre, ownerID, SEED_GENRES, log); err != nil {
		return log.Err("failed to seed genres", err)
	}

	if _, err := initialize.SeedLookups[Label](ctx, repos.Label, ownerID, SEED_LABELS, log); err != nil {
		return log.Err("failed to seed labels", err)
	}

	if _, err := initialize.SeedLookups[Artist](ctx, repos.Artist, ownerID, SEED_ARTISTS, log); err != nil {
		return log.Err("failed to seed artists", err)
	}

	return nil
}
