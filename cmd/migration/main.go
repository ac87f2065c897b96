package main

import (
	"context"
	"crate/cmd/migration/initialize"
	"crate/cmd/migration/seed"
	"crate/config"
	"crate/internal/database"
	. "crate/internal/models"
	"crate/internal/repositories"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"

	logger "github.com/Bparsons0904/goLogger"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	MIGRATION_PATH  = "cmd/migration/migrations"
	MIGRATION_DB    = "postgres"
	MIGRATION_TABLE = "gorp_migrations"
)

var MODELS_TO_DROP = []any{
	&Release{},
	&Artist{},
	&Genre{},
	&Label{},
	&Country{},
	&Format{},
	&Packaging{},
}

func main() {
	log := logger.New("migrations")
	log = log.Function("main")

	config, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	migrationType := "up"
	if len(os.Args) > 1 {
		migrationType = os.Args[1]
	}

	ctx := context.Background()

	switch migrationType {
	case "up":
		err = migrateUp(ctx, db, config, log)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				log.Er("failed to parse step", err)
				os.Exit(1)
			}
		}
		err = migrateDown(steps, config, log)
	case "seed":
		err = migrateSeed(ctx, db, config, log)
	default:
		err = log.Error("unknown migration type", "type", migrationType)
	}

	if err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}

	log.Info("Migrations complete")
}

// migrateUp creates tables before applying SQL migrations, which index them.
func migrateUp(ctx context.Context, db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("migrateUp")
	log.Info("Running migrations up")

	if err := db.MigrateModels(); err != nil {
		return log.Err("failed to auto migrate", err)
	}

	if err := db.CreateIndexes(); err != nil {
		return log.Err("failed to create indexes", err)
	}

	if err := runMigrations(config, log, migrate.Up); err != nil {
		return log.Err("failed to run migrations", err)
	}

	repos := repositories.New(db)
	if err := initialize.InitializeTables(ctx, repos, config.OwnerID(), log); err != nil {
		return log.Err("failed to initialize tables", err)
	}

	return nil
}

func migrateDown(steps int, config config.Config, log logger.Logger) error {
	log = log.Function("migrateDown")
	log.Info("Running migrations down")

	for range steps {
		if err := runMigrations(config, log, migrate.Down); err != nil {
			return log.Err("failed to run migrations", err)
		}
	}

	return nil
}

func migrateSeed(ctx context.Context, db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("migrateSeed")
	log.Info("Running seed")

	if err := resetDatabase(ctx, db, config, log); err != nil {
		return err
	}

	if err := migrateUp(ctx, db, config, log); err != nil {
		return log.Err("failed to migrate up", err)
	}

	log.Info("Seeding database")
	if err := seed.Seed(ctx, repositories.New(db), config.OwnerID(), log); err != nil {
		return log.Err("failed to seed database", err)
	}

	return nil
}

// resetDatabase drops the catalog and empties both caches.
func resetDatabase(ctx context.Context, db database.DB, config config.Config, log logger.Logger) error {
	if err := cleanDatabase(db, config, log); err != nil {
		return log.Err("failed to clean database", err)
	}

	if err := db.FlushAllCaches(ctx); err != nil {
		return log.Err("failed to flush cache databases", err)
	}

	return nil
}

func runMigrations(
	config config.Config,
	log logger.Logger,
	direction migrate.MigrationDirection,
) error {
	log = log.Function("runMigrations")

	if _, err := os.Stat(MIGRATION_PATH); os.IsNotExist(err) {
		log.Info("Migrations directory does not exist, skipping file-based migrations")
		return nil
	}

	files, err := filepath.Glob(filepath.Join(MIGRATION_PATH, "*.sql"))
	if err != nil {
		return log.Err("failed to check for migration files", err)
	}

	if len(files) == 0 {
		log.Info("No migration files found, skipping file-based migrations")
		return nil
	}

	migrations := &migrate.FileMigrationSource{
		Dir: MIGRATION_PATH,
	}

	db, err := sql.Open(MIGRATION_DB, database.DSN(config))
	if err != nil {
		return log.Err("failed to open database for migrations", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	var n int
	if direction == migrate.Down {
		n, err = migrate.ExecMax(db, MIGRATION_DB, migrations, direction, 1)
	} else {
		n, err = migrate.Exec(db, MIGRATION_DB, migrations, direction)
	}
	if err != nil {
		return log.Err("failed to run migrations", err)
	}

	if n == 0 {
		log.Info("No migrations to apply")
	} else {
		log.Info("Applied migrations", "migrationCount", n)
	}

	return nil
}

// cleanDatabase drops the catalog tables and resets sql-migrate's history
// so the next up run starts fresh.
func cleanDatabase(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("cleanDatabase")
	log.Info("Cleaning database before seeding")

	if err := db.SQL.Migrator().DropTable(MODELS_TO_DROP...); err != nil {
		return log.Err("failed to drop tables", err)
	}

	if err := db.SQL.Exec("DROP TABLE IF EXISTS " + MIGRATION_TABLE).Error; err != nil {
		return log.Err("failed to drop migration history", err)
	}

	log.Info("Database cleaned successfully")
	return nil
}
