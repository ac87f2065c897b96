package main

import (
	"context"
	"crate/config"
	"crate/internal/database/dbtest"
	. "crate/internal/models"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetDatabase(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	artist := &Artist{}
	artist.Assign("Miles Davis", uuid.Nil)
	require.NoError(t, db.SQL.Create(artist).Error)
	require.NoError(t, db.SQL.Exec("CREATE TABLE "+MIGRATION_TABLE+" (id text)").Error)

	err := resetDatabase(ctx, db, config.Config{}, logger.New("test"))
	require.NoError(t, err)

	for _, table := range []string{"artists", "releases", MIGRATION_TABLE} {
		assert.False(t, db.SQL.Migrator().HasTable(table), table)
	}
}

func TestResetDatabase_RebuildsWithModels(t *testing.T) {
	db := dbtest.New(t)

	require.NoError(t, resetDatabase(context.Background(), db, config.Config{}, logger.New("test")))
	require.NoError(t, db.MigrateModels())

	assert.True(t, db.SQL.Migrator().HasTable("artists"))
}
