package repositories

import (
	"context"
	"crate/internal/database/dbtest"
	"crate/internal/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLabel(name string, ownerID uuid.UUID) *models.Label {
	label := &models.Label{}
	label.Assign(name, ownerID)
	return label
}

func TestLookupRepository_Kind(t *testing.T) {
	db := dbtest.New(t)

	assert.Equal(t, models.LookupArtist, NewLookupRepository[models.Artist](db).Kind())
	assert.Equal(t, models.LookupCountry, NewLookupRepository[models.Country](db).Kind())
	assert.Equal(t, "countries", NewLookupRepository[models.Country](db).Kind().Plural())
}

func TestLookupRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewLookupRepository[models.Label](dbtest.New(t))

	created, err := repo.Create(ctx, nil, newLabel("  Blue Note ", uuid.Nil))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "blue note", created.NameLower)

	found, err := repo.GetByID(ctx, nil, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.GetByID(ctx, nil, created.ID+100)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLookupRepository_GetByName(t *testing.T) {
	ctx := context.Background()
	repo := NewLookupRepository[models.Label](dbtest.New(t))

	owner := uuid.New()
	other := uuid.New()

	created, err := repo.Create(ctx, nil, newLabel("Blue Note", owner))
	require.NoError(t, err)

	testCases := []struct {
		name    string
		owner   uuid.UUID
		lookup  string
		wantHit bool
	}{
		{name: "exact", owner: owner, lookup: "Blue Note", wantHit: true},
		{name: "case and whitespace", owner: owner, lookup: "  BLUE note ", wantHit: true},
		{name: "invalid utf8 and nul stripped", owner: owner, lookup: "Blue Note\x00\xff", wantHit: true},
		{name: "unscoped", owner: uuid.Nil, lookup: "blue note", wantHit: true},
		{name: "other owner", owner: other, lookup: "Blue Note"},
		{name: "different name", owner: owner, lookup: "Blue Notes"},
		{name: "empty", owner: owner, lookup: "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := repo.GetByName(ctx, nil, tc.owner, tc.lookup)
			require.NoError(t, err)
			if tc.wantHit {
				require.NotNil(t, found)
				assert.Equal(t, created.ID, found.ID)
			} else {
				assert.Nil(t, found)
			}
		})
	}
}

func TestLookupRepository_GetByIDsAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewLookupRepository[models.Artist](dbtest.New(t))

	count, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	artists := []*models.Artist{{}, {}, {}}
	for i, name := range []string{"Miles Davis", "John Coltrane", "Bill Evans"} {
		artists[i].Assign(name, uuid.Nil)
	}
	require.NoError(t, repo.CreateBatch(ctx, nil, artists))

	count, err = repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	found, err := repo.GetByIDs(ctx, nil, []int{artists[2].ID, artists[0].ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, artists[0].ID, found[0].ID)
	assert.Equal(t, artists[2].ID, found[1].ID)

	empty, err := repo.GetByIDs(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLookupRepository_UsesTransaction(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewLookupRepository[models.Genre](db)

	tx := db.SQL.Begin()
	genre := &models.Genre{}
	genre.Assign("Jazz", uuid.Nil)
	_, err := repo.Create(ctx, tx, genre)
	require.NoError(t, err)

	found, err := repo.GetByName(ctx, tx, uuid.Nil, "jazz")
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, tx.Rollback().Error)

	count, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}
