package services

import (
	"context"
	"crate/internal/database/dbtest"
	"crate/internal/models"
	"crate/internal/repositories"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, ownerID uuid.UUID) (*EntityResolverService, repositories.Repository) {
	t.Helper()
	repos := repositories.New(dbtest.New(t))
	return NewEntityResolverService(repos, ownerID), repos
}

func seedLabel(t *testing.T, repos repositories.Repository, name string, ownerID uuid.UUID) *models.Label {
	t.Helper()
	label := &models.Label{}
	label.Assign(name, ownerID)
	created, err := repos.Label.Create(context.Background(), nil, label)
	require.NoError(t, err)
	return created
}

func TestEntityResolver_ResolveLabel(t *testing.T) {
	ctx := context.Background()
	resolver, repos := newTestResolver(t, uuid.Nil)
	existing := seedLabel(t, repos, "Blue Note", uuid.Nil)

	testCases := []struct {
		name        string
		refs        []Reference
		wantID      *int
		wantCreated int
	}{
		{name: "no references", refs: nil},
		{name: "known id", refs: []Reference{ByID(existing.ID)}, wantID: &existing.ID},
		{name: "unknown id without name", refs: []Reference{ByID(999)}},
		{name: "unknown id falls back to name", refs: RefsFrom(intPtr(999), strPtr("blue note")), wantID: &existing.ID},
		{name: "name ignores case and whitespace", refs: []Reference{ByName("  BLUE NOTE ")}, wantID: &existing.ID},
		{name: "blank name", refs: []Reference{ByName("   ")}},
		{name: "new name creates row", refs: []Reference{ByName("Impulse!")}, wantCreated: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			acc := NewCreatedEntities()
			id, err := resolver.ResolveLabel(ctx, nil, tc.refs, acc)
			require.NoError(t, err)

			switch {
			case tc.wantCreated > 0:
				require.NotNil(t, id)
				require.Len(t, acc.Labels, tc.wantCreated)
				assert.Equal(t, *id, acc.Labels[0].ID)
				assert.Equal(t, "Impulse!", acc.Labels[0].Name)
			case tc.wantID != nil:
				require.NotNil(t, id)
				assert.Equal(t, *tc.wantID, *id)
				assert.Zero(t, acc.Total())
			default:
				assert.Nil(t, id)
				assert.Zero(t, acc.Total())
			}
		})
	}
}

func TestEntityResolver_CreatesTrimmedNameWithOwner(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	resolver, repos := newTestResolver(t, owner)

	acc := NewCreatedEntities()
	id, err := resolver.ResolveCountry(ctx, nil, []Reference{ByName("  Japan ")}, acc)
	require.NoError(t, err)
	require.NotNil(t, id)

	country, err := repos.Country.GetByID(ctx, nil, *id)
	require.NoError(t, err)
	assert.Equal(t, "Japan", country.Name)
	assert.Equal(t, owner, country.OwnerID)
	assert.Len(t, acc.Countries, 1)
}

func TestEntityResolver_OwnerScope(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	resolver, repos := newTestResolver(t, owner)
	other := seedLabel(t, repos, "Blue Note", uuid.New())

	id, err := resolver.ResolveLabel(ctx, nil, []Reference{ByName("Blue Note")}, NewCreatedEntities())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.NotEqual(t, other.ID, *id)
}

func TestEntityResolver_ResolveArtists(t *testing.T) {
	ctx := context.Background()
	resolver, repos := newTestResolver(t, uuid.Nil)

	artist := &models.Artist{}
	artist.Assign("Miles Davis", uuid.Nil)
	existing, err := repos.Artist.Create(ctx, nil, artist)
	require.NoError(t, err)

	ids, err := resolver.ResolveArtists(ctx, nil, nil, nil, NewCreatedEntities())
	require.NoError(t, err)
	assert.Nil(t, ids)

	acc := NewCreatedEntities()
	ids, err = resolver.ResolveArtists(
		ctx,
		nil,
		[]int{existing.ID, 999},
		[]string{"John Coltrane", "john coltrane ", " ", "MILES DAVIS"},
		acc,
	)
	require.NoError(t, err)
	require.Len(t, ids, 4)
	assert.Equal(t, existing.ID, ids[0])
	assert.Equal(t, ids[1], ids[2])
	assert.Equal(t, existing.ID, ids[3])
	assert.Len(t, acc.Artists, 1)

	count, err := repos.Artist.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestEntityResolver_ResolveArtists_CleansInvalidNames(t *testing.T) {
	ctx := context.Background()
	resolver, repos := newTestResolver(t, uuid.Nil)

	testCases := []struct {
		name     string
		input    string
		wantName string
	}{
		{name: "invalid utf8", input: "Bj\xf6rk", wantName: "Bjrk"},
		{name: "nul byte", input: "Miles Davis \x00", wantName: "Miles Davis"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			acc := NewCreatedEntities()
			ids, err := resolver.ResolveArtists(ctx, nil, nil, []string{tc.input, tc.input}, acc)
			require.NoError(t, err)
			require.Len(t, ids, 2)
			assert.Equal(t, ids[0], ids[1])
			require.Len(t, acc.Artists, 1)
			assert.Equal(t, tc.wantName, acc.Artists[0].Name)

			again, err := resolver.ResolveArtists(ctx, nil, nil, []string{tc.input}, NewCreatedEntities())
			require.NoError(t, err)
			assert.Equal(t, ids[:1], again)
		})
	}

	count, err := repos.Artist.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestEntityResolver_ResolveGenresInTransaction(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repos := repositories.New(db)
	resolver := NewEntityResolverService(repos, uuid.Nil)

	tx := db.SQL.Begin()
	ids, err := resolver.ResolveGenres(ctx, tx, nil, []string{"Jazz", "jazz"}, NewCreatedEntities())
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1])
	require.NoError(t, tx.Rollback().Error)

	count, err := repos.Genre.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreatedEntities_MergeAndCounts(t *testing.T) {
	first := NewCreatedEntities()
	first.add(&models.Artist{})
	first.add(&models.Genre{})

	second := NewCreatedEntities()
	second.add(&models.Artist{})
	second.add(&models.Packaging{})

	first.Merge(second)
	first.Merge(nil)

	counts := first.Counts()
	assert.Equal(t, 2, counts[models.LookupArtist])
	assert.Equal(t, 1, counts[models.LookupGenre])
	assert.Equal(t, 1, counts[models.LookupPackaging])
	assert.Equal(t, 4, first.Total())
}

func TestRefsFrom(t *testing.T) {
	assert.Nil(t, RefsFrom(nil, nil))
	assert.Equal(t, []Reference{ByID(3)}, RefsFrom(intPtr(3), nil))
	assert.Equal(t, []Reference{ByName("x")}, RefsFrom(nil, strPtr("x")))
	assert.Equal(t, []Reference{ByID(3), ByName("x")}, RefsFrom(intPtr(3), strPtr("x")))
}
