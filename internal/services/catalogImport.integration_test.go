package services

import (
	"context"
	"crate/internal/database/dbtest"
	"crate/internal/imports"
	"crate/internal/metrics"
	"crate/internal/repositories"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const integrationDataset = `[
  {"id": 100, "title": "Kind of Blue", "labelName": "Columbia", "countryName": "US", "formatName": "Vinyl",
   "artistNames": ["Miles Davis", "John Coltrane"], "genreNames": ["Jazz"], "catalogNumber": "CS 8163",
   "dateAdded": "2024-01-02T03:04:05Z", "lastModified": "2024-01-02T03:04:05Z"},
  {"id": 101, "title": "Giant Steps", "labelName": "atlantic", "countryName": "us", "formatName": "vinyl",
   "artistNames": ["john coltrane"], "genreNames": ["jazz", "Hard Bop"], "upc": "075678136121",
   "dateAdded": "2024-01-02T03:04:05Z", "lastModified": "2024-01-02T03:04:05Z"},
  {"id": 102, "title": "   ", "artistNames": ["Nobody"],
   "dateAdded": "2024-01-02T03:04:05Z", "lastModified": "2024-01-02T03:04:05Z"},
  {"id": 103, "title": "Blue Train", "labelName": "Blue Note", "artistNames": ["John Coltrane"],
   "dateAdded": "2024-01-02T03:04:05Z", "lastModified": "2024-01-02T03:04:05Z"}
]`

type importPipeline struct {
	repos     repositories.Repository
	processor *BatchProcessorService
	importer  *CatalogImportService
}

func newImportPipeline(t *testing.T, dataset string, chunkSize int) importPipeline {
	t.Helper()

	path := filepath.Join(t.TempDir(), "releases.json")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o644))

	db := dbtest.New(t)
	repos := repositories.New(db)
	importMetrics, err := metrics.NewImportMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	processor := NewBatchProcessorService(
		NewTransactionService(db),
		NewEntityResolverService(repos, uuid.Nil),
		repos.Release,
		repos.RequiredLookups(),
		importMetrics,
		uuid.Nil,
	)
	importer := NewCatalogImportService(
		imports.NewJSONDatasetReader(),
		processor,
		repos.Release,
		nil,
		importMetrics,
		path,
		chunkSize,
	)

	return importPipeline{repos: repos, processor: processor, importer: importer}
}

func TestCatalogImportPipeline_ImportAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p := newImportPipeline(t, integrationDataset, 2)

	count, err := p.importer.ImportAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	progress, err := p.importer.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, progress.TotalRecords)
	assert.Equal(t, 3, progress.ImportedRecords)
	assert.InDelta(t, 75.0, progress.Percentage, 0.0001)
	require.Len(t, progress.Errors, 1)
	assert.Contains(t, progress.Errors[0], "102:")

	count, err = p.importer.ImportAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	releases, err := p.repos.Release.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), releases)
}

func TestCatalogImportPipeline_ResolvesNamesOnce(t *testing.T) {
	ctx := context.Background()
	p := newImportPipeline(t, integrationDataset, 100)

	_, err := p.importer.ImportAll(ctx)
	require.NoError(t, err)

	counts := map[string]repositories.Counter{
		"artists":   p.repos.Artist,
		"genres":    p.repos.Genre,
		"labels":    p.repos.Label,
		"countries": p.repos.Country,
		"formats":   p.repos.Format,
	}
	want := map[string]int64{"artists": 2, "genres": 2, "labels": 3, "countries": 1, "formats": 1}

	for name, counter := range counts {
		count, err := counter.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, want[name], count, name)
	}

	trane, err := p.repos.Artist.GetByName(ctx, nil, uuid.Nil, "John Coltrane")
	require.NoError(t, err)
	require.NotNil(t, trane)

	giantSteps, err := p.repos.Release.GetByExternalID(ctx, nil, 101)
	require.NoError(t, err)
	require.NotNil(t, giantSteps)
	assert.Equal(t, []int{trane.ID}, []int(giantSteps.ArtistIDs))
	require.NotNil(t, giantSteps.UPC)
	assert.Equal(t, "075678136121", *giantSteps.UPC)

	nobody, err := p.repos.Artist.GetByName(ctx, nil, uuid.Nil, "Nobody")
	require.NoError(t, err)
	assert.Nil(t, nobody)
}

func TestCatalogImportPipeline_UpdateUpcAndValidate(t *testing.T) {
	ctx := context.Background()
	p := newImportPipeline(t, integrationDataset, 100)

	validation, err := p.importer.ValidateLookupData(ctx)
	require.NoError(t, err)
	assert.False(t, validation.IsValid)
	assert.Len(t, validation.Errors, 4)

	_, err = p.importer.ImportAll(ctx)
	require.NoError(t, err)

	updated, err := p.importer.UpdateUpcValues(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	validation, err = p.importer.ValidateLookupData(ctx)
	require.NoError(t, err)
	assert.False(t, validation.IsValid)
	assert.Len(t, validation.Errors, 1)
	assert.Contains(t, validation.Errors[0], "packagings")
}

func TestCatalogImportPipeline_ImportBatch(t *testing.T) {
	ctx := context.Background()
	p := newImportPipeline(t, integrationDataset, 100)

	count, err := p.importer.ImportBatch(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	kindOfBlue, err := p.repos.Release.GetByExternalID(ctx, nil, 100)
	require.NoError(t, err)
	assert.Nil(t, kindOfBlue)

	giantSteps, err := p.repos.Release.GetByExternalID(ctx, nil, 101)
	require.NoError(t, err)
	assert.NotNil(t, giantSteps)
}
