package imports

import (
	"context"
	"crate/internal/database"
	"fmt"
	"os"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

const (
	DATASET_COUNT_CACHE_PREFIX = "dataset_count"
	DATASET_COUNT_CACHE_TTL    = 24 * time.Hour
)

type datasetCount struct {
	Count int `json:"count"`
}

// CachedDatasetReader memoizes Count in valkey. The key includes the file's
// size and modification time so a replaced dataset is counted again.
type CachedDatasetReader struct {
	DatasetReader
	cache valkey.Client
	log   logger.Logger
}

func NewCachedDatasetReader(reader DatasetReader, cache valkey.Client) *CachedDatasetReader {
	return &CachedDatasetReader{
		DatasetReader: reader,
		cache:         cache,
		log:           logger.New("cachedDatasetReader"),
	}
}

func (r *CachedDatasetReader) Count(ctx context.Context, path string) (int, error) {
	log := r.log.Function("Count")

	if r.cache == nil {
		return r.DatasetReader.Count(ctx, path)
	}

	key, ok := countCacheKey(path)
	if !ok {
		return r.DatasetReader.Count(ctx, path)
	}

	var cached datasetCount
	found, err := database.NewCacheBuilder(r.cache, key).WithContext(ctx).Get(&cached)
	if err != nil {
		log.Warn("failed to read cached dataset count", "key", key, "error", err)
	} else if found {
		return cached.Count, nil
	}

	count, err := r.DatasetReader.Count(ctx, path)
	if err != nil {
		return 0, err
	}

	err = database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithStruct(datasetCount{Count: count}).
		WithTTL(DATASET_COUNT_CACHE_TTL).
		Set()
	if err != nil {
		log.Warn("failed to cache dataset count", "key", key, "error", err)
	}

	return count, nil
}

func countCacheKey(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}

	return fmt.Sprintf(
		"%s:%s:%d:%d",
		DATASET_COUNT_CACHE_PREFIX,
		path,
		info.Size(),
		info.ModTime().UnixNano(),
	), true
}
