package imports

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
)

const GZIP_EXTENSION = ".gz"

var errEmptyDataset = errors.New("dataset is empty")

// DatasetReader loads catalog datasets. An absent dataset is not an error:
// ReadRecords returns nil and Count returns 0.
type DatasetReader interface {
	Exists(path string) (bool, error)
	ReadRecords(ctx context.Context, path string) ([]ImportRecord, error)
	Count(ctx context.Context, path string) (int, error)
}

// JSONDatasetReader reads a top-level JSON array of records from a .json or
// .json.gz file.
type JSONDatasetReader struct {
	log logger.Logger
}

func NewJSONDatasetReader() *JSONDatasetReader {
	return &JSONDatasetReader{
		log: logger.New("jsonDatasetReader"),
	}
}

func (r *JSONDatasetReader) Exists(path string) (bool, error) {
	log := r.log.Function("Exists")

	if path == "" {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, log.Err("failed to stat dataset", err, "path", path)
	}

	if info.IsDir() {
		return false, log.Error("dataset path is a directory", "path", path)
	}

	return true, nil
}

func (r *JSONDatasetReader) ReadRecords(ctx context.Context, path string) ([]ImportRecord, error) {
	log := r.log.Function("ReadRecords")

	exists, err := r.Exists(path)
	if err != nil || !exists {
		return nil, err
	}

	stream, err := openDataset(path)
	if err != nil {
		return nil, log.Err("failed to open dataset", err, "path", path)
	}
	defer stream.Close()

	records, err := ReadArray[ImportRecord](ctx, stream)
	if err != nil {
		return nil, log.Err("failed to decode dataset", err, "path", path)
	}

	log.Info("Read dataset", "path", path, "records", len(records))
	return records, nil
}

// Count walks the array without decoding its elements.
func (r *JSONDatasetReader) Count(ctx context.Context, path string) (int, error) {
	log := r.log.Function("Count")

	exists, err := r.Exists(path)
	if err != nil || !exists {
		return 0, err
	}

	stream, err := openDataset(path)
	if err != nil {
		return 0, log.Err("failed to open dataset", err, "path", path)
	}
	defer stream.Close()

	count, err := CountArray(ctx, stream)
	if err != nil {
		return 0, log.Err("failed to count dataset records", err, "path", path)
	}

	return count, nil
}

// ReadArray decodes a JSON array element by element, checking ctx between
// elements.
func ReadArray[T any](ctx context.Context, reader io.Reader) ([]T, error) {
	decoder := json.NewDecoder(reader)

	if err := expectArrayStart(decoder); err != nil {
		if errors.Is(err, errEmptyDataset) {
			return []T{}, nil
		}
		return nil, err
	}

	items := []T{}
	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var item T
		if err := decoder.Decode(&item); err != nil {
			return nil, fmt.Errorf("element %d: %w", len(items), err)
		}
		items = append(items, item)
	}

	return items, expectArrayEnd(decoder)
}

func CountArray(ctx context.Context, reader io.Reader) (int, error) {
	decoder := json.NewDecoder(reader)

	if err := expectArrayStart(decoder); err != nil {
		if errors.Is(err, errEmptyDataset) {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		var skipped json.RawMessage
		if err := decoder.Decode(&skipped); err != nil {
			return 0, fmt.Errorf("element %d: %w", count, err)
		}
		count++
	}

	return count, expectArrayEnd(decoder)
}

func expectArrayStart(decoder *json.Decoder) error {
	token, err := decoder.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyDataset
		}
		return err
	}

	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("dataset must be a JSON array, found %v", token)
	}

	return nil
}

func expectArrayEnd(decoder *json.Decoder) error {
	if _, err := decoder.Token(); err != nil {
		return fmt.Errorf("unterminated JSON array: %w", err)
	}
	return nil
}

type datasetStream struct {
	io.Reader
	closers []io.Closer
}

func (s *datasetStream) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openDataset(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, GZIP_EXTENSION) {
		return &datasetStream{Reader: bufio.NewReader(file), closers: []io.Closer{file}}, nil
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}

	return &datasetStream{Reader: gz, closers: []io.Closer{file, gz}}, nil
}
