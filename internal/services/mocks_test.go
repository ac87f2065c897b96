package services

import (
	"context"
	"crate/internal/events"
	"crate/internal/imports"
	"crate/internal/models"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockTransactionRunner struct {
	mock.Mock
}

func (m *MockTransactionRunner) Execute(ctx context.Context, fn TransactionFunc) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, nil)
}

func (m *MockTransactionRunner) Nested(ctx context.Context, tx *gorm.DB, fn TransactionFunc) error {
	return fn(ctx, tx)
}

type MockReleaseRepository struct {
	mock.Mock
}

func (m *MockReleaseRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.Release, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Release), args.Error(1)
}

func (m *MockReleaseRepository) GetByExternalID(
	ctx context.Context,
	tx *gorm.DB,
	externalID int64,
) (*models.Release, error) {
	args := m.Called(ctx, tx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Release), args.Error(1)
}

func (m *MockReleaseRepository) GetByCatalogNumber(
	ctx context.Context,
	tx *gorm.DB,
	catalogNumber string,
) ([]*models.Release, error) {
	args := m.Called(ctx, tx, catalogNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Release), args.Error(1)
}

func (m *MockReleaseRepository) GetByTitle(ctx context.Context, tx *gorm.DB, title string) ([]*models.Release, error) {
	args := m.Called(ctx, tx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Release), args.Error(1)
}

func (m *MockReleaseRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	release *models.Release,
) (*models.Release, error) {
	args := m.Called(ctx, tx, release)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Release), args.Error(1)
}

func (m *MockReleaseRepository) UpdateUPC(
	ctx context.Context,
	tx *gorm.DB,
	release *models.Release,
	upc string,
) error {
	args := m.Called(ctx, tx, release, upc)
	return args.Error(0)
}

func (m *MockReleaseRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

type MockRecordResolver struct {
	mock.Mock
}

func (m *MockRecordResolver) ResolveReferences(
	ctx context.Context,
	tx *gorm.DB,
	refs ReleaseReferences,
	acc *CreatedEntities,
) (*ResolvedReferences, error) {
	args := m.Called(ctx, tx, refs, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResolvedReferences), args.Error(1)
}

type MockBatchProcessor struct {
	mock.Mock
}

func (m *MockBatchProcessor) ProcessBatchResults(
	ctx context.Context,
	records []imports.ImportRecord,
) (*BatchResult, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BatchResult), args.Error(1)
}

func (m *MockBatchProcessor) UpdateUpcBatch(ctx context.Context, records []imports.ImportRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockBatchProcessor) ValidateLookupData(ctx context.Context) (*LookupValidation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LookupValidation), args.Error(1)
}

type MockDatasetReader struct {
	mock.Mock
}

func (m *MockDatasetReader) Exists(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

func (m *MockDatasetReader) ReadRecords(ctx context.Context, path string) ([]imports.ImportRecord, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]imports.ImportRecord), args.Error(1)
}

func (m *MockDatasetReader) Count(ctx context.Context, path string) (int, error) {
	args := m.Called(ctx, path)
	return args.Int(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishImport(
	ctx context.Context,
	eventType events.MessageType,
	data map[string]any,
) error {
	args := m.Called(ctx, eventType, data)
	return args.Error(0)
}

type stubCounter struct {
	kind  models.LookupKind
	count int64
	err   error
}

func (c stubCounter) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	return c.count, c.err
}

func (c stubCounter) Kind() models.LookupKind {
	return c.kind
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func importRecords(count int) []imports.ImportRecord {
	records := make([]imports.ImportRecord, count)
	for i := range records {
		records[i] = imports.ImportRecord{ID: int64(i + 1), Title: "Release"}
	}
	return records
}
