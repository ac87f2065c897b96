package jobs

import (
	"context"
	"crate/config"
	"crate/internal/services"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogImporter struct {
	mock.Mock
}

func (m *MockCatalogImporter) ImportAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogImporter) DatasetPath() string {
	return "/data/releases.json"
}

func TestCatalogImportJob_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		importer := new(MockCatalogImporter)
		importer.On("ImportAll", ctx).Return(12, nil)

		job := NewCatalogImportJob(importer, services.Manual)

		assert.NoError(t, job.Execute(ctx))
		assert.Equal(t, CATALOG_IMPORT_JOB, job.Name())
		assert.Equal(t, services.Manual, job.Schedule())
		importer.AssertExpectations(t)
	})

	t.Run("import error", func(t *testing.T) {
		importer := new(MockCatalogImporter)
		importer.On("ImportAll", ctx).Return(3, services.ErrImportInProgress)

		job := NewCatalogImportJob(importer, services.Daily)

		err := job.Execute(ctx)
		assert.True(t, errors.Is(err, services.ErrImportInProgress))
	})
}

func TestRegisterAllJobs(t *testing.T) {
	testCases := []struct {
		name   string
		config config.Config
	}{
		{
			name:   "manual only",
			config: config.Config{},
		},
		{
			name: "daily schedule",
			config: config.Config{
				ImportScheduleEnabled: true,
				ImportScheduleAt:      "04:00",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scheduler := services.NewSchedulerService("04:00")
			defer func() { _ = scheduler.Stop(context.Background()) }()

			err := RegisterAllJobs(scheduler, tc.config, new(MockCatalogImporter))
			require.NoError(t, err)
			assert.Equal(t, 1, scheduler.GetJobCount())
		})
	}
}
