package main

import (
	"context"
	"crate/config"
	"crate/internal/app"
	"crate/internal/services"
)

type catalogImporter interface {
	ImportAll(ctx context.Context) (int, error)
	ImportBatch(ctx context.Context, batchSize, skipCount int) (int, error)
	UpdateUpcValues(ctx context.Context) (int, error)
	GetProgress(ctx context.Context) (*services.ImportProgress, error)
	ValidateLookupData(ctx context.Context) (*services.LookupValidation, error)
}

// importerOpener builds an importer for the dataset at path, or the
// configured dataset when path is empty. The returned func releases it.
type importerOpener func(datasetPath string) (catalogImporter, func() error, error)

type commandContext struct {
	datasetFlag *string
	jsonFlag    *bool
	open        importerOpener
}

func newCommandContext(datasetFlag *string, jsonFlag *bool, open importerOpener) *commandContext {
	return &commandContext{
		datasetFlag: datasetFlag,
		jsonFlag:    jsonFlag,
		open:        open,
	}
}

func (c *commandContext) withImporter(fn func(importer catalogImporter) error) error {
	importer, closeFn, err := c.open(*c.datasetFlag)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	return fn(importer)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func defaultOpener(datasetPath string) (catalogImporter, func() error, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	if datasetPath != "" {
		cfg.ImportDatasetPath = datasetPath
	}

	a, err := app.NewWithConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	return a.Services.CatalogImport, a.Close, nil
}
