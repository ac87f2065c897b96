package controllers

import (
	"crate/internal/services"

	catalogController "crate/internal/controllers/catalog"
	releaseController "crate/internal/controllers/releases"
)

type Controllers struct {
	Catalog catalogController.CatalogControllerInterface
	Release releaseController.ReleaseControllerInterface
}

func New(services services.Service) Controllers {
	return Controllers{
		Catalog: catalogController.New(services.CatalogImport, services.Scheduler),
		Release: releaseController.New(services.Release),
	}
}
