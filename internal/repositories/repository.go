package repositories

import (
	"crate/internal/database"
	. "crate/internal/models"
)

type Repository struct {
	Artist    LookupRepository[Artist]
	Genre     LookupRepository[Genre]
	Label     LookupRepository[Label]
	Country   LookupRepository[Country]
	Format    LookupRepository[Format]
	Packaging LookupRepository[Packaging]
	Release   ReleaseRepository
}

func New(db database.DB) Repository {
	return Repository{
		Artist:    NewLookupRepository[Artist](db),
		Genre:     NewLookupRepository[Genre](db),
		Label:     NewLookupRepository[Label](db),
		Country:   NewLookupRepository[Country](db),
		Format:    NewLookupRepository[Format](db),
		Packaging: NewLookupRepository[Packaging](db),
		Release:   NewReleaseRepository(db),
	}
}

// RequiredLookups are the tables an import cannot proceed without.
func (r Repository) RequiredLookups() []Counter {
	return []Counter{r.Country, r.Format, r.Label, r.Packaging}
}
