package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Release struct {
	BaseModel
	ExternalID    *int64                   `gorm:"uniqueIndex:idx_releases_external_id"      json:"externalId,omitempty"`
	Title         string                   `gorm:"type:text;not null;index:idx_releases_title" json:"title"`
	ReleaseYear   *string                  `gorm:"type:text"                                 json:"releaseYear,omitempty"`
	CatalogNumber *string                  `gorm:"type:text;index:idx_releases_catalog_number" json:"catalogNumber,omitempty"`
	UPC           *string                  `gorm:"column:upc;type:text"                      json:"upc,omitempty"`
	LabelID       *int                     `gorm:"index:idx_releases_label"                  json:"labelId,omitempty"`
	CountryID     *int                     `gorm:"index:idx_releases_country"                json:"countryId,omitempty"`
	FormatID      *int                     `gorm:"index:idx_releases_format"                 json:"formatId,omitempty"`
	PackagingID   *int                     `gorm:"index:idx_releases_packaging"              json:"packagingId,omitempty"`
	ArtistIDs     datatypes.JSONSlice[int] `gorm:"column:artist_ids"                         json:"artistIds"`
	GenreIDs      datatypes.JSONSlice[int] `gorm:"column:genre_ids"                          json:"genreIds"`
	DateAdded     time.Time                `                                                 json:"dateAdded"`
	LastModified  time.Time                `                                                 json:"lastModified"`
	OwnerID       uuid.UUID                `gorm:"type:uuid;index"                           json:"ownerId"`

	Label     *Label     `gorm:"foreignKey:LabelID"     json:"label,omitempty"`
	Country   *Country   `gorm:"foreignKey:CountryID"   json:"country,omitempty"`
	Format    *Format    `gorm:"foreignKey:FormatID"    json:"format,omitempty"`
	Packaging *Packaging `gorm:"foreignKey:PackagingID" json:"packaging,omitempty"`
}

func (r *Release) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(r.Title) == "" {
		return gorm.ErrInvalidValue
	}
	if r.ArtistIDs == nil {
		r.ArtistIDs = datatypes.JSONSlice[int]{}
	}
	if r.GenreIDs == nil {
		r.GenreIDs = datatypes.JSONSlice[int]{}
	}
	return nil
}

