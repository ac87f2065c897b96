package imports

// ImportRecord is one entry of a catalog dataset. Every reference can arrive
// as an id, a name or both.
type ImportRecord struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	LabelID       *int      `json:"labelId,omitempty"`
	LabelName     *string   `json:"labelName,omitempty"`
	CountryID     *int      `json:"countryId,omitempty"`
	CountryName   *string   `json:"countryName,omitempty"`
	FormatID      *int      `json:"formatId,omitempty"`
	FormatName    *string   `json:"formatName,omitempty"`
	PackagingID   *int      `json:"packagingId,omitempty"`
	PackagingName *string   `json:"packagingName,omitempty"`
	ArtistIDs     []int     `json:"artistIds,omitempty"`
	ArtistNames   []string  `json:"artistNames,omitempty"`
	GenreIDs      []int     `json:"genreIds,omitempty"`
	GenreNames    []string  `json:"genreNames,omitempty"`
	ReleaseYear   *string   `json:"releaseYear,omitempty"`
	CatalogNumber *string   `json:"catalogNumber,omitempty"`
	UPC           *string   `json:"upc,omitempty"`
	DateAdded     Timestamp `json:"dateAdded"`
	LastModified  Timestamp `json:"lastModified"`
}
