package services

import (
	. "crate/internal/models"
)

// Reference points at a lookup row either by store id or by name.
type Reference interface {
	isReference()
}

type ByID int

type ByName string

func (ByID) isReference()   {}
func (ByName) isReference() {}

// RefsFrom builds the ordered reference list for a nullable id/name pair.
// The id is tried first.
func RefsFrom(id *int, name *string) []Reference {
	var refs []Reference
	if id != nil {
		refs = append(refs, ByID(*id))
	}
	if name != nil {
		refs = append(refs, ByName(*name))
	}
	return refs
}

// CreatedEntities collects the lookup rows inserted while resolving
// references.
type CreatedEntities struct {
	Artists    []*Artist    `json:"artists"`
	Genres     []*Genre     `json:"genres"`
	Labels     []*Label     `json:"labels"`
	Countries  []*Country   `json:"countries"`
	Formats    []*Format    `json:"formats"`
	Packagings []*Packaging `json:"packagings"`
}

func NewCreatedEntities() *CreatedEntities {
	return &CreatedEntities{}
}

func (c *CreatedEntities) add(row LookupRow) {
	switch created := row.(type) {
	case *Artist:
		c.Artists = append(c.Artists, created)
	case *Genre:
		c.Genres = append(c.Genres, created)
	case *Label:
		c.Labels = append(c.Labels, created)
	case *Country:
		c.Countries = append(c.Countries, created)
	case *Format:
		c.Formats = append(c.Formats, created)
	case *Packaging:
		c.Packagings = append(c.Packagings, created)
	}
}

func (c *CreatedEntities) Merge(other *CreatedEntities) {
	if other == nil {
		return
	}
	c.Artists = append(c.Artists, other.Artists...)
	c.Genres = append(c.Genres, other.Genres...)
	c.Labels = append(c.Labels, other.Labels...)
	c.Countries = append(c.Countries, other.Countries...)
	c.Formats = append(c.Formats, other.Formats...)
	c.Packagings = append(c.Packagings, other.Packagings...)
}

func (c *CreatedEntities) Counts() map[LookupKind]int {
	return map[LookupKind]int{
		LookupArtist:    len(c.Artists),
		LookupGenre:     len(c.Genres),
		LookupLabel:     len(c.Labels),
		LookupCountry:   len(c.Countries),
		LookupFormat:    len(c.Formats),
		LookupPackaging: len(c.Packagings),
	}
}

func (c *CreatedEntities) Total() int {
	total := 0
	for _, count := range c.Counts() {
		total += count
	}
	return total
}
