package models

import (
	"crate/internal/utils"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LookupKind string

const (
	LookupArtist    LookupKind = "artist"
	LookupGenre     LookupKind = "genre"
	LookupLabel     LookupKind = "label"
	LookupCountry   LookupKind = "country"
	LookupFormat    LookupKind = "format"
	LookupPackaging LookupKind = "packaging"
)

func (k LookupKind) String() string {
	return string(k)
}

func (k LookupKind) Plural() string {
	switch k {
	case LookupCountry:
		return "countries"
	default:
		return string(k) + "s"
	}
}

// LookupModel is the shared shape of every small reference table a release
// points at. NameLower is derived on save and is what name lookups match on.
type LookupModel struct {
	BaseModel
	Name      string    `gorm:"type:text;not null" json:"name"`
	NameLower string    `gorm:"type:text;not null;index" json:"-"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index"    json:"ownerId"`
}

func (m *LookupModel) BeforeSave(tx *gorm.DB) error {
	cleaned, _ := utils.CleanUTF8(m.Name)
	m.Name = strings.TrimSpace(cleaned)
	m.NameLower = utils.NormalizeName(m.Name)
	return nil
}

func (m *LookupModel) GetID() int {
	return m.ID
}

func (m *LookupModel) GetName() string {
	return m.Name
}

func (m *LookupModel) Assign(name string, ownerID uuid.UUID) {
	m.Name = name
	m.OwnerID = ownerID
}

// LookupRow is implemented by pointers to every lookup table model.
type LookupRow interface {
	GetID() int
	GetName() string
	Kind() LookupKind
	Assign(name string, ownerID uuid.UUID)
}

// LookupPtr constrains generic code to *T where T is a lookup model.
type LookupPtr[T any] interface {
	*T
	LookupRow
}
