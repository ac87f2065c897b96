package models

type Artist struct {
	LookupModel
}

func (Artist) Kind() LookupKind { return LookupArtist }
