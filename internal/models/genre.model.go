package models

type Genre struct {
	LookupModel
}

func (Genre) Kind() LookupKind { return LookupGenre }
