package models

type Country struct {
	LookupModel
}

func (Country) Kind() LookupKind { return LookupCountry }
