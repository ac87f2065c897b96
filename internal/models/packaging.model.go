package models

type Packaging struct {
	LookupModel
}

func (Packaging) Kind() LookupKind { return LookupPackaging }
