package models

type Format struct {
	LookupModel
}

func (Format) Kind() LookupKind { return LookupFormat }
