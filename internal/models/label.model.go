package models

type Label struct {
	LookupModel
}

func (Label) Kind() LookupKind { return LookupLabel }
