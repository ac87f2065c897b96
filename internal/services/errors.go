package services

import (
	"errors"
	"fmt"
)

var (
	ErrImportInProgress = errors.New("catalog import already in progress")
	ErrDuplicateRelease = errors.New("release duplicates an existing catalog entry")
	ErrInvalidRelease   = errors.New("invalid release")
	ErrReleaseExists    = errors.New("release with this external id already exists")
)

// DuplicateReleaseError carries the releases that blocked a create.
type DuplicateReleaseError struct {
	Candidates []DuplicateCandidate
}

func (e *DuplicateReleaseError) Error() string {
	return fmt.Sprintf("%s: %d candidate(s)", ErrDuplicateRelease.Error(), len(e.Candidates))
}

func (e *DuplicateReleaseError) Unwrap() error {
	return ErrDuplicateRelease
}

var ErrInvalidBatchRequest = errors.New("invalid import batch request")
