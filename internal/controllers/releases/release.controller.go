package releaseController

import (
	"context"
	. "crate/internal/models"
	"crate/internal/services"
	"fmt"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
)

type ReleaseControllerInterface interface {
	CreateRelease(ctx context.Context, req services.CreateReleaseRequest, force bool) (*Release, error)
	CheckDuplicates(ctx context.Context, query services.DuplicateQuery) (*DuplicatesResponse, error)
}

type ReleaseCreator interface {
	Create(ctx context.Context, request services.CreateReleaseRequest, force bool) (*Release, error)
	CheckDuplicates(ctx context.Context, query services.DuplicateQuery) ([]services.DuplicateCandidate, error)
}

type ReleaseController struct {
	releases ReleaseCreator
	log      logger.Logger
}

type DuplicatesResponse struct {
	IsDuplicate bool                          `json:"isDuplicate"`
	Candidates  []services.DuplicateCandidate `json:"candidates"`
}

func New(releases ReleaseCreator) *ReleaseController {
	return &ReleaseController{
		releases: releases,
		log:      logger.New("releaseController"),
	}
}

func (c *ReleaseController) CreateRelease(
	ctx context.Context,
	req services.CreateReleaseRequest,
	force bool,
) (*Release, error) {
	log := c.log.Function("CreateRelease")

	release, err := c.releases.Create(ctx, req, force)
	if err != nil {
		return nil, err
	}

	log.Info("Release created", "releaseID", release.ID, "title", release.Title, "forced", force)
	return release, nil
}

func (c *ReleaseController) CheckDuplicates(
	ctx context.Context,
	query services.DuplicateQuery,
) (*DuplicatesResponse, error) {
	if strings.TrimSpace(query.Title) == "" && (query.CatalogNumber == nil || strings.TrimSpace(*query.CatalogNumber) == "") {
		return nil, fmt.Errorf("%w: title or catalogNumber is required", services.ErrInvalidRelease)
	}

	candidates, err := c.releases.CheckDuplicates(ctx, query)
	if err != nil {
		return nil, c.log.Function("CheckDuplicates").Err("failed to check duplicates", err)
	}
	if candidates == nil {
		candidates = []services.DuplicateCandidate{}
	}

	return &DuplicatesResponse{IsDuplicate: len(candidates) > 0, Candidates: candidates}, nil
}
