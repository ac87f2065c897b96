package services

import (
	"context"
	. "crate/internal/models"
	"crate/internal/repositories"
	"crate/internal/utils"
	"slices"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type MatchReason string

const (
	MATCH_CATALOG_NUMBER MatchReason = "catalog_number"
	MATCH_TITLE_ARTIST   MatchReason = "title_artist"
)

type DuplicateQuery struct {
	CatalogNumber *string  `json:"catalogNumber,omitempty"`
	Title         string   `json:"title"`
	ArtistNames   []string `json:"artistNames,omitempty"`
	ExcludeID     *int     `json:"excludeId,omitempty"`
}

type DuplicateCandidate struct {
	Release     *Release    `json:"release"`
	MatchReason MatchReason `json:"matchReason"`
}

// DuplicateDetectorService finds releases that probably describe the same
// record: an equal catalog number, or an equal title sharing at least one
// artist name. Comparisons ignore case and surrounding whitespace.
type DuplicateDetectorService struct {
	releaseRepo repositories.ReleaseRepository
	artistRepo  repositories.LookupRepository[Artist]
	log         logger.Logger
}

func NewDuplicateDetectorService(
	releaseRepo repositories.ReleaseRepository,
	artistRepo repositories.LookupRepository[Artist],
) *DuplicateDetectorService {
	return &DuplicateDetectorService{
		releaseRepo: releaseRepo,
		artistRepo:  artistRepo,
		log:         logger.New("duplicateDetectorService"),
	}
}

// FindDuplicates returns the matching releases ordered by id. The result is
// never nil.
func (s *DuplicateDetectorService) FindDuplicates(
	ctx context.Context,
	query DuplicateQuery,
) ([]*Release, error) {
	candidates, err := s.FindCandidates(ctx, nil, query)
	if err != nil {
		return nil, err
	}

	releases := make([]*Release, 0, len(candidates))
	for _, candidate := range candidates {
		releases = append(releases, candidate.Release)
	}

	return releases, nil
}

func (s *DuplicateDetectorService) IsDuplicate(ctx context.Context, query DuplicateQuery) (bool, error) {
	duplicates, err := s.FindDuplicates(ctx, query)
	if err != nil {
		return false, err
	}
	return len(duplicates) > 0, nil
}

// FindCandidates is FindDuplicates with the reason each release matched.
// A release matching both ways reports the catalog number.
func (s *DuplicateDetectorService) FindCandidates(
	ctx context.Context,
	tx *gorm.DB,
	query DuplicateQuery,
) ([]DuplicateCandidate, error) {
	log := s.log.Function("FindCandidates")

	matches := make(map[int]DuplicateCandidate)

	if catalogNumber := utils.TrimmedOrNil(query.CatalogNumber); catalogNumber != nil {
		releases, err := s.releaseRepo.GetByCatalogNumber(ctx, tx, *catalogNumber)
		if err != nil {
			return nil, log.Err("failed to match catalog number", err, "catalogNumber", *catalogNumber)
		}
		for _, release := range releases {
			matches[release.ID] = DuplicateCandidate{Release: release, MatchReason: MATCH_CATALOG_NUMBER}
		}
	}

	titleMatches, err := s.matchTitleAndArtists(ctx, tx, query.Title, query.ArtistNames)
	if err != nil {
		return nil, log.Err("failed to match title and artists", err, "title", query.Title)
	}
	for _, release := range titleMatches {
		if _, ok := matches[release.ID]; !ok {
			matches[release.ID] = DuplicateCandidate{Release: release, MatchReason: MATCH_TITLE_ARTIST}
		}
	}

	if query.ExcludeID != nil {
		delete(matches, *query.ExcludeID)
	}

	candidates := make([]DuplicateCandidate, 0, len(matches))
	for _, candidate := range matches {
		candidates = append(candidates, candidate)
	}
	slices.SortFunc(candidates, func(a, b DuplicateCandidate) int {
		return a.Release.ID - b.Release.ID
	})

	return candidates, nil
}

func (s *DuplicateDetectorService) matchTitleAndArtists(
	ctx context.Context,
	tx *gorm.DB,
	title string,
	artistNames []string,
) ([]*Release, error) {
	wanted := make(map[string]struct{}, len(artistNames))
	for _, name := range artistNames {
		if normalized := utils.NormalizeName(name); normalized != "" {
			wanted[normalized] = struct{}{}
		}
	}

	if utils.NormalizeName(title) == "" || len(wanted) == 0 {
		return nil, nil
	}

	releases, err := s.releaseRepo.GetByTitle(ctx, tx, title)
	if err != nil || len(releases) == 0 {
		return nil, err
	}

	var artistIDs []int
	for _, release := range releases {
		artistIDs = append(artistIDs, release.ArtistIDs...)
	}
	slices.Sort(artistIDs)
	artistIDs = slices.Compact(artistIDs)

	artists, err := s.artistRepo.GetByIDs(ctx, tx, artistIDs)
	if err != nil {
		return nil, err
	}

	artistNamesByID := make(map[int]string, len(artists))
	for _, artist := range artists {
		artistNamesByID[artist.ID] = utils.NormalizeName(artist.Name)
	}

	var matched []*Release
	for _, release := range releases {
		for _, artistID := range release.ArtistIDs {
			if _, ok := wanted[artistNamesByID[artistID]]; ok {
				matched = append(matched, release)
				break
			}
		}
	}

	return matched, nil
}
