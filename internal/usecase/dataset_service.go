package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/store"
	"github.com/riskibarqy/statlink/internal/platform/logging"
)

// DatasetService produces the merged, one-row-per-player-season dataset.
type DatasetService struct {
	uow      store.UnitOfWork
	richness playerstats.Richness
	logger   *logging.Logger
}

func NewDatasetService(uow store.UnitOfWork, richness playerstats.Richness, logger *logging.Logger) *DatasetService {
	if richness == nil {
		richness = playerstats.ByTackles
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DatasetService{uow: uow, richness: richness, logger: logger}
}

func (s *DatasetService) Build(ctx context.Context, filter playerstats.DatasetFilter) ([]playerstats.DatasetRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DatasetService.Build")
	defer span.End()

	filter.LeagueCode = strings.TrimSpace(filter.LeagueCode)
	filter.PlayerName = strings.TrimSpace(filter.PlayerName)
	if filter.SeasonYear < 0 {
		return nil, fmt.Errorf("%w: season year must not be negative", ErrInvalidInput)
	}

	rows, err := s.uow.Reader().Stats.ListDataset(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list dataset rows: %v", ErrDependencyUnavailable, err)
	}

	merged := playerstats.Merge(rows, s.richness)
	s.logger.DebugContext(ctx, "dataset built",
		"league", filter.LeagueCode,
		"season", filter.SeasonYear,
		"rows", len(rows),
		"merged", len(merged),
	)
	return merged, nil
}
