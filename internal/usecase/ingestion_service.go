package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/statlink/internal/domain/league"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/source"
	"github.com/riskibarqy/statlink/internal/domain/store"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const maxReportedRecordErrors = 50

// TeamRef is a team announced with its primary-source id.
type TeamRef struct {
	ExternalID int64  `json:"id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required"`
}

// PrimaryBatch is one league season of offensive records.
type PrimaryBatch struct {
	League     string          `json:"league" validate:"required"`
	LeagueName string          `json:"league_name"`
	Season     int             `json:"season" validate:"required,gte=1870,lte=2200"`
	Teams      []TeamRef       `json:"teams" validate:"dive"`
	Records    []source.Fields `json:"records"`
}

// SecondaryBatch is one league season of defensive records.
type SecondaryBatch struct {
	League     string          `json:"league" validate:"required"`
	LeagueName string          `json:"league_name"`
	Season     int             `json:"season" validate:"required,gte=1870,lte=2200"`
	PerGame    bool            `json:"per_game"`
	Records    []source.Fields `json:"records"`
}

type EntityCounts struct {
	Created int `json:"created"`
	Reused  int `json:"reused"`
	Errored int `json:"errored,omitempty"`
}

func (c *EntityCounts) add(o Outcome) {
	switch o {
	case OutcomeCreated:
		c.Created++
	case OutcomeReused:
		c.Reused++
	}
}

// RecordError describes one skipped input. Entity is "team" for a failed
// team reference, in which case Index points into the batch's Teams.
type RecordError struct {
	Index      int    `json:"index"`
	Entity     string `json:"entity,omitempty"`
	ExternalID int64  `json:"external_id,omitempty"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
}

// BatchSummary counts what one batch did. Errored records were rolled back
// and skipped; the rest of the batch still committed.
type BatchSummary struct {
	Source   string        `json:"source"`
	League   string        `json:"league"`
	Season   int           `json:"season"`
	Records  int           `json:"records"`
	Ingested int           `json:"ingested"`
	Errored  int           `json:"errored"`
	Teams    EntityCounts  `json:"teams"`
	Players  EntityCounts  `json:"players"`
	Stats    EntityCounts  `json:"stats"`
	Errors   []RecordError `json:"errors,omitempty"`
}

func (s *BatchSummary) recordError(ctx context.Context, logger *logging.Logger, index int, externalID int64, err error) {
	s.Errored++
	kind := errorKind(err)
	logger.WarnContext(ctx, "skip record",
		"source", s.Source,
		"league", s.League,
		"season", s.Season,
		"index", index,
		"external_id", externalID,
		"kind", kind,
		"error", err,
	)
	s.appendError(RecordError{Index: index, ExternalID: externalID, Kind: kind, Message: err.Error()})
}

// teamError tallies a team reference that could not be stored. It does not
// touch Errored, which counts records only.
func (s *BatchSummary) teamError(ctx context.Context, logger *logging.Logger, index int, ref TeamRef, err error) {
	s.Teams.Errored++
	kind := errorKind(err)
	logger.WarnContext(ctx, "skip team",
		"source", s.Source,
		"league", s.League,
		"season", s.Season,
		"index", index,
		"external_id", ref.ExternalID,
		"name", ref.Name,
		"kind", kind,
		"error", err,
	)
	s.appendError(RecordError{Index: index, Entity: "team", ExternalID: ref.ExternalID, Kind: kind, Message: err.Error()})
}

func (s *BatchSummary) appendError(e RecordError) {
	if len(s.Errors) < maxReportedRecordErrors {
		s.Errors = append(s.Errors, e)
	}
}

func errorKind(err error) string {
	switch {
	case IsIdentityConflict(err):
		return "identity_conflict"
	case errors.Is(err, source.ErrMissingIdentity), errors.Is(err, ErrInvalidInput):
		return "invalid_record"
	default:
		return "store"
	}
}

type IngestionService struct {
	uow        store.UnitOfWork
	upserts    *UpsertService
	maxWorkers int
	logger     *logging.Logger
}

func NewIngestionService(
	uow store.UnitOfWork,
	upserts *UpsertService,
	maxWorkers int,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &IngestionService{
		uow:        uow,
		upserts:    upserts,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

type seasonScope struct {
	league league.League
	season league.Season
}

func (s *IngestionService) prepareSeason(ctx context.Context, code, displayName string, year int) (seasonScope, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return seasonScope{}, fmt.Errorf("%w: league is required", ErrInvalidInput)
	}
	if err := (league.Season{LeagueID: 1, Year: year}).Validate(); err != nil {
		return seasonScope{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var scope seasonScope
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		l, _, err := s.upserts.GetOrCreateLeague(ctx, tx, code, displayName)
		if err != nil {
			return err
		}
		season, _, err := s.upserts.GetOrCreateSeason(ctx, tx, l.ID, year)
		if err != nil {
			return err
		}
		scope = seasonScope{league: l, season: season}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return seasonScope{}, err
		}
		return seasonScope{}, fmt.Errorf("%w: prepare league %s season %d: %v", ErrDependencyUnavailable, code, year, err)
	}
	return scope, nil
}

func (s *IngestionService) IngestPrimary(ctx context.Context, batch PrimaryBatch) (BatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestPrimary",
		batchSpanAttrs(source.Primary, batch.League, batch.Season, len(batch.Records))...)
	defer span.End()

	summary := BatchSummary{
		Source:  string(source.Primary),
		League:  strings.TrimSpace(batch.League),
		Season:  batch.Season,
		Records: len(batch.Records),
	}
	scope, err := s.prepareSeason(ctx, batch.League, batch.LeagueName, batch.Season)
	if err != nil {
		return summary, err
	}
	for i, ref := range batch.Teams {
		var outcome Outcome
		err := s.uow.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
			var err error
			_, outcome, err = s.upserts.GetOrCreateTeam(ctx, tx, scope.league.ID, ref.ExternalID, ref.Name)
			return err
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			summary.teamError(ctx, s.logger, i, ref, err)
			continue
		}
		summary.Teams.add(outcome)
	}

	for i, fields := range batch.Records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rec, err := source.ParsePrimary(fields)
		if err != nil {
			summary.recordError(ctx, s.logger, i, 0, err)
			continue
		}

		var teamOutcome, playerOutcome, statsOutcome Outcome
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
			t, outcome, err := s.upserts.ResolveOrCreateTeam(ctx, tx, scope.league.ID, rec.TeamName)
			if err != nil {
				return err
			}
			teamOutcome = outcome

			p, outcome, err := s.upserts.GetOrCreatePlayer(ctx, tx, rec.PlayerExternalID, rec.PlayerName)
			if err != nil {
				return err
			}
			playerOutcome = outcome

			_, statsOutcome, err = s.upserts.UpsertOffensiveStats(ctx, tx, playerstats.OffensiveRow{
				PlayerID:         p.ID,
				SeasonID:         scope.season.ID,
				TeamID:           t.ID,
				OffensiveMetrics: rec.OffensiveMetrics,
			})
			return err
		})
		if err != nil {
			summary.recordError(ctx, s.logger, i, rec.PlayerExternalID, err)
			continue
		}

		summary.Ingested++
		summary.Teams.add(teamOutcome)
		summary.Players.add(playerOutcome)
		summary.Stats.add(statsOutcome)
	}

	s.logSummary(ctx, summary)
	return summary, nil
}

func (s *IngestionService) IngestSecondary(ctx context.Context, batch SecondaryBatch) (BatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestSecondary",
		batchSpanAttrs(source.Secondary, batch.League, batch.Season, len(batch.Records))...)
	defer span.End()

	summary := BatchSummary{
		Source:  string(source.Secondary),
		League:  strings.TrimSpace(batch.League),
		Season:  batch.Season,
		Records: len(batch.Records),
	}
	scope, err := s.prepareSeason(ctx, batch.League, batch.LeagueName, batch.Season)
	if err != nil {
		return summary, err
	}
	opts := source.SecondaryOptions{PerGame: batch.PerGame}
	for i, fields := range batch.Records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rec, err := source.ParseSecondary(fields, opts)
		if err != nil {
			summary.recordError(ctx, s.logger, i, 0, err)
			continue
		}

		var teamOutcome, playerOutcome, statsOutcome Outcome
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
			t, outcome, err := s.upserts.ResolveOrCreateTeam(ctx, tx, scope.league.ID, rec.TeamName)
			if err != nil {
				return err
			}
			teamOutcome = outcome

			sp, outcome, err := s.upserts.GetOrCreateSecondaryPlayer(ctx, tx, rec.PlayerExternalID, rec.PlayerName)
			if err != nil {
				return err
			}
			playerOutcome = outcome

			_, statsOutcome, err = s.upserts.UpsertDefensiveStats(ctx, tx, playerstats.DefensiveRow{
				SecondaryPlayerID: sp.ID,
				SeasonID:          scope.season.ID,
				TeamID:            t.ID,
				DefensiveMetrics:  rec.DefensiveMetrics,
			})
			return err
		})
		if err != nil {
			summary.recordError(ctx, s.logger, i, rec.PlayerExternalID, err)
			continue
		}

		summary.Ingested++
		summary.Teams.add(teamOutcome)
		summary.Players.add(playerOutcome)
		summary.Stats.add(statsOutcome)
	}

	s.logSummary(ctx, summary)
	return summary, nil
}

type indexedSummary struct {
	index   int
	summary BatchSummary
}

// IngestBatches runs several batches concurrently, bounded by the configured
// worker count. Summaries come back in input order, primaries first; a batch
// that fails setup still reports its (empty) summary.
func (s *IngestionService) IngestBatches(ctx context.Context, primaries []PrimaryBatch, secondaries []SecondaryBatch) ([]BatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestBatches")
	defer span.End()

	total := len(primaries) + len(secondaries)
	if total == 0 {
		return nil, fmt.Errorf("%w: at least one batch is required", ErrInvalidInput)
	}

	workers := s.maxWorkers
	if workers > total {
		workers = total
	}
	p := pool.NewWithResults[indexedSummary]().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCollectErrored()

	for i, batch := range primaries {
		i, batch := i, batch
		p.Go(func(ctx context.Context) (indexedSummary, error) {
			summary, err := s.IngestPrimary(ctx, batch)
			return indexedSummary{index: i, summary: summary}, err
		})
	}
	for i, batch := range secondaries {
		i, batch := len(primaries)+i, batch
		p.Go(func(ctx context.Context) (indexedSummary, error) {
			summary, err := s.IngestSecondary(ctx, batch)
			return indexedSummary{index: i, summary: summary}, err
		})
	}

	results, err := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	out := make([]BatchSummary, 0, len(results))
	for _, r := range results {
		out = append(out, r.summary)
	}
	return out, err
}

func (s *IngestionService) logSummary(ctx context.Context, summary BatchSummary) {
	s.logger.InfoContext(ctx, "batch ingested",
		"source", summary.Source,
		"league", summary.League,
		"season", summary.Season,
		"records", summary.Records,
		"ingested", summary.Ingested,
		"errored", summary.Errored,
		"teams_created", summary.Teams.Created,
		"teams_errored", summary.Teams.Errored,
		"players_created", summary.Players.Created,
		"players_reused", summary.Players.Reused,
		"stats_created", summary.Stats.Created,
		"stats_updated", summary.Stats.Reused,
	)
}
