package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/statlink/internal/domain/league"
	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/player"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/store"
	"github.com/riskibarqy/statlink/internal/domain/team"
	"github.com/riskibarqy/statlink/internal/platform/logging"
)

// Outcome tells whether an upsert created a row or reused an existing one.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeReused  Outcome = "reused"
)

func outcomeOf(created bool) Outcome {
	if created {
		return OutcomeCreated
	}
	return OutcomeReused
}

// UpsertService is the create-or-reuse layer over one transaction. Every
// method takes the transaction explicitly; nothing is held between calls.
type UpsertService struct {
	teamResolver *matching.Resolver
	logger       *logging.Logger
}

func NewUpsertService(teamResolver *matching.Resolver, logger *logging.Logger) (*UpsertService, error) {
	if teamResolver == nil || teamResolver.Kind() != matching.KindTeam {
		return nil, fmt.Errorf("%w: a team resolver is required", ErrInvalidInput)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &UpsertService{
		teamResolver: teamResolver,
		logger:       logger,
	}, nil
}

func (s *UpsertService) GetOrCreateLeague(ctx context.Context, tx store.Tx, code, displayName string) (league.League, Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.GetOrCreateLeague")
	defer span.End()

	code = strings.TrimSpace(code)
	if code == "" {
		return league.League{}, "", fmt.Errorf("%w: league code is required", ErrInvalidInput)
	}

	if stored, ok, err := tx.Leagues.GetByCode(ctx, code); err != nil {
		return league.League{}, "", fmt.Errorf("get league code=%s: %w", code, err)
	} else if ok {
		return stored, OutcomeReused, nil
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = league.DisplayNameFor(code)
	}
	stored, created, err := tx.Leagues.InsertIfAbsent(ctx, league.League{Code: code, DisplayName: displayName})
	if err != nil {
		return league.League{}, "", fmt.Errorf("create league code=%s: %w", code, err)
	}

	return stored, outcomeOf(created), nil
}

func (s *UpsertService) GetOrCreateSeason(ctx context.Context, tx store.Tx, leagueID int64, year int) (league.Season, Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.GetOrCreateSeason")
	defer span.End()

	item := league.Season{LeagueID: leagueID, Year: year}
	if err := item.Validate(); err != nil {
		return league.Season{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if stored, ok, err := tx.Leagues.GetSeason(ctx, leagueID, year); err != nil {
		return league.Season{}, "", fmt.Errorf("get season league=%d year=%d: %w", leagueID, year, err)
	} else if ok {
		return stored, OutcomeReused, nil
	}

	stored, created, err := tx.Leagues.InsertSeasonIfAbsent(ctx, item)
	if err != nil {
		return league.Season{}, "", fmt.Errorf("create season league=%d year=%d: %w", leagueID, year, err)
	}

	return stored, outcomeOf(created), nil
}

// GetOrCreateTeam keys a team by the primary source's id. A placeholder team
// already holding the same name (exactly or through an alias) is promoted to
// the authoritative id instead of being duplicated.
func (s *UpsertService) GetOrCreateTeam(ctx context.Context, tx store.Tx, leagueID, externalID int64, name string) (team.Team, Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.GetOrCreateTeam")
	defer span.End()

	if externalID <= 0 {
		return team.Team{}, "", fmt.Errorf("%w: team external id must be positive", ErrInvalidInput)
	}
	name = player.NameOrUnknown(name)

	stored, ok, err := tx.Teams.GetByExternalID(ctx, externalID)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("get team external_id=%d: %w", externalID, err)
	}
	if ok {
		if !sameIdentity(stored.Name, name) || stored.LeagueID != leagueID {
			return team.Team{}, "", newIdentityConflict("primary", "team", externalID, stored.Name, name)
		}
		return stored, OutcomeReused, nil
	}

	existing, err := tx.Teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("list teams league=%d: %w", leagueID, err)
	}
	res := s.teamResolver.Resolve(name, teamIndex(s.teamResolver, existing))
	if res.Type == matching.MatchExact || res.Type == matching.MatchAlias {
		matched := findTeam(existing, res.Candidate.ID)
		if !matched.IsPlaceholder() {
			return team.Team{}, "", newIdentityConflict("primary", "team", externalID, matched.Name, name)
		}
		promoted, ok, err := tx.Teams.PromotePlaceholder(ctx, matched.ID, externalID, name)
		if err != nil {
			return team.Team{}, "", fmt.Errorf("promote placeholder team id=%d: %w", matched.ID, err)
		}
		if ok {
			s.logger.InfoContext(ctx, "placeholder team promoted",
				"team_id", matched.ID,
				"placeholder_id", matched.ExternalID,
				"external_id", externalID,
				"placeholder_name", matched.Name,
				"name", name,
			)
			return promoted, OutcomeReused, nil
		}
	}

	created, isNew, err := tx.Teams.InsertIfAbsent(ctx, team.Team{ExternalID: externalID, LeagueID: leagueID, Name: name})
	if err != nil {
		return team.Team{}, "", fmt.Errorf("create team external_id=%d: %w", externalID, err)
	}
	if !isNew && !sameIdentity(created.Name, name) {
		return team.Team{}, "", newIdentityConflict("primary", "team", externalID, created.Name, name)
	}

	return created, outcomeOf(isNew), nil
}

// ResolveOrCreateTeam finds a team by name within the league and creates a
// placeholder-keyed team when nothing matches.
func (s *UpsertService) ResolveOrCreateTeam(ctx context.Context, tx store.Tx, leagueID int64, name string) (team.Team, Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.ResolveOrCreateTeam")
	defer span.End()

	if leagueID <= 0 {
		return team.Team{}, "", fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	name = player.NameOrUnknown(name)

	existing, err := tx.Teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("list teams league=%d: %w", leagueID, err)
	}
	res := s.teamResolver.Resolve(name, teamIndex(s.teamResolver, existing))
	if res.Matched() {
		if res.Type == matching.MatchFuzzy {
			s.logger.DebugContext(ctx, "team resolved by similarity",
				"name", name,
				"team", res.Candidate.Name,
				"score", res.Score,
			)
		}
		return findTeam(existing, res.Candidate.ID), OutcomeReused, nil
	}

	seq, err := tx.Teams.NextPlaceholderSeq(ctx, leagueID)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("allocate placeholder league=%d: %w", leagueID, err)
	}
	placeholderID, err := team.PlaceholderID(leagueID, seq)
	if err != nil {
		return team.Team{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, isNew, err := tx.Teams.InsertIfAbsent(ctx, team.Team{ExternalID: placeholderID, LeagueID: leagueID, Name: name})
	if err != nil {
		return team.Team{}, "", fmt.Errorf("create placeholder team league=%d name=%q: %w", leagueID, name, err)
	}

	return created, outcomeOf(isNew), nil
}

func (s *UpsertService) GetOrCreatePlayer(ctx context.Context, tx store.Tx, externalID int64, name string) (player.Player, Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.GetOrCreatePlayer")
	defer span.End()

	item := player.Player{ExternalID: externalID, Name: player.NameOrUnknown(name)}
	if err := item.Validate(); err != nil {
		return player.Player{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, ok, err := tx.Players.GetByExternalID(ctx, externalID)
	if err != nil {
		return player.Player{}, "", fmt.Errorf("get player external_id=%d: %w", externalID, err)
	}
	created := false
	if !ok {
		stored, created, err = tx.Players.InsertIfAbsent(ctx, item)
		if err != nil {
			return player.Player{}, "", fmt.Errorf("create player external_id=%d: %w", externalID, err)
		}
	}
	if !created && !sameIdentity(stored.Name, item.Name) {
		return player.Player{}, "", newIdentityConflict("primary", "player", externalID, stored.Name, item.Name)
	}

	return stored, outcomeOf(created), nil
}

// GetOrCreateSecondaryPlayer never links the row; linking belongs to LinkService.
func (s *UpsertService) GetOrCreateSecondaryPlayer(ctx context.Context, tx store.Tx, externalID int64, name string) (player.Secondary, Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.GetOrCreateSecondaryPlayer")
	defer span.End()

	item := player.Secondary{ExternalID: externalID, Name: player.NameOrUnknown(name)}
	if err := item.Validate(); err != nil {
		return player.Secondary{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, ok, err := tx.SecondaryPlayers.GetByExternalID(ctx, externalID)
	if err != nil {
		return player.Secondary{}, "", fmt.Errorf("get secondary player external_id=%d: %w", externalID, err)
	}
	created := false
	if !ok {
		stored, created, err = tx.SecondaryPlayers.InsertIfAbsent(ctx, item)
		if err != nil {
			return player.Secondary{}, "", fmt.Errorf("create secondary player external_id=%d: %w", externalID, err)
		}
	}
	if !created && !sameIdentity(stored.Name, item.Name) {
		return player.Secondary{}, "", newIdentityConflict("secondary", "player", externalID, stored.Name, item.Name)
	}

	return stored, outcomeOf(created), nil
}

func (s *UpsertService) UpsertOffensiveStats(ctx context.Context, tx store.Tx, row playerstats.OffensiveRow) (playerstats.OffensiveRow, Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.UpsertOffensiveStats")
	defer span.End()

	if err := row.Validate(); err != nil {
		return playerstats.OffensiveRow{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, created, err := tx.Stats.UpsertOffensive(ctx, row)
	if err != nil {
		return playerstats.OffensiveRow{}, "", fmt.Errorf("upsert offensive stats: %w", err)
	}
	return stored, outcomeOf(created), nil
}

func (s *UpsertService) UpsertDefensiveStats(ctx context.Context, tx store.Tx, row playerstats.DefensiveRow) (playerstats.DefensiveRow, Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.UpsertDefensiveStats")
	defer span.End()

	if err := row.Validate(); err != nil {
		return playerstats.DefensiveRow{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, created, err := tx.Stats.UpsertDefensive(ctx, row)
	if err != nil {
		return playerstats.DefensiveRow{}, "", fmt.Errorf("upsert defensive stats: %w", err)
	}
	return stored, outcomeOf(created), nil
}

// sameIdentity compares names by normalized key. The "Unknown" fallback is
// compatible with any name.
func sameIdentity(stored, incoming string) bool {
	if stored == player.UnknownName || incoming == player.UnknownName {
		return true
	}
	return matching.Normalize(stored) == matching.Normalize(incoming)
}

func teamIndex(r *matching.Resolver, teams []team.Team) *matching.Index {
	candidates := make([]matching.Candidate, 0, len(teams))
	for _, item := range teams {
		candidates = append(candidates, matching.Candidate{ID: item.ID, Name: item.Name})
	}
	return r.NewIndex(candidates)
}

func findTeam(teams []team.Team, id int64) team.Team {
	for _, item := range teams {
		if item.ID == id {
			return item
		}
	}
	return team.Team{}
}
