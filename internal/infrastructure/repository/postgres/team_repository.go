package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/team"
	qb "github.com/riskibarqy/statlink/internal/platform/querybuilder"
)

const teamColumns = "id, external_id, league_id, name, name_key, created_at"

type TeamRepository struct {
	db sqlx.ExtContext
}

func NewTeamRepository(db sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID int64) (team.Team, bool, error) {
	return r.getOne(ctx, "external_id="+fmt.Sprint(externalID), qb.Eq("external_id", externalID))
}

func (r *TeamRepository) getPlaceholderByName(ctx context.Context, leagueID int64, nameKey string) (team.Team, bool, error) {
	return r.getOne(ctx, fmt.Sprintf("league=%d name_key=%s", leagueID, nameKey),
		qb.Eq("league_id", leagueID),
		qb.Eq("name_key", nameKey),
		qb.Expr("external_id < 0"),
	)
}

func (r *TeamRepository) getOne(ctx context.Context, desc string, conditions ...qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns).From("teams").
		Where(conditions...).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team %s: %w", desc, err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns).From("teams").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by league query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}

	return out, nil
}

// InsertIfAbsent relies on two unique indexes: external_id, and
// (league_id, name_key) over placeholder rows. Either clash falls back to
// reading the row that won.
func (r *TeamRepository) InsertIfAbsent(ctx context.Context, item team.Team) (team.Team, bool, error) {
	nameKey := matching.Normalize(item.Name)
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		ExternalID: item.ExternalID,
		LeagueID:   item.LeagueID,
		Name:       item.Name,
		NameKey:    nameKey,
	}, "ON CONFLICT DO NOTHING RETURNING "+teamColumns)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	err = sqlx.GetContext(ctx, r.db, &row, query, args...)
	if err == nil {
		return teamFromRow(row), true, nil
	}
	if !isNotFound(err) {
		return team.Team{}, false, fmt.Errorf("insert team external_id=%d: %w", item.ExternalID, err)
	}

	stored, ok, err := r.GetByExternalID(ctx, item.ExternalID)
	if err != nil {
		return team.Team{}, false, err
	}
	if !ok && item.IsPlaceholder() {
		stored, ok, err = r.getPlaceholderByName(ctx, item.LeagueID, nameKey)
		if err != nil {
			return team.Team{}, false, err
		}
	}
	if !ok {
		return team.Team{}, false, fmt.Errorf("team external_id=%d missing after insert conflict", item.ExternalID)
	}
	return stored, false, nil
}

func (r *TeamRepository) NextPlaceholderSeq(ctx context.Context, leagueID int64) (int64, error) {
	query, args, err := qb.InsertInto("team_placeholder_sequences").
		Columns("league_id", "last_value").
		Values(leagueID, 1).
		Suffix(`ON CONFLICT (league_id) DO UPDATE SET
    last_value = team_placeholder_sequences.last_value + 1,
    updated_at = NOW()
RETURNING last_value`).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build next placeholder seq query: %w", err)
	}

	var seq int64
	if err := sqlx.GetContext(ctx, r.db, &seq, query, args...); err != nil {
		return 0, fmt.Errorf("next placeholder seq league=%d: %w", leagueID, err)
	}
	return seq, nil
}

func (r *TeamRepository) PromotePlaceholder(ctx context.Context, teamID, externalID int64, name string) (team.Team, bool, error) {
	query, args, err := promotePlaceholderQuery(teamID, externalID, name)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build promote placeholder team query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		if isUniqueViolation(err) {
			return team.Team{}, false, fmt.Errorf("promote placeholder team id=%d: external_id=%d claimed concurrently: %w", teamID, externalID, err)
		}
		return team.Team{}, false, fmt.Errorf("promote placeholder team id=%d external_id=%d: %w", teamID, externalID, err)
	}
	return teamFromRow(row), true, nil
}

// promotePlaceholderQuery checks the id clash in the WHERE clause: a unique
// violation would abort the surrounding transaction.
func promotePlaceholderQuery(teamID, externalID int64, name string) (string, []any, error) {
	return qb.Update("teams").
		Set("external_id", externalID).
		Set("name", name).
		Set("name_key", matching.Normalize(name)).
		Where(
			qb.Eq("id", teamID),
			qb.Expr("external_id < 0"),
			qb.Expr("NOT EXISTS (SELECT 1 FROM teams taken WHERE taken.external_id = ?)", externalID),
		).
		Suffix("RETURNING " + teamColumns).
		ToSQL()
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		LeagueID:   row.LeagueID,
		Name:       row.Name,
	}
}
