package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statlink/internal/domain/league"
	qb "github.com/riskibarqy/statlink/internal/platform/querybuilder"
)

const (
	leagueColumns = "id, code, display_name, created_at"
	seasonColumns = "id, league_id, year, created_at"
)

type LeagueRepository struct {
	db sqlx.ExtContext
}

func NewLeagueRepository(db sqlx.ExtContext) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByCode(ctx context.Context, code string) (league.League, bool, error) {
	query, args, err := qb.Select(leagueColumns).From("leagues").
		Where(qb.Eq("code", code)).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league by code query: %w", err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league code=%s: %w", code, err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) InsertIfAbsent(ctx context.Context, item league.League) (league.League, bool, error) {
	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		Code:        item.Code,
		DisplayName: item.DisplayName,
	}, "ON CONFLICT (code) DO NOTHING RETURNING "+leagueColumns)
	if err != nil {
		return league.League{}, false, fmt.Errorf("build insert league query: %w", err)
	}

	var row leagueTableModel
	err = sqlx.GetContext(ctx, r.db, &row, query, args...)
	if err == nil {
		return leagueFromRow(row), true, nil
	}
	if !isNotFound(err) {
		return league.League{}, false, fmt.Errorf("insert league code=%s: %w", item.Code, err)
	}

	stored, ok, err := r.GetByCode(ctx, item.Code)
	if err != nil {
		return league.League{}, false, err
	}
	if !ok {
		return league.League{}, false, fmt.Errorf("league code=%s missing after insert conflict", item.Code)
	}
	return stored, false, nil
}

func (r *LeagueRepository) GetSeason(ctx context.Context, leagueID int64, year int) (league.Season, bool, error) {
	query, args, err := qb.Select(seasonColumns).From("seasons").
		Where(qb.Eq("league_id", leagueID), qb.Eq("year", year)).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build select season query: %w", err)
	}

	var row seasonTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Season{}, false, nil
		}
		return league.Season{}, false, fmt.Errorf("select season league=%d year=%d: %w", leagueID, year, err)
	}

	return seasonFromRow(row), true, nil
}

func (r *LeagueRepository) InsertSeasonIfAbsent(ctx context.Context, item league.Season) (league.Season, bool, error) {
	query, args, err := qb.InsertModel("seasons", seasonInsertModel{
		LeagueID: item.LeagueID,
		Year:     item.Year,
	}, "ON CONFLICT (league_id, year) DO NOTHING RETURNING "+seasonColumns)
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build insert season query: %w", err)
	}

	var row seasonTableModel
	err = sqlx.GetContext(ctx, r.db, &row, query, args...)
	if err == nil {
		return seasonFromRow(row), true, nil
	}
	if !isNotFound(err) {
		return league.Season{}, false, fmt.Errorf("insert season league=%d year=%d: %w", item.LeagueID, item.Year, err)
	}

	stored, ok, err := r.GetSeason(ctx, item.LeagueID, item.Year)
	if err != nil {
		return league.Season{}, false, err
	}
	if !ok {
		return league.Season{}, false, fmt.Errorf("season league=%d year=%d missing after insert conflict", item.LeagueID, item.Year)
	}
	return stored, false, nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{ID: row.ID, Code: row.Code, DisplayName: row.DisplayName}
}

func seasonFromRow(row seasonTableModel) league.Season {
	return league.Season{ID: row.ID, LeagueID: row.LeagueID, Year: row.Year}
}
