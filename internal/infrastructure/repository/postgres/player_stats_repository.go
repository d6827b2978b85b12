package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	qb "github.com/riskibarqy/statlink/internal/platform/querybuilder"
)

// xmax is zero only for freshly inserted tuples.
const upsertReturning = "RETURNING id, (xmax = 0) AS inserted"

type PlayerStatsRepository struct {
	db sqlx.ExtContext
}

func NewPlayerStatsRepository(db sqlx.ExtContext) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) UpsertOffensive(ctx context.Context, row playerstats.OffensiveRow) (playerstats.OffensiveRow, bool, error) {
	m := row.OffensiveMetrics
	query, args, err := qb.UpsertModel("player_season_stats", offensiveStatsInsertModel{
		PlayerID:    row.PlayerID,
		SeasonID:    row.SeasonID,
		TeamID:      row.TeamID,
		Games:       m.Games,
		Minutes:     m.Minutes,
		Goals:       m.Goals,
		Assists:     m.Assists,
		Shots:       m.Shots,
		KeyPasses:   m.KeyPasses,
		YellowCards: m.YellowCards,
		RedCards:    m.RedCards,
		Position:    m.Position,
		XG:          m.XG,
		XA:          m.XA,
		NPG:         m.NPG,
		NPXG:        m.NPXG,
		XGChain:     m.XGChain,
		XGBuildup:   m.XGBuildup,
	}, []string{"player_id", "season_id", "team_id"}, upsertReturning, "updated_at = NOW()")
	if err != nil {
		return playerstats.OffensiveRow{}, false, fmt.Errorf("build upsert offensive stats query: %w", err)
	}

	var res upsertResultModel
	if err := sqlx.GetContext(ctx, r.db, &res, query, args...); err != nil {
		return playerstats.OffensiveRow{}, false, fmt.Errorf("upsert offensive stats player=%d season=%d team=%d: %w", row.PlayerID, row.SeasonID, row.TeamID, err)
	}

	row.ID = res.ID
	return row, res.Inserted, nil
}

func (r *PlayerStatsRepository) UpsertDefensive(ctx context.Context, row playerstats.DefensiveRow) (playerstats.DefensiveRow, bool, error) {
	m := row.DefensiveMetrics
	query, args, err := qb.UpsertModel("secondary_player_season_stats", defensiveStatsInsertModel{
		SecondaryPlayerID:   row.SecondaryPlayerID,
		SeasonID:            row.SeasonID,
		TeamID:              row.TeamID,
		Games:               m.Games,
		Minutes:             m.Minutes,
		Position:            m.Position,
		Tackles:             m.Tackles,
		TacklesWon:          m.TacklesWon,
		Interceptions:       m.Interceptions,
		Clearances:          m.Clearances,
		Blocks:              m.Blocks,
		AerialDuels:         m.AerialDuels,
		AerialDuelsWon:      m.AerialDuelsWon,
		FoulsCommitted:      m.FoulsCommitted,
		FoulsWon:            m.FoulsWon,
		DribbledPast:        m.DribbledPast,
		Recoveries:          m.Recoveries,
		Dispossessed:        m.Dispossessed,
		ErrorsLeadingToShot: m.ErrorsLeadingToShot,
		TacklesPer90:        m.TacklesPer90,
		InterceptionsPer90:  m.InterceptionsPer90,
		ClearancesPer90:     m.ClearancesPer90,
		AerialWinPct:        m.AerialWinPct,
	}, []string{"secondary_player_id", "season_id", "team_id"}, upsertReturning, "updated_at = NOW()")
	if err != nil {
		return playerstats.DefensiveRow{}, false, fmt.Errorf("build upsert defensive stats query: %w", err)
	}

	var res upsertResultModel
	if err := sqlx.GetContext(ctx, r.db, &res, query, args...); err != nil {
		return playerstats.DefensiveRow{}, false, fmt.Errorf("upsert defensive stats secondary=%d season=%d team=%d: %w", row.SecondaryPlayerID, row.SeasonID, row.TeamID, err)
	}

	row.ID = res.ID
	return row, res.Inserted, nil
}

const datasetFrom = `player_season_stats ps
JOIN players p ON p.id = ps.player_id
JOIN seasons s ON s.id = ps.season_id
JOIN leagues l ON l.id = s.league_id
JOIN teams t ON t.id = ps.team_id
LEFT JOIN secondary_players sp ON sp.linked_player_id = p.id
LEFT JOIN secondary_player_season_stats ds ON ds.secondary_player_id = sp.id AND ds.season_id = ps.season_id`

var datasetColumns = []string{
	"p.id AS player_id", "s.id AS season_id", "p.name AS player_name", "l.code AS league",
	"s.year AS season_year", "t.name AS team",
	"ps.games", "ps.minutes", "ps.goals", "ps.assists", "ps.shots", "ps.key_passes",
	"ps.yellow_cards", "ps.red_cards", "ps.position", "ps.xg", "ps.xa", "ps.npg", "ps.npxg",
	"ps.xg_chain", "ps.xg_buildup",
	"ds.id AS defensive_id", "ds.games AS def_games", "ds.minutes AS def_minutes", "ds.position AS def_position",
	"ds.tackles", "ds.tackles_won", "ds.interceptions", "ds.clearances", "ds.blocks",
	"ds.aerial_duels", "ds.aerial_duels_won", "ds.fouls_committed", "ds.fouls_won",
	"ds.dribbled_past", "ds.recoveries", "ds.dispossessed", "ds.errors_leading_to_shot",
	"ds.tackles_per_90", "ds.interceptions_per_90", "ds.clearances_per_90", "ds.aerial_win_pct",
}

func (r *PlayerStatsRepository) ListDataset(ctx context.Context, filter playerstats.DatasetFilter) ([]playerstats.DatasetRow, error) {
	conditions := make([]qb.Condition, 0, 3)
	if code := strings.TrimSpace(filter.LeagueCode); code != "" {
		conditions = append(conditions, qb.Eq("l.code", code))
	}
	if filter.SeasonYear > 0 {
		conditions = append(conditions, qb.Eq("s.year", filter.SeasonYear))
	}
	if name := strings.TrimSpace(filter.PlayerName); name != "" {
		conditions = append(conditions, qb.ILike("p.name", qb.ContainsPattern(name)))
	}

	query, args, err := qb.Select(datasetColumns...).From(datasetFrom).
		Where(conditions...).
		OrderBy("p.id", "s.id", "ps.id", "ds.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select dataset query: %w", err)
	}

	var rows []datasetTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select dataset: %w", err)
	}

	out := make([]playerstats.DatasetRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, datasetRowFromModel(row))
	}
	return out, nil
}

func datasetRowFromModel(row datasetTableModel) playerstats.DatasetRow {
	out := playerstats.DatasetRow{
		PlayerID:   row.PlayerID,
		SeasonID:   row.SeasonID,
		PlayerName: row.PlayerName,
		League:     row.League,
		SeasonYear: row.SeasonYear,
		Team:       row.Team,
		OffensiveMetrics: playerstats.OffensiveMetrics{
			Games:       row.Games,
			Minutes:     row.Minutes,
			Goals:       row.Goals,
			Assists:     row.Assists,
			Shots:       row.Shots,
			KeyPasses:   row.KeyPasses,
			YellowCards: row.YellowCards,
			RedCards:    row.RedCards,
			Position:    row.Position,
			XG:          row.XG,
			XA:          row.XA,
			NPG:         row.NPG,
			NPXG:        row.NPXG,
			XGChain:     row.XGChain,
			XGBuildup:   row.XGBuildup,
		},
	}
	if !row.DefensiveID.Valid {
		return out
	}

	out.Defensive = &playerstats.DefensiveMetrics{
		Games:               int(row.DefGames.Int64),
		Minutes:             int(row.DefMinutes.Int64),
		Position:            row.DefPosition.String,
		Tackles:             int(row.Tackles.Int64),
		TacklesWon:          int(row.TacklesWon.Int64),
		Interceptions:       int(row.Interceptions.Int64),
		Clearances:          int(row.Clearances.Int64),
		Blocks:              int(row.Blocks.Int64),
		AerialDuels:         int(row.AerialDuels.Int64),
		AerialDuelsWon:      int(row.AerialDuelsWon.Int64),
		FoulsCommitted:      int(row.FoulsCommitted.Int64),
		FoulsWon:            int(row.FoulsWon.Int64),
		DribbledPast:        int(row.DribbledPast.Int64),
		Recoveries:          int(row.Recoveries.Int64),
		Dispossessed:        int(row.Dispossessed.Int64),
		ErrorsLeadingToShot: int(row.ErrorsLeadingToShot.Int64),
		TacklesPer90:        row.TacklesPer90.Float64,
		InterceptionsPer90:  row.InterceptionsPer90.Float64,
		ClearancesPer90:     row.ClearancesPer90.Float64,
		AerialWinPct:        row.AerialWinPct.Float64,
	}
	return out
}
