package postgres

import "database/sql"

type offensiveStatsInsertModel struct {
	PlayerID    int64   `db:"player_id"`
	SeasonID    int64   `db:"season_id"`
	TeamID      int64   `db:"team_id"`
	Games       int     `db:"games"`
	Minutes     int     `db:"minutes"`
	Goals       int     `db:"goals"`
	Assists     int     `db:"assists"`
	Shots       int     `db:"shots"`
	KeyPasses   int     `db:"key_passes"`
	YellowCards int     `db:"yellow_cards"`
	RedCards    int     `db:"red_cards"`
	Position    string  `db:"position"`
	XG          float64 `db:"xg"`
	XA          float64 `db:"xa"`
	NPG         int     `db:"npg"`
	NPXG        float64 `db:"npxg"`
	XGChain     float64 `db:"xg_chain"`
	XGBuildup   float64 `db:"xg_buildup"`
}

type defensiveStatsInsertModel struct {
	SecondaryPlayerID   int64   `db:"secondary_player_id"`
	SeasonID            int64   `db:"season_id"`
	TeamID              int64   `db:"team_id"`
	Games               int     `db:"games"`
	Minutes             int     `db:"minutes"`
	Position            string  `db:"position"`
	Tackles             int     `db:"tackles"`
	TacklesWon          int     `db:"tackles_won"`
	Interceptions       int     `db:"interceptions"`
	Clearances          int     `db:"clearances"`
	Blocks              int     `db:"blocks"`
	AerialDuels         int     `db:"aerial_duels"`
	AerialDuelsWon      int     `db:"aerial_duels_won"`
	FoulsCommitted      int     `db:"fouls_committed"`
	FoulsWon            int     `db:"fouls_won"`
	DribbledPast        int     `db:"dribbled_past"`
	Recoveries          int     `db:"recoveries"`
	Dispossessed        int     `db:"dispossessed"`
	ErrorsLeadingToShot int     `db:"errors_leading_to_shot"`
	TacklesPer90        float64 `db:"tackles_per_90"`
	InterceptionsPer90  float64 `db:"interceptions_per_90"`
	ClearancesPer90     float64 `db:"clearances_per_90"`
	AerialWinPct        float64 `db:"aerial_win_pct"`
}

type upsertResultModel struct {
	ID       int64 `db:"id"`
	Inserted bool  `db:"inserted"`
}

// datasetTableModel is one row of the offensive stats joined to a linked
// secondary identity's stats for the same season. Defensive columns are
// NULL when nothing is linked.
type datasetTableModel struct {
	PlayerID    int64   `db:"player_id"`
	SeasonID    int64   `db:"season_id"`
	PlayerName  string  `db:"player_name"`
	League      string  `db:"league"`
	SeasonYear  int     `db:"season_year"`
	Team        string  `db:"team"`
	Games       int     `db:"games"`
	Minutes     int     `db:"minutes"`
	Goals       int     `db:"goals"`
	Assists     int     `db:"assists"`
	Shots       int     `db:"shots"`
	KeyPasses   int     `db:"key_passes"`
	YellowCards int     `db:"yellow_cards"`
	RedCards    int     `db:"red_cards"`
	Position    string  `db:"position"`
	XG          float64 `db:"xg"`
	XA          float64 `db:"xa"`
	NPG         int     `db:"npg"`
	NPXG        float64 `db:"npxg"`
	XGChain     float64 `db:"xg_chain"`
	XGBuildup   float64 `db:"xg_buildup"`

	DefensiveID         sql.NullInt64   `db:"defensive_id"`
	DefGames            sql.NullInt64   `db:"def_games"`
	DefMinutes          sql.NullInt64   `db:"def_minutes"`
	DefPosition         sql.NullString  `db:"def_position"`
	Tackles             sql.NullInt64   `db:"tackles"`
	TacklesWon          sql.NullInt64   `db:"tackles_won"`
	Interceptions       sql.NullInt64   `db:"interceptions"`
	Clearances          sql.NullInt64   `db:"clearances"`
	Blocks              sql.NullInt64   `db:"blocks"`
	AerialDuels         sql.NullInt64   `db:"aerial_duels"`
	AerialDuelsWon      sql.NullInt64   `db:"aerial_duels_won"`
	FoulsCommitted      sql.NullInt64   `db:"fouls_committed"`
	FoulsWon            sql.NullInt64   `db:"fouls_won"`
	DribbledPast        sql.NullInt64   `db:"dribbled_past"`
	Recoveries          sql.NullInt64   `db:"recoveries"`
	Dispossessed        sql.NullInt64   `db:"dispossessed"`
	ErrorsLeadingToShot sql.NullInt64   `db:"errors_leading_to_shot"`
	TacklesPer90        sql.NullFloat64 `db:"tackles_per_90"`
	InterceptionsPer90  sql.NullFloat64 `db:"interceptions_per_90"`
	ClearancesPer90     sql.NullFloat64 `db:"clearances_per_90"`
	AerialWinPct        sql.NullFloat64 `db:"aerial_win_pct"`
}
