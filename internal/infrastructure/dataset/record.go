package dataset

import (
	"github.com/riskibarqy/statlink/internal/domain/league"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
)

// Record is one flattened output row.
type Record struct {
	PlayerName  string  `json:"player_name"`
	League      string  `json:"league"`
	Season      string  `json:"season"`
	Team        string  `json:"team"`
	Games       int     `json:"games"`
	Minutes     int     `json:"minutes"`
	Goals       int     `json:"goals"`
	Assists     int     `json:"assists"`
	Shots       int     `json:"shots"`
	KeyPasses   int     `json:"key_passes"`
	YellowCards int     `json:"yellow_cards"`
	RedCards    int     `json:"red_cards"`
	Position    string  `json:"position"`
	XG          float64 `json:"xg"`
	XA          float64 `json:"xa"`
	NPG         int     `json:"npg"`
	NPXG        float64 `json:"npxg"`
	XGChain     float64 `json:"xg_chain"`
	XGBuildup   float64 `json:"xg_buildup"`
	XGPer90     float64 `json:"xg_per_90"`
	XAPer90     float64 `json:"xa_per_90"`
	NPXGPer90   float64 `json:"npxg_per_90"`
	GoalsPer90  float64 `json:"goals_per_90"`
	*Defensive
}

// Defensive is absent when the player has no linked secondary row.
type Defensive struct {
	Tackles             int     `json:"tackles"`
	TacklesWon          int     `json:"tackles_won"`
	Interceptions       int     `json:"interceptions"`
	Clearances          int     `json:"clearances"`
	Blocks              int     `json:"blocks"`
	AerialDuels         int     `json:"aerial_duels"`
	AerialDuelsWon      int     `json:"aerial_duels_won"`
	FoulsCommitted      int     `json:"fouls_committed"`
	FoulsWon            int     `json:"fouls_won"`
	DribbledPast        int     `json:"dribbled_past"`
	Recoveries          int     `json:"recoveries"`
	Dispossessed        int     `json:"dispossessed"`
	ErrorsLeadingToShot int     `json:"errors_leading_to_shot"`
	TacklesPer90        float64 `json:"tackles_per_90"`
	InterceptionsPer90  float64 `json:"interceptions_per_90"`
	ClearancesPer90     float64 `json:"clearances_per_90"`
	AerialWinPct        float64 `json:"aerial_win_pct"`
}

func FromRow(row playerstats.DatasetRow) Record {
	m := row.OffensiveMetrics
	rec := Record{
		PlayerName:  row.PlayerName,
		League:      row.League,
		Season:      league.SeasonLabel(row.SeasonYear),
		Team:        row.Team,
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
		XGPer90:     m.Per90(m.XG),
		XAPer90:     m.Per90(m.XA),
		NPXGPer90:   m.Per90(m.NPXG),
		GoalsPer90:  m.Per90(float64(m.Goals)),
	}

	if d := row.Defensive; d != nil {
		rec.Defensive = &Defensive{
			Tackles:             d.Tackles,
			TacklesWon:          d.TacklesWon,
			Interceptions:       d.Interceptions,
			Clearances:          d.Clearances,
			Blocks:              d.Blocks,
			AerialDuels:         d.AerialDuels,
			AerialDuelsWon:      d.AerialDuelsWon,
			FoulsCommitted:      d.FoulsCommitted,
			FoulsWon:            d.FoulsWon,
			DribbledPast:        d.DribbledPast,
			Recoveries:          d.Recoveries,
			Dispossessed:        d.Dispossessed,
			ErrorsLeadingToShot: d.ErrorsLeadingToShot,
			TacklesPer90:        d.TacklesPer90,
			InterceptionsPer90:  d.InterceptionsPer90,
			ClearancesPer90:     d.ClearancesPer90,
			AerialWinPct:        d.AerialWinPct,
		}
	}
	return rec
}

func FromRows(rows []playerstats.DatasetRow) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out
}
