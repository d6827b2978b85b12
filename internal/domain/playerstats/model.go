package playerstats

import (
	"fmt"
	"math"
)

// OffensiveMetrics are the primary source's per-season attacking numbers.
type OffensiveMetrics struct {
	Games       int
	Minutes     int
	Goals       int
	Assists     int
	Shots       int
	KeyPasses   int
	YellowCards int
	RedCards    int
	Position    string
	XG          float64
	XA          float64
	NPG         int
	NPXG        float64
	XGChain     float64
	XGBuildup   float64
}

// Per90 scales a season total to a 90-minute rate, rounded to 2 decimals.
func (m OffensiveMetrics) Per90(total float64) float64 {
	return Per90(total, m.Minutes)
}

// DefensiveMetrics are the secondary source's per-season defensive numbers.
type DefensiveMetrics struct {
	Games               int
	Minutes             int
	Position            string
	Tackles             int
	TacklesWon          int
	Interceptions       int
	Clearances          int
	Blocks              int
	AerialDuels         int
	AerialDuelsWon      int
	FoulsCommitted      int
	FoulsWon            int
	DribbledPast        int
	Recoveries          int
	Dispossessed        int
	ErrorsLeadingToShot int
	TacklesPer90        float64
	InterceptionsPer90  float64
	ClearancesPer90     float64
	AerialWinPct        float64
}

// FillDerived computes per-90 rates and the aerial win percentage where the
// feed left them empty.
func (m *DefensiveMetrics) FillDerived() {
	if m.TacklesPer90 == 0 {
		m.TacklesPer90 = Per90(float64(m.Tackles), m.Minutes)
	}
	if m.InterceptionsPer90 == 0 {
		m.InterceptionsPer90 = Per90(float64(m.Interceptions), m.Minutes)
	}
	if m.ClearancesPer90 == 0 {
		m.ClearancesPer90 = Per90(float64(m.Clearances), m.Minutes)
	}
	if m.AerialWinPct == 0 && m.AerialDuels > 0 {
		m.AerialWinPct = round(100*float64(m.AerialDuelsWon)/float64(m.AerialDuels), 1)
	}
}

// OffensiveRow is one player_season_stats row.
type OffensiveRow struct {
	ID       int64
	PlayerID int64
	SeasonID int64
	TeamID   int64
	OffensiveMetrics
}

func (r OffensiveRow) Validate() error {
	if r.PlayerID <= 0 || r.SeasonID <= 0 || r.TeamID <= 0 {
		return fmt.Errorf("offensive stats require player, season and team ids")
	}
	return nil
}

// DefensiveRow is one secondary_player_season_stats row.
type DefensiveRow struct {
	ID                int64
	SecondaryPlayerID int64
	SeasonID          int64
	TeamID            int64
	DefensiveMetrics
}

func (r DefensiveRow) Validate() error {
	if r.SecondaryPlayerID <= 0 || r.SeasonID <= 0 || r.TeamID <= 0 {
		return fmt.Errorf("defensive stats require secondary player, season and team ids")
	}
	return nil
}

// DatasetRow is the flattened view of a player's season: offensive stats
// joined with the defensive stats of every secondary identity linked to the
// player. Defensive is nil when no linked row exists.
type DatasetRow struct {
	PlayerID   int64
	SeasonID   int64
	PlayerName string
	League     string
	SeasonYear int
	Team       string
	OffensiveMetrics
	Defensive *DefensiveMetrics
}

// DatasetFilter narrows a dataset query. Zero values match everything.
type DatasetFilter struct {
	LeagueCode string
	SeasonYear int
	PlayerName string
}

func Per90(total float64, minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return round(total*90/float64(minutes), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
