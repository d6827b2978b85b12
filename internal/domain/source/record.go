package source

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/riskibarqy/statlink/internal/domain/player"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
)

// Name identifies a feed in logs and conflict errors.
type Name string

const (
	Primary   Name = "primary"
	Secondary Name = "secondary"
)

// ErrMissingIdentity marks a record without a usable player id.
var ErrMissingIdentity = errors.New("record has no player id")

// Fields is one raw flat record as handed over by a fetcher.
type Fields map[string]any

func (f Fields) first(keys ...string) any {
	for _, k := range keys {
		if v, ok := f[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// PrimaryRecord is a typed offensive-feed record.
type PrimaryRecord struct {
	PlayerExternalID int64
	PlayerName       string
	TeamName         string
	playerstats.OffensiveMetrics
}

// ParsePrimary types a primary record. Only the player id is required.
func ParsePrimary(f Fields) (PrimaryRecord, error) {
	id, err := ParseID(f.first("id", "player_id"))
	if err != nil {
		return PrimaryRecord{}, fmt.Errorf("%w: primary record %v: %v", ErrMissingIdentity, f.first("player_name"), err)
	}

	return PrimaryRecord{
		PlayerExternalID: id,
		PlayerName:       player.NameOrUnknown(ParseString(f.first("player_name", "name"))),
		TeamName:         firstTeam(ParseString(f.first("team_title", "team"))),
		OffensiveMetrics: playerstats.OffensiveMetrics{
			Games:       ParseInt(f.first("games")),
			Minutes:     ParseInt(f.first("time", "minutes")),
			Goals:       ParseInt(f.first("goals")),
			Assists:     ParseInt(f.first("assists")),
			Shots:       ParseInt(f.first("shots")),
			KeyPasses:   ParseInt(f.first("key_passes")),
			YellowCards: ParseInt(f.first("yellow_cards")),
			RedCards:    ParseInt(f.first("red_cards")),
			Position:    ParseString(f.first("position")),
			XG:          ParseFloat(f.first("xG", "xg")),
			XA:          ParseFloat(f.first("xA", "xa")),
			NPG:         ParseInt(f.first("npg")),
			NPXG:        ParseFloat(f.first("npxG", "npxg")),
			XGChain:     ParseFloat(f.first("xGChain", "xg_chain")),
			XGBuildup:   ParseFloat(f.first("xGBuildup", "xg_buildup")),
		},
	}, nil
}

// SecondaryRecord is a typed defensive-feed record.
type SecondaryRecord struct {
	PlayerExternalID int64
	PlayerName       string
	TeamName         string
	playerstats.DefensiveMetrics
}

// SecondaryOptions controls how counting columns are read.
type SecondaryOptions struct {
	// PerGame means counting columns hold per-game averages rather than totals.
	PerGame bool
}

// ParseSecondary types a secondary record and fills derived rates the feed omitted.
func ParseSecondary(f Fields, opts SecondaryOptions) (SecondaryRecord, error) {
	id, err := ParseID(f.first("playerId", "player_id", "id"))
	if err != nil {
		return SecondaryRecord{}, fmt.Errorf("%w: secondary record %v: %v", ErrMissingIdentity, f.first("name", "playerName"), err)
	}

	m := playerstats.DefensiveMetrics{
		Games:    ParseInt(f.first("apps", "games")),
		Minutes:  ParseInt(f.first("mins", "minutes")),
		Position: ParseString(f.first("position")),
	}

	counts := []struct {
		dst   *int
		per90 *float64
		keys  []string
	}{
		{&m.Tackles, &m.TacklesPer90, []string{"tackles"}},
		{&m.TacklesWon, nil, []string{"tackles_won"}},
		{&m.Interceptions, &m.InterceptionsPer90, []string{"interceptions", "inter"}},
		{&m.Clearances, &m.ClearancesPer90, []string{"clearances", "clear"}},
		{&m.Blocks, nil, []string{"blocks", "blocked"}},
		{&m.FoulsCommitted, nil, []string{"fouls", "fouls_committed"}},
		{&m.FoulsWon, nil, []string{"fouls_won", "fouled"}},
		{&m.DribbledPast, nil, []string{"dribbled_past", "drbpast"}},
		{&m.Recoveries, nil, []string{"recoveries"}},
		{&m.Dispossessed, nil, []string{"dispossessed", "disp"}},
		{&m.ErrorsLeadingToShot, nil, []string{"errors_leading_to_shot", "error"}},
	}

	games := m.Games
	if games <= 0 {
		games = 1
	}
	factor := 0.0
	if opts.PerGame && m.Minutes > 0 {
		factor = 90 / (float64(m.Minutes) / float64(games))
	}
	for _, c := range counts {
		v := f.first(c.keys...)
		if !opts.PerGame {
			*c.dst = ParseInt(v)
			continue
		}
		pg := ParseFloat(v)
		*c.dst = int(math.Round(pg * float64(games)))
		if c.per90 != nil {
			*c.per90 = round2(pg * factor)
		}
	}

	if v := f.first("aerial", "aerials"); v != nil {
		m.AerialDuelsWon, m.AerialDuels = ParseRatio(v)
	}
	if v := f.first("aerial_duels"); v != nil {
		m.AerialDuels = ParseInt(v)
	}
	if v := f.first("aerial_duels_won", "aerials_won"); v != nil {
		m.AerialDuelsWon = ParseInt(v)
	}

	if !opts.PerGame {
		m.TacklesPer90 = ParseFloat(f.first("tackles_per_90"))
		m.InterceptionsPer90 = ParseFloat(f.first("interceptions_per_90"))
		m.ClearancesPer90 = ParseFloat(f.first("clearances_per_90"))
	}
	m.AerialWinPct = ParseFloat(f.first("aerial_win_pct"))
	m.FillDerived()

	return SecondaryRecord{
		PlayerExternalID: id,
		PlayerName:       player.NameOrUnknown(ParseString(f.first("playerName", "player_name", "name"))),
		TeamName:         firstTeam(ParseString(f.first("teamName", "team_name", "team"))),
		DefensiveMetrics: m,
	}, nil
}

// firstTeam keeps the first club of a comma-separated list; mid-season
// movers are listed with every club they played for.
func firstTeam(raw string) string {
	if i := strings.IndexByte(raw, ','); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return player.UnknownName
	}
	return raw
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
