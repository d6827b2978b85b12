package playerstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTackles(playerID, seasonID int64, team string, tackles int) DatasetRow {
	return DatasetRow{
		PlayerID:   playerID,
		SeasonID:   seasonID,
		Team:       team,
		PlayerName: "Declan Rice",
		Defensive:  &DefensiveMetrics{Tackles: tackles},
	}
}

func TestMerge_KeepsRichestRow(t *testing.T) {
	t.Parallel()

	rows := []DatasetRow{
		withTackles(1, 10, "West Ham", 12),
		withTackles(1, 10, "Arsenal", 27),
	}

	got := Merge(rows, ByTackles)
	require.Len(t, got, 1)
	assert.Equal(t, 27, got[0].Defensive.Tackles)
	assert.Equal(t, "Arsenal", got[0].Team)

	got = Merge([]DatasetRow{rows[1], rows[0]}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 27, got[0].Defensive.Tackles)
}

func TestMerge_TiesKeepFirstAndOrderIsStable(t *testing.T) {
	t.Parallel()

	rows := []DatasetRow{
		withTackles(2, 10, "Everton", 5),
		withTackles(1, 10, "Fulham", 8),
		withTackles(2, 10, "Wolves", 5),
		withTackles(2, 11, "Wolves", 3),
		{PlayerID: 1, SeasonID: 10, Team: "Brentford"},
	}

	got := Merge(rows, ByTackles)
	require.Len(t, got, 3)
	assert.Equal(t, "Everton", got[0].Team)
	assert.Equal(t, "Fulham", got[1].Team)
	assert.Equal(t, int64(11), got[2].SeasonID)
}

func TestMerge_MissingDefensiveLosesToAnyTackles(t *testing.T) {
	t.Parallel()

	rows := []DatasetRow{
		{PlayerID: 3, SeasonID: 10, Team: "Chelsea"},
		withTackles(3, 10, "Chelsea", 0),
	}
	got := Merge(rows, ByTackles)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Defensive)
}

func TestMerge_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Merge(nil, ByTackles))
}

func TestDefensiveMetrics_FillDerived(t *testing.T) {
	t.Parallel()

	m := DefensiveMetrics{Minutes: 1800, Tackles: 40, Interceptions: 20, Clearances: 0, AerialDuels: 30, AerialDuelsWon: 17}
	m.FillDerived()
	assert.Equal(t, 2.0, m.TacklesPer90)
	assert.Equal(t, 1.0, m.InterceptionsPer90)
	assert.Equal(t, 0.0, m.ClearancesPer90)
	assert.Equal(t, 56.7, m.AerialWinPct)

	zero := DefensiveMetrics{Tackles: 4}
	zero.FillDerived()
	assert.Equal(t, 0.0, zero.TacklesPer90)
	assert.Equal(t, 0.0, zero.AerialWinPct)
}
