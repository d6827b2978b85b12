package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/valyala/bytebufferpool"
)

// Columns is the CSV header, in output order.
var Columns = []string{
	"player_name", "league", "season", "team",
	"games", "minutes", "goals", "assists", "shots", "key_passes",
	"yellow_cards", "red_cards", "position",
	"xg", "xa", "npg", "npxg", "xg_chain", "xg_buildup",
	"xg_per_90", "xa_per_90", "npxg_per_90", "goals_per_90",
	"tackles", "tackles_won", "interceptions", "clearances", "blocks",
	"aerial_duels", "aerial_duels_won", "fouls_committed", "fouls_won",
	"dribbled_past", "recoveries", "dispossessed", "errors_leading_to_shot",
	"tackles_per_90", "interceptions_per_90", "clearances_per_90", "aerial_win_pct",
}

const offensiveColumns = 23

// WriteCSV encodes merged dataset rows with a header line. Defensive columns
// are left empty for players without a linked secondary row.
func WriteCSV(w io.Writer, rows []playerstats.DatasetRow) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	cw := csv.NewWriter(buf)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	line := make([]string, len(Columns))
	for _, row := range rows {
		fillLine(line, FromRow(row))
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row for %q: %w", row.PlayerName, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write csv output: %w", err)
	}
	return nil
}

func fillLine(line []string, rec Record) {
	i := 0
	put := func(v string) {
		line[i] = v
		i++
	}

	put(rec.PlayerName)
	put(rec.League)
	put(rec.Season)
	put(rec.Team)
	put(itoa(rec.Games))
	put(itoa(rec.Minutes))
	put(itoa(rec.Goals))
	put(itoa(rec.Assists))
	put(itoa(rec.Shots))
	put(itoa(rec.KeyPasses))
	put(itoa(rec.YellowCards))
	put(itoa(rec.RedCards))
	put(rec.Position)
	put(ftoa(rec.XG))
	put(ftoa(rec.XA))
	put(itoa(rec.NPG))
	put(ftoa(rec.NPXG))
	put(ftoa(rec.XGChain))
	put(ftoa(rec.XGBuildup))
	put(ftoa(rec.XGPer90))
	put(ftoa(rec.XAPer90))
	put(ftoa(rec.NPXGPer90))
	put(ftoa(rec.GoalsPer90))

	d := rec.Defensive
	if d == nil {
		for ; i < len(line); i++ {
			line[i] = ""
		}
		return
	}
	put(itoa(d.Tackles))
	put(itoa(d.TacklesWon))
	put(itoa(d.Interceptions))
	put(itoa(d.Clearances))
	put(itoa(d.Blocks))
	put(itoa(d.AerialDuels))
	put(itoa(d.AerialDuelsWon))
	put(itoa(d.FoulsCommitted))
	put(itoa(d.FoulsWon))
	put(itoa(d.DribbledPast))
	put(itoa(d.Recoveries))
	put(itoa(d.Dispossessed))
	put(itoa(d.ErrorsLeadingToShot))
	put(ftoa(d.TacklesPer90))
	put(ftoa(d.InterceptionsPer90))
	put(ftoa(d.ClearancesPer90))
	put(ftoa(d.AerialWinPct))
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
