package playerstats

// Richness ranks duplicated rows of one (player, season); the highest wins.
type Richness func(DatasetRow) int

// ByTackles ranks rows by defensive activity. Rows without linked defensive
// stats rank below any row that has them.
func ByTackles(row DatasetRow) int {
	if row.Defensive == nil {
		return -1
	}
	return row.Defensive.Tackles
}

type mergeKey struct {
	playerID int64
	seasonID int64
}

// Merge collapses rows to one per (player, season), keeping the richest row.
// Ties keep the earlier row. Groups are emitted in order of first appearance.
func Merge(rows []DatasetRow, richness Richness) []DatasetRow {
	if richness == nil {
		richness = ByTackles
	}

	pos := make(map[mergeKey]int, len(rows))
	scores := make([]int, 0, len(rows))
	out := make([]DatasetRow, 0, len(rows))
	for _, row := range rows {
		key := mergeKey{playerID: row.PlayerID, seasonID: row.SeasonID}
		score := richness(row)
		i, seen := pos[key]
		if !seen {
			pos[key] = len(out)
			out = append(out, row)
			scores = append(scores, score)
			continue
		}
		if score > scores[i] {
			out[i] = row
			scores[i] = score
		}
	}

	return out
}
