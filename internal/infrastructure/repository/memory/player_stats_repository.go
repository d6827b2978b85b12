package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/statlink/internal/domain/league"
	"github.com/riskibarqy/statlink/internal/domain/player"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	store *Store
	undo  *undoLog
}

func (r *PlayerStatsRepository) UpsertOffensive(_ context.Context, row playerstats.OffensiveRow) (playerstats.OffensiveRow, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := statKey{ownerID: row.PlayerID, seasonID: row.SeasonID, teamID: row.TeamID}
	prev, existed := s.offensive[key]
	if existed {
		row.ID = prev.ID
	} else {
		row.ID = s.nextID("player_season_stats")
	}
	s.offensive[key] = row
	r.undo.record(func() {
		if existed {
			s.offensive[key] = prev
			return
		}
		delete(s.offensive, key)
	})

	return row, !existed, nil
}

func (r *PlayerStatsRepository) UpsertDefensive(_ context.Context, row playerstats.DefensiveRow) (playerstats.DefensiveRow, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := statKey{ownerID: row.SecondaryPlayerID, seasonID: row.SeasonID, teamID: row.TeamID}
	prev, existed := s.defensive[key]
	if existed {
		row.ID = prev.ID
	} else {
		row.ID = s.nextID("secondary_player_season_stats")
	}
	s.defensive[key] = row
	r.undo.record(func() {
		if existed {
			s.defensive[key] = prev
			return
		}
		delete(s.defensive, key)
	})

	return row, !existed, nil
}

// ListDataset joins offensive rows to the defensive rows of every secondary
// identity linked to the same player in the same season.
func (r *PlayerStatsRepository) ListDataset(_ context.Context, filter playerstats.DatasetFilter) ([]playerstats.DatasetRow, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	seasons := make(map[int64]league.Season, len(s.seasons))
	for _, item := range s.seasons {
		seasons[item.ID] = item
	}
	leagueCodes := make(map[int64]string, len(s.leagues))
	for _, item := range s.leagues {
		leagueCodes[item.ID] = item.Code
	}
	linked := make(map[int64][]player.Secondary)
	for _, item := range s.secondaries {
		if item.Linked() {
			linked[*item.LinkedPlayerID] = append(linked[*item.LinkedPlayerID], item)
		}
	}
	defensiveBySecondary := make(map[int64][]playerstats.DefensiveRow)
	for _, row := range s.defensive {
		defensiveBySecondary[row.SecondaryPlayerID] = append(defensiveBySecondary[row.SecondaryPlayerID], row)
	}

	offensive := make([]playerstats.OffensiveRow, 0, len(s.offensive))
	for _, row := range s.offensive {
		offensive = append(offensive, row)
	}
	sort.Slice(offensive, func(i, j int) bool {
		a, b := offensive[i], offensive[j]
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.SeasonID != b.SeasonID {
			return a.SeasonID < b.SeasonID
		}
		return a.ID < b.ID
	})

	code := strings.TrimSpace(filter.LeagueCode)
	name := strings.ToLower(strings.TrimSpace(filter.PlayerName))

	out := make([]playerstats.DatasetRow, 0, len(offensive))
	for _, row := range offensive {
		p := s.players[row.PlayerID]
		season := seasons[row.SeasonID]
		leagueCode := leagueCodes[season.LeagueID]
		if code != "" && leagueCode != code {
			continue
		}
		if filter.SeasonYear > 0 && season.Year != filter.SeasonYear {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}

		base := playerstats.DatasetRow{
			PlayerID:         row.PlayerID,
			SeasonID:         row.SeasonID,
			PlayerName:       p.Name,
			League:           leagueCode,
			SeasonYear:       season.Year,
			Team:             s.teams[row.TeamID].Name,
			OffensiveMetrics: row.OffensiveMetrics,
		}

		var matches []playerstats.DefensiveRow
		for _, sec := range linked[row.PlayerID] {
			for _, d := range defensiveBySecondary[sec.ID] {
				if d.SeasonID == row.SeasonID {
					matches = append(matches, d)
				}
			}
		}
		if len(matches) == 0 {
			out = append(out, base)
			continue
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
		for _, d := range matches {
			item := base
			metrics := d.DefensiveMetrics
			item.Defensive = &metrics
			out = append(out, item)
		}
	}

	return out, nil
}
