package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/team"
)

type TeamRepository struct {
	store *Store
	undo  *undoLog
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID int64) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.teamByExtID[externalID]
	if !ok {
		return team.Team{}, false, nil
	}
	return r.store.teams[id], true, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID int64) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, item := range r.store.teams {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) InsertIfAbsent(_ context.Context, item team.Team) (team.Team, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.teamByExtID[item.ExternalID]; ok {
		return s.teams[id], false, nil
	}
	pk := placeholderKey{leagueID: item.LeagueID, nameKey: matching.Normalize(item.Name)}
	if item.IsPlaceholder() {
		if id, ok := s.placeholders[pk]; ok {
			return s.teams[id], false, nil
		}
	}

	item.ID = s.nextID("teams")
	s.teams[item.ID] = item
	s.teamByExtID[item.ExternalID] = item.ID
	if item.IsPlaceholder() {
		s.placeholders[pk] = item.ID
	}
	r.undo.record(func() {
		delete(s.teams, item.ID)
		delete(s.teamByExtID, item.ExternalID)
		if item.IsPlaceholder() {
			delete(s.placeholders, pk)
		}
	})

	return item, true, nil
}

func (r *TeamRepository) NextPlaceholderSeq(_ context.Context, leagueID int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.placeholderSq[leagueID]
	s.placeholderSq[leagueID] = prev + 1
	r.undo.record(func() { s.placeholderSq[leagueID] = prev })

	return prev + 1, nil
}

func (r *TeamRepository) PromotePlaceholder(_ context.Context, teamID, externalID int64, name string) (team.Team, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.teams[teamID]
	if !ok || !prev.IsPlaceholder() {
		return team.Team{}, false, nil
	}
	if _, taken := s.teamByExtID[externalID]; taken {
		return team.Team{}, false, nil
	}

	pk := placeholderKey{leagueID: prev.LeagueID, nameKey: matching.Normalize(prev.Name)}
	promoted := prev
	promoted.ExternalID = externalID
	promoted.Name = name
	s.teams[teamID] = promoted
	delete(s.teamByExtID, prev.ExternalID)
	s.teamByExtID[externalID] = teamID
	delete(s.placeholders, pk)
	r.undo.record(func() {
		s.teams[teamID] = prev
		delete(s.teamByExtID, externalID)
		s.teamByExtID[prev.ExternalID] = teamID
		s.placeholders[pk] = teamID
	})

	return promoted, true, nil
}
