package memory

import (
	"context"

	"github.com/riskibarqy/statlink/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
	undo  *undoLog
}

func (r *LeagueRepository) GetByCode(_ context.Context, code string) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.leagues[code]
	return item, ok, nil
}

func (r *LeagueRepository) InsertIfAbsent(_ context.Context, item league.League) (league.League, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.leagues[item.Code]; ok {
		return stored, false, nil
	}

	item.ID = s.nextID("leagues")
	s.leagues[item.Code] = item
	r.undo.record(func() { delete(s.leagues, item.Code) })
	return item, true, nil
}

func (r *LeagueRepository) GetSeason(_ context.Context, leagueID int64, year int) (league.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.seasons[seasonKey{leagueID: leagueID, year: year}]
	return item, ok, nil
}

func (r *LeagueRepository) InsertSeasonIfAbsent(_ context.Context, item league.Season) (league.Season, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := seasonKey{leagueID: item.LeagueID, year: item.Year}
	if stored, ok := s.seasons[key]; ok {
		return stored, false, nil
	}

	item.ID = s.nextID("seasons")
	s.seasons[key] = item
	r.undo.record(func() { delete(s.seasons, key) })
	return item, true, nil
}
