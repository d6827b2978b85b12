package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/statlink/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
	undo  *undoLog
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID int64) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.playerByExtID[externalID]
	if !ok {
		return player.Player{}, false, nil
	}
	return r.store.players[id], true, nil
}

func (r *PlayerRepository) InsertIfAbsent(_ context.Context, item player.Player) (player.Player, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.playerByExtID[item.ExternalID]; ok {
		return s.players[id], false, nil
	}

	item.ID = s.nextID("players")
	s.players[item.ID] = item
	s.playerByExtID[item.ExternalID] = item.ID
	r.undo.record(func() {
		delete(s.players, item.ID)
		delete(s.playerByExtID, item.ExternalID)
	})

	return item, true, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Player, 0, len(r.store.players))
	for _, item := range r.store.players {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

type SecondaryPlayerRepository struct {
	store *Store
	undo  *undoLog
}

func (r *SecondaryPlayerRepository) GetByExternalID(_ context.Context, externalID int64) (player.Secondary, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.secondaryByExtID[externalID]
	if !ok {
		return player.Secondary{}, false, nil
	}
	return copySecondary(r.store.secondaries[id]), true, nil
}

func (r *SecondaryPlayerRepository) InsertIfAbsent(_ context.Context, item player.Secondary) (player.Secondary, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.secondaryByExtID[item.ExternalID]; ok {
		return copySecondary(s.secondaries[id]), false, nil
	}

	item.ID = s.nextID("secondary_players")
	item.LinkedPlayerID = nil
	s.secondaries[item.ID] = item
	s.secondaryByExtID[item.ExternalID] = item.ID
	r.undo.record(func() {
		delete(s.secondaries, item.ID)
		delete(s.secondaryByExtID, item.ExternalID)
	})

	return item, true, nil
}

func (r *SecondaryPlayerRepository) ListUnlinked(_ context.Context) ([]player.Secondary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.Secondary, 0)
	for _, item := range r.store.secondaries {
		if !item.Linked() {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *SecondaryPlayerRepository) SetLink(_ context.Context, secondaryID, playerID int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.secondaries[secondaryID]
	if !ok || item.Linked() {
		return false, nil
	}

	linked := playerID
	item.LinkedPlayerID = &linked
	s.secondaries[secondaryID] = item
	r.undo.record(func() {
		item.LinkedPlayerID = nil
		s.secondaries[secondaryID] = item
	})

	return true, nil
}

func copySecondary(item player.Secondary) player.Secondary {
	if item.LinkedPlayerID != nil {
		id := *item.LinkedPlayerID
		item.LinkedPlayerID = &id
	}
	return item
}
