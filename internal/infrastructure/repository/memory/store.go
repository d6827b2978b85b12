package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/statlink/internal/domain/league"
	"github.com/riskibarqy/statlink/internal/domain/player"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/store"
	"github.com/riskibarqy/statlink/internal/domain/team"
)

type seasonKey struct {
	leagueID int64
	year     int
}

type placeholderKey struct {
	leagueID int64
	nameKey  string
}

type statKey struct {
	ownerID  int64
	seasonID int64
	teamID   int64
}

// Store keeps every table in process memory. Transactions are serialized by
// txMu and undone through a per-transaction undo log; reads outside a
// transaction may observe uncommitted writes.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	lastID map[string]int64

	leagues       map[string]league.League
	seasons       map[seasonKey]league.Season
	teams         map[int64]team.Team
	teamByExtID   map[int64]int64
	placeholders  map[placeholderKey]int64
	placeholderSq map[int64]int64

	players          map[int64]player.Player
	playerByExtID    map[int64]int64
	secondaries      map[int64]player.Secondary
	secondaryByExtID map[int64]int64
	offensive        map[statKey]playerstats.OffensiveRow
	defensive        map[statKey]playerstats.DefensiveRow
}

func NewStore() *Store {
	return &Store{
		lastID:           make(map[string]int64),
		leagues:          make(map[string]league.League),
		seasons:          make(map[seasonKey]league.Season),
		teams:            make(map[int64]team.Team),
		teamByExtID:      make(map[int64]int64),
		placeholders:     make(map[placeholderKey]int64),
		placeholderSq:    make(map[int64]int64),
		players:          make(map[int64]player.Player),
		playerByExtID:    make(map[int64]int64),
		secondaries:      make(map[int64]player.Secondary),
		secondaryByExtID: make(map[int64]int64),
		offensive:        make(map[statKey]playerstats.OffensiveRow),
		defensive:        make(map[statKey]playerstats.DefensiveRow),
	}
}

func (s *Store) Reader() store.Tx {
	return s.repositories(nil)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	undo := &undoLog{}
	if err := fn(ctx, s.repositories(undo)); err != nil {
		s.rollback(undo)
		return err
	}
	return nil
}

func (s *Store) repositories(undo *undoLog) store.Tx {
	return store.Tx{
		Leagues:          &LeagueRepository{store: s, undo: undo},
		Teams:            &TeamRepository{store: s, undo: undo},
		Players:          &PlayerRepository{store: s, undo: undo},
		SecondaryPlayers: &SecondaryPlayerRepository{store: s, undo: undo},
		Stats:            &PlayerStatsRepository{store: s, undo: undo},
	}
}

// nextID must be called with mu held. Like database sequences, ids are not
// reused after a rollback.
func (s *Store) nextID(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

func (s *Store) rollback(undo *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(undo.ops) - 1; i >= 0; i-- {
		undo.ops[i]()
	}
	undo.ops = nil
}

type undoLog struct {
	ops []func()
}

// record registers the inverse of a write. Writes outside a transaction are
// not undoable.
func (u *undoLog) record(op func()) {
	if u == nil {
		return
	}
	u.ops = append(u.ops, op)
}
