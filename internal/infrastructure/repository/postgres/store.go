package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statlink/internal/domain/store"
)

// Store opens one database transaction per unit of work.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Reader() store.Tx {
	return repositories(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, repositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func repositories(db sqlx.ExtContext) store.Tx {
	return store.Tx{
		Leagues:          NewLeagueRepository(db),
		Teams:            NewTeamRepository(db),
		Players:          NewPlayerRepository(db),
		SecondaryPlayers: NewSecondaryPlayerRepository(db),
		Stats:            NewPlayerStatsRepository(db),
	}
}
