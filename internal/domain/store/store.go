package store

import (
	"context"

	"github.com/riskibarqy/statlink/internal/domain/league"
	"github.com/riskibarqy/statlink/internal/domain/player"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/team"
)

// Tx is the set of repositories bound to one transaction (or to the plain
// connection for reads outside a transaction).
type Tx struct {
	Leagues          league.Repository
	Teams            team.Repository
	Players          player.Repository
	SecondaryPlayers player.SecondaryRepository
	Stats            playerstats.Repository
}

// UnitOfWork runs fn inside one transaction. It commits when fn returns nil
// and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reader returns repositories for read-only use outside a transaction.
	Reader() Tx
}
