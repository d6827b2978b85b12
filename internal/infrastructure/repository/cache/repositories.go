package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/statlink/internal/domain/player"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/store"
	basecache "github.com/riskibarqy/statlink/internal/platform/cache"
)

const datasetPrefix = "dataset:"

// DatasetCache holds unmerged dataset rows per filter.
type DatasetCache = basecache.Store[[]playerstats.DatasetRow]

// UnitOfWork serves dataset reads from cache and drops every cached dataset
// once a transaction that wrote stats or links finishes.
type UnitOfWork struct {
	next  store.UnitOfWork
	cache *DatasetCache
}

func NewUnitOfWork(next store.UnitOfWork, cache *DatasetCache) *UnitOfWork {
	return &UnitOfWork{next: next, cache: cache}
}

func (u *UnitOfWork) Reader() store.Tx {
	tx := u.next.Reader()
	tx.Stats = &PlayerStatsRepository{next: tx.Stats, cache: u.cache}
	return tx
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	tracker := &writeTracker{}
	err := u.next.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		tx.Stats = &trackedStatsRepository{Repository: tx.Stats, tracker: tracker}
		tx.SecondaryPlayers = &trackedSecondaryRepository{SecondaryRepository: tx.SecondaryPlayers, tracker: tracker}
		return fn(ctx, tx)
	})
	// Rolled back writes may have been visible to readers, so invalidate either way.
	if tracker.dirty {
		u.invalidate(ctx)
	}
	return err
}

func (u *UnitOfWork) invalidate(ctx context.Context) {
	u.cache.DeletePrefix(ctx, datasetPrefix)
}

type writeTracker struct {
	dirty bool
}

type trackedStatsRepository struct {
	playerstats.Repository
	tracker *writeTracker
}

func (r *trackedStatsRepository) UpsertOffensive(ctx context.Context, row playerstats.OffensiveRow) (playerstats.OffensiveRow, bool, error) {
	r.tracker.dirty = true
	return r.Repository.UpsertOffensive(ctx, row)
}

func (r *trackedStatsRepository) UpsertDefensive(ctx context.Context, row playerstats.DefensiveRow) (playerstats.DefensiveRow, bool, error) {
	r.tracker.dirty = true
	return r.Repository.UpsertDefensive(ctx, row)
}

type trackedSecondaryRepository struct {
	player.SecondaryRepository
	tracker *writeTracker
}

func (r *trackedSecondaryRepository) SetLink(ctx context.Context, secondaryID, playerID int64) (bool, error) {
	linked, err := r.SecondaryRepository.SetLink(ctx, secondaryID, playerID)
	if linked {
		r.tracker.dirty = true
	}
	return linked, err
}

type PlayerStatsRepository struct {
	next  playerstats.Repository
	cache *DatasetCache
}

func (r *PlayerStatsRepository) ListDataset(ctx context.Context, filter playerstats.DatasetFilter) ([]playerstats.DatasetRow, error) {
	items, err := r.cache.GetOrLoad(ctx, datasetKey(filter), func(ctx context.Context) ([]playerstats.DatasetRow, error) {
		items, err := r.next.ListDataset(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]playerstats.DatasetRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]playerstats.DatasetRow(nil), items...), nil
}

func (r *PlayerStatsRepository) UpsertOffensive(ctx context.Context, row playerstats.OffensiveRow) (playerstats.OffensiveRow, bool, error) {
	out, created, err := r.next.UpsertOffensive(ctx, row)
	if err != nil {
		return out, created, err
	}
	r.cache.DeletePrefix(ctx, datasetPrefix)
	return out, created, nil
}

func (r *PlayerStatsRepository) UpsertDefensive(ctx context.Context, row playerstats.DefensiveRow) (playerstats.DefensiveRow, bool, error) {
	out, created, err := r.next.UpsertDefensive(ctx, row)
	if err != nil {
		return out, created, err
	}
	r.cache.DeletePrefix(ctx, datasetPrefix)
	return out, created, nil
}

func datasetKey(filter playerstats.DatasetFilter) string {
	var b strings.Builder
	b.WriteString(datasetPrefix)
	b.WriteString(strings.TrimSpace(filter.LeagueCode))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(filter.SeasonYear))
	b.WriteByte(':')
	b.WriteString(strings.ToLower(strings.TrimSpace(filter.PlayerName)))
	return b.String()
}
