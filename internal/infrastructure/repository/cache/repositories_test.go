package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/statlink/internal/domain/league"
	"github.com/riskibarqy/statlink/internal/domain/player"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/store"
	"github.com/riskibarqy/statlink/internal/domain/team"
	"github.com/riskibarqy/statlink/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/statlink/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backing *memory.Store
	uow     *UnitOfWork
	season  league.Season
	team    team.Team
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	backing := memory.NewStore()
	raw := backing.Reader()

	l, _, err := raw.Leagues.InsertIfAbsent(ctx, league.League{Code: "EPL"})
	require.NoError(t, err)
	season, _, err := raw.Leagues.InsertSeasonIfAbsent(ctx, league.Season{LeagueID: l.ID, Year: 2024})
	require.NoError(t, err)
	spurs, _, err := raw.Teams.InsertIfAbsent(ctx, team.Team{ExternalID: 82, LeagueID: l.ID, Name: "Tottenham"})
	require.NoError(t, err)

	return fixture{
		backing: backing,
		uow:     NewUnitOfWork(backing, basecache.NewStore[[]playerstats.DatasetRow](0)),
		season:  season,
		team:    spurs,
	}
}

func (f fixture) addPlayer(t *testing.T, extID int64, name string) player.Player {
	t.Helper()
	ctx := context.Background()
	raw := f.backing.Reader()
	p, _, err := raw.Players.InsertIfAbsent(ctx, player.Player{ExternalID: extID, Name: name})
	require.NoError(t, err)
	_, _, err = raw.Stats.UpsertOffensive(ctx, playerstats.OffensiveRow{PlayerID: p.ID, SeasonID: f.season.ID, TeamID: f.team.ID})
	require.NoError(t, err)
	return p
}

func TestUnitOfWork_ReaderServesCachedDataset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addPlayer(t, 1, "Son Heung-Min")

	filter := playerstats.DatasetFilter{LeagueCode: "EPL", SeasonYear: 2024}
	rows, err := f.uow.Reader().Stats.ListDataset(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Written behind the decorator's back, so the cached result stays.
	f.addPlayer(t, 2, "James Maddison")
	rows, err = f.uow.Reader().Stats.ListDataset(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	f.uow.invalidate(ctx)
	rows, err = f.uow.Reader().Stats.ListDataset(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestUnitOfWork_StatsWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addPlayer(t, 1, "Son Heung-Min")

	filter := playerstats.DatasetFilter{}
	rows, err := f.uow.Reader().Stats.ListDataset(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 0, rows[0].Goals)

	err = f.uow.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		row := playerstats.OffensiveRow{PlayerID: p.ID, SeasonID: f.season.ID, TeamID: f.team.ID}
		row.Goals = 17
		_, _, err := tx.Stats.UpsertOffensive(ctx, row)
		return err
	})
	require.NoError(t, err)

	rows, err = f.uow.Reader().Stats.ListDataset(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 17, rows[0].Goals)
}

func TestUnitOfWork_RolledBackWriteStillInvalidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addPlayer(t, 1, "Son Heung-Min")

	_, err := f.uow.Reader().Stats.ListDataset(ctx, playerstats.DatasetFilter{})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = f.uow.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, _, err := tx.Stats.UpsertOffensive(ctx, playerstats.OffensiveRow{PlayerID: p.ID, SeasonID: f.season.ID, TeamID: f.team.ID})
		if err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, f.uow.cache.Len())
}

func TestUnitOfWork_NoOpLinkKeepsCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addPlayer(t, 1, "Son Heung-Min")
	sec, _, err := f.backing.Reader().SecondaryPlayers.InsertIfAbsent(ctx, player.Secondary{ExternalID: 9, Name: "Heung-Min Son"})
	require.NoError(t, err)
	_, err = f.backing.Reader().SecondaryPlayers.SetLink(ctx, sec.ID, p.ID)
	require.NoError(t, err)

	_, err = f.uow.Reader().Stats.ListDataset(ctx, playerstats.DatasetFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, f.uow.cache.Len())

	err = f.uow.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		linked, err := tx.SecondaryPlayers.SetLink(ctx, sec.ID, p.ID)
		assert.False(t, linked)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.uow.cache.Len())
}

func TestDatasetKey_NormalizesPlayerName(t *testing.T) {
	a := datasetKey(playerstats.DatasetFilter{LeagueCode: "EPL", SeasonYear: 2024, PlayerName: " Salah "})
	b := datasetKey(playerstats.DatasetFilter{LeagueCode: "EPL", SeasonYear: 2024, PlayerName: "salah"})
	assert.Equal(t, a, b)
	assert.Equal(t, "dataset:EPL:2024:salah", a)
}
