package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/statlink/internal/domain/league"
	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/store"
	"github.com/riskibarqy/statlink/internal/domain/team"
	leaguemock "github.com/riskibarqy/statlink/internal/mocks/domain/league"
	playerstatsmock "github.com/riskibarqy/statlink/internal/mocks/domain/playerstats"
	teammock "github.com/riskibarqy/statlink/internal/mocks/domain/team"
	"github.com/riskibarqy/statlink/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockUpsertService(t *testing.T) *UpsertService {
	t.Helper()

	registry, err := matching.NewRegistry(matching.DefaultAliasTable())
	require.NoError(t, err)
	resolver, err := matching.NewResolver(matching.KindTeam, 0.80, registry, matching.BlockRatio{})
	require.NoError(t, err)
	service, err := NewUpsertService(resolver, logging.NewNop())
	require.NoError(t, err)
	return service
}

func TestUpsertService_LeagueLostInsertRaceIsReused(t *testing.T) {
	t.Parallel()

	leagues := leaguemock.NewRepository(t)
	leagues.On("GetByCode", mock.Anything, "EPL").Return(league.League{}, false, nil).Once()
	leagues.On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(item league.League) bool {
		return item.Code == "EPL" && item.DisplayName != ""
	})).Return(league.League{ID: 7, Code: "EPL", DisplayName: "Premier League"}, false, nil).Once()

	got, outcome, err := newMockUpsertService(t).GetOrCreateLeague(context.Background(), store.Tx{Leagues: leagues}, " EPL ", "")
	require.NoError(t, err)
	if got.ID != 7 || outcome != OutcomeReused {
		t.Fatalf("unexpected league: id=%d outcome=%s", got.ID, outcome)
	}
}

func TestUpsertService_SeasonLookupFailureIsWrapped(t *testing.T) {
	t.Parallel()

	leagues := leaguemock.NewRepository(t)
	leagues.On("GetSeason", mock.Anything, int64(7), 2023).Return(league.Season{}, false, errors.New("conn refused")).Once()

	_, _, err := newMockUpsertService(t).GetOrCreateSeason(context.Background(), store.Tx{Leagues: leagues}, 7, 2023)
	require.ErrorContains(t, err, "conn refused")
	require.NotErrorIs(t, err, ErrInvalidInput)
}

func TestUpsertService_AliasMatchSkipsPlaceholderAllocation(t *testing.T) {
	t.Parallel()

	teams := teammock.NewRepository(t)
	teams.On("ListByLeague", mock.Anything, int64(7)).Return([]team.Team{
		{ID: 3, ExternalID: 82, LeagueID: 7, Name: "Tottenham"},
		{ID: 4, ExternalID: 87, LeagueID: 7, Name: "Arsenal"},
	}, nil).Once()

	got, outcome, err := newMockUpsertService(t).ResolveOrCreateTeam(context.Background(), store.Tx{Teams: teams}, 7, "Spurs")
	require.NoError(t, err)
	if got.ID != 3 || outcome != OutcomeReused {
		t.Fatalf("unexpected team: id=%d outcome=%s", got.ID, outcome)
	}
	teams.AssertNotCalled(t, "NextPlaceholderSeq", mock.Anything, mock.Anything)
}

func TestUpsertService_PlaceholderSequenceFailure(t *testing.T) {
	t.Parallel()

	teams := teammock.NewRepository(t)
	teams.On("ListByLeague", mock.Anything, int64(7)).Return(nil, nil).Once()
	teams.On("NextPlaceholderSeq", mock.Anything, int64(7)).Return(int64(0), errors.New("sequence locked")).Once()

	_, _, err := newMockUpsertService(t).ResolveOrCreateTeam(context.Background(), store.Tx{Teams: teams}, 7, "Real Sociedad")
	require.ErrorContains(t, err, "allocate placeholder league=7")
}

func TestUpsertService_InvalidStatsRowNeverReachesStore(t *testing.T) {
	t.Parallel()

	stats := playerstatsmock.NewRepository(t)

	_, _, err := newMockUpsertService(t).UpsertOffensiveStats(context.Background(), store.Tx{Stats: stats}, playerstats.OffensiveRow{PlayerID: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
	stats.AssertNotCalled(t, "UpsertOffensive", mock.Anything, mock.Anything)
}

func TestDatasetService_ListFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	stats := playerstatsmock.NewRepository(t)
	filter := playerstats.DatasetFilter{LeagueCode: "EPL", SeasonYear: 2023}
	stats.On("ListDataset", mock.Anything, filter).Return(nil, errors.New("statement timeout")).Once()

	service := NewDatasetService(mockUnitOfWork{tx: store.Tx{Stats: stats}}, nil, logging.NewNop())
	_, err := service.Build(context.Background(), playerstats.DatasetFilter{LeagueCode: " EPL ", SeasonYear: 2023})
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}
