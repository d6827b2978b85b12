package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eplPrimaryBatch() PrimaryBatch {
	return PrimaryBatch{
		League: "EPL",
		Season: 2024,
		Teams:  []TeamRef{{ExternalID: 82, Name: "Tottenham"}},
		Records: []source.Fields{
			primaryRecord(1, "Son Heung-Min", "Tottenham Hotspur", 7),
			primaryRecord(2, "James Maddison", "Spurs", 9),
			{"player_name": "No Id", "team_title": "Tottenham"},
			primaryRecord(1, "Dejan Kulusevski", "Tottenham", 5),
		},
	}
}

func TestIngestionService_IngestPrimary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	ctx := context.Background()

	summary, err := env.ingestion.IngestPrimary(ctx, eplPrimaryBatch())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Records)
	assert.Equal(t, 2, summary.Ingested)
	assert.Equal(t, 2, summary.Errored)
	assert.Equal(t, EntityCounts{Created: 1, Reused: 2}, summary.Teams)
	assert.Equal(t, EntityCounts{Created: 2}, summary.Players)
	assert.Equal(t, EntityCounts{Created: 2}, summary.Stats)

	require.Len(t, summary.Errors, 2)
	assert.Equal(t, "invalid_record", summary.Errors[0].Kind)
	assert.Equal(t, 2, summary.Errors[0].Index)
	assert.Equal(t, "identity_conflict", summary.Errors[1].Kind)
	assert.Equal(t, int64(1), summary.Errors[1].ExternalID)

	rows, err := env.datasets.Build(ctx, playerFilter(""))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "Tottenham", row.Team)
		assert.Equal(t, 2700, row.Minutes)
	}
}

func TestIngestionService_RerunIsIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	ctx := context.Background()

	_, err := env.ingestion.IngestPrimary(ctx, eplPrimaryBatch())
	require.NoError(t, err)
	summary, err := env.ingestion.IngestPrimary(ctx, eplPrimaryBatch())
	require.NoError(t, err)

	assert.Equal(t, EntityCounts{Reused: 3}, summary.Teams)
	assert.Equal(t, EntityCounts{Reused: 2}, summary.Players)
	assert.Equal(t, EntityCounts{Reused: 2}, summary.Stats)

	players, err := env.store.Reader().Players.List(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 2)
}

func TestIngestionService_SecondaryCreatesPlaceholderTeamsAndNoPlayers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	ctx := context.Background()

	_, err := env.ingestion.IngestPrimary(ctx, PrimaryBatch{
		League:  "EPL",
		Season:  2024,
		Records: []source.Fields{primaryRecord(10, "John Smith", "Brentford", 1)},
	})
	require.NoError(t, err)

	summary, err := env.ingestion.IngestSecondary(ctx, SecondaryBatch{
		League: "EPL",
		Season: 2024,
		Records: []source.Fields{
			secondaryRecord(900, "J. Smith", "Brentford", "48"),
			secondaryRecord(901, "Bryan Mbeumo", "Brentford FC", "-"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Ingested)
	assert.Equal(t, EntityCounts{Created: 2}, summary.Players)
	assert.Equal(t, EntityCounts{Reused: 2}, summary.Teams)

	players, err := env.store.Reader().Players.List(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1, "secondary ingestion must never create primary players")

	unlinked, err := env.store.Reader().SecondaryPlayers.ListUnlinked(ctx)
	require.NoError(t, err)
	assert.Len(t, unlinked, 2)
}

func TestIngestionService_TeamRefConflictIsCounted(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	ctx := context.Background()

	first, err := env.ingestion.IngestPrimary(ctx, PrimaryBatch{
		League: "EPL",
		Season: 2024,
		Teams:  []TeamRef{{ExternalID: 82, Name: "Tottenham"}},
	})
	require.NoError(t, err)
	assert.Equal(t, EntityCounts{Created: 1}, first.Teams)

	second, err := env.ingestion.IngestPrimary(ctx, PrimaryBatch{
		League: "EPL",
		Season: 2024,
		Teams:  []TeamRef{{ExternalID: 82, Name: "Arsenal"}},
	})
	require.NoError(t, err)
	if second.Teams.Errored != 1 {
		t.Fatalf("unexpected team error count: got=%d want=1", second.Teams.Errored)
	}
	assert.Equal(t, 0, second.Errored)
	require.Len(t, second.Errors, 1)
	assert.Equal(t, RecordError{
		Index:      0,
		Entity:     "team",
		ExternalID: 82,
		Kind:       "identity_conflict",
		Message:    second.Errors[0].Message,
	}, second.Errors[0])
}

func TestIngestionService_AliasPlaceholderSurvivesPrimaryReruns(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	ctx := context.Background()

	_, err := env.ingestion.IngestSecondary(ctx, SecondaryBatch{
		League:  "EPL",
		Season:  2024,
		Records: []source.Fields{secondaryRecord(900, "Pedro Porro", "Spurs", 40)},
	})
	require.NoError(t, err)

	batch := PrimaryBatch{League: "EPL", Season: 2024, Teams: []TeamRef{{ExternalID: 82, Name: "Tottenham"}}}
	for run := 1; run <= 2; run++ {
		summary, err := env.ingestion.IngestPrimary(ctx, batch)
		require.NoError(t, err)
		if summary.Teams.Errored != 0 {
			t.Fatalf("run %d: unexpected team errors: %+v", run, summary.Errors)
		}
		assert.Equal(t, EntityCounts{Reused: 1}, summary.Teams)
	}

	l, ok, err := env.store.Reader().Leagues.GetByCode(ctx, "EPL")
	require.NoError(t, err)
	require.True(t, ok)
	teams, err := env.store.Reader().Teams.ListByLeague(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, int64(82), teams[0].ExternalID)
	assert.Equal(t, "Tottenham", teams[0].Name)
}

func TestIngestionService_SetupFailureAbortsBatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	_, err := env.ingestion.IngestPrimary(context.Background(), PrimaryBatch{League: "EPL", Season: 1200})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestIngestionService_IngestBatches(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	ctx := context.Background()

	primaries := []PrimaryBatch{
		eplPrimaryBatch(),
		{
			League:  "La_liga",
			Season:  2024,
			Records: []source.Fields{primaryRecord(30, "Antoine Griezmann", "Atlético Madrid", 16)},
		},
		{League: "", Season: 2024},
	}
	secondaries := []SecondaryBatch{{
		League:  "La_liga",
		Season:  2024,
		Records: []source.Fields{secondaryRecord(700, "Antoine Griezmann", "Atletico", 20)},
	}}

	summaries, err := env.ingestion.IngestBatches(ctx, primaries, secondaries)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, summaries, 4)

	assert.Equal(t, "EPL", summaries[0].League)
	assert.Equal(t, 2, summaries[0].Ingested)
	assert.Equal(t, "La_liga", summaries[1].League)
	assert.Equal(t, 1, summaries[1].Ingested)
	assert.Equal(t, 0, summaries[2].Ingested)
	assert.Equal(t, string(source.Secondary), summaries[3].Source)
	assert.Equal(t, 1, summaries[3].Ingested)

	_, err = env.ingestion.IngestBatches(ctx, nil, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}
