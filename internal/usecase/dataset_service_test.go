package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/statlink/internal/domain/matching"
	"github.com/riskibarqy/statlink/internal/domain/playerstats"
	"github.com/riskibarqy/statlink/internal/domain/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetService_MergeKeepsRichestDefensiveRow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	ctx := context.Background()

	_, err := env.ingestion.IngestPrimary(ctx, PrimaryBatch{
		League:  "EPL",
		Season:  2024,
		Records: []source.Fields{primaryRecord(1, "Declan Rice", "Arsenal", 4)},
	})
	require.NoError(t, err)

	// The secondary feed lists the player twice: a partial row and a full one.
	_, err = env.ingestion.IngestSecondary(ctx, SecondaryBatch{
		League: "EPL",
		Season: 2024,
		Records: []source.Fields{
			secondaryRecord(100, "Declan Rice", "Arsenal", 12),
			secondaryRecord(101, "Declan Rice", "Arsenal", 27),
		},
	})
	require.NoError(t, err)

	linked, err := env.links.LinkSecondaryPlayers(ctx, LinkInput{})
	require.NoError(t, err)
	require.Equal(t, 2, linked.Linked)

	rows, err := env.datasets.Build(ctx, playerstats.DatasetFilter{LeagueCode: "EPL", SeasonYear: 2024})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Defensive)
	assert.Equal(t, 27, rows[0].Defensive.Tackles)
	assert.Equal(t, 56.7, rows[0].Defensive.AerialWinPct)
	assert.Equal(t, "Declan Rice", rows[0].PlayerName)
}

func TestDatasetService_UnlinkedPlayerHasNoDefensiveColumns(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	ctx := context.Background()

	_, err := env.ingestion.IngestPrimary(ctx, PrimaryBatch{
		League:  "EPL",
		Season:  2024,
		Records: []source.Fields{primaryRecord(4, "John Smith", "Brentford", 1)},
	})
	require.NoError(t, err)
	_, err = env.ingestion.IngestSecondary(ctx, SecondaryBatch{
		League:  "EPL",
		Season:  2024,
		Records: []source.Fields{secondaryRecord(103, "J. Smith", "Brentford", 5)},
	})
	require.NoError(t, err)
	_, err = env.links.LinkSecondaryPlayers(ctx, LinkInput{})
	require.NoError(t, err)

	rows, err := env.datasets.Build(ctx, playerFilter("smith"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Defensive)
}

func TestDatasetService_RejectsNegativeSeason(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, matching.DefaultAliasTable())
	_, err := env.datasets.Build(context.Background(), playerstats.DatasetFilter{SeasonYear: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}
