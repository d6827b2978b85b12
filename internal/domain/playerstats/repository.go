package playerstats

import "context"

type Repository interface {
	// UpsertOffensive writes the row keyed by (player, season, team) and
	// reports whether it was newly created.
	UpsertOffensive(ctx context.Context, row OffensiveRow) (OffensiveRow, bool, error)
	UpsertDefensive(ctx context.Context, row DefensiveRow) (DefensiveRow, bool, error)
	// ListDataset returns unmerged rows ordered by player, season and team.
	ListDataset(ctx context.Context, filter DatasetFilter) ([]DatasetRow, error)
}
