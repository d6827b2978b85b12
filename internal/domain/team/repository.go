package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Team, error)
	// InsertIfAbsent converges concurrent creators on one row: a clash on the
	// external id, or on (league, name) for placeholders, returns the stored row.
	InsertIfAbsent(ctx context.Context, item Team) (Team, bool, error)
	NextPlaceholderSeq(ctx context.Context, leagueID int64) (int64, error)
	// PromotePlaceholder rekeys a placeholder team to an authoritative id and
	// renames it to the authoritative name. It reports false when the team is no
	// longer a placeholder or the id is taken.
	PromotePlaceholder(ctx context.Context, teamID, externalID int64, name string) (Team, bool, error)
}
