package league

import "context"

// Repository describes league and season persistence needs from use cases.
type Repository interface {
	GetByCode(ctx context.Context, code string) (League, bool, error)
	// InsertIfAbsent stores item unless its code exists and returns the stored row.
	InsertIfAbsent(ctx context.Context, item League) (League, bool, error)
	GetSeason(ctx context.Context, leagueID int64, year int) (Season, bool, error)
	InsertSeasonIfAbsent(ctx context.Context, item Season) (Season, bool, error)
}
