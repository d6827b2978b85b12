package player

import "context"

// Repository describes primary player persistence needs from use cases.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Player, bool, error)
	InsertIfAbsent(ctx context.Context, item Player) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
}

// SecondaryRepository describes secondary player persistence needs from use cases.
type SecondaryRepository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Secondary, bool, error)
	InsertIfAbsent(ctx context.Context, item Secondary) (Secondary, bool, error)
	ListUnlinked(ctx context.Context) ([]Secondary, error)
	// SetLink links the row only when it is still unlinked and reports whether it did.
	SetLink(ctx context.Context, secondaryID, playerID int64) (bool, error)
}
