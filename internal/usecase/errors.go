package usecase

import (
	"errors"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrIdentityConflict marks a record whose authoritative id is already
	// stored under a name that does not normalize to the incoming one.
	ErrIdentityConflict = crerr.New("identity conflict")
)

// IsIdentityConflict reports whether err carries the identity conflict mark.
func IsIdentityConflict(err error) bool {
	return crerr.Is(err, ErrIdentityConflict)
}

func newIdentityConflict(source, entity string, externalID int64, storedName, incomingName string) error {
	err := crerr.Newf("%s %s id=%d already stored as %q, received %q", source, entity, externalID, storedName, incomingName)
	err = crerr.WithDetailf(err, "source=%s entity=%s id=%d", source, entity, externalID)
	return crerr.Mark(err, ErrIdentityConflict)
}
