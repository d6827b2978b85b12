package team

import (
	"fmt"
	"strings"
)

const (
	maxPlaceholderLeagueID = 1<<31 - 1
	maxPlaceholderSeq      = 1<<32 - 1
)

// Team is a club inside a league. ExternalID is the primary source's id when
// known and a negative placeholder otherwise.
type Team struct {
	ID         int64
	ExternalID int64
	LeagueID   int64
	Name       string
}

func (t Team) Validate() error {
	if t.ExternalID == 0 {
		return fmt.Errorf("team external id is required")
	}
	if t.LeagueID <= 0 {
		return fmt.Errorf("team league id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

func (t Team) IsPlaceholder() bool {
	return t.ExternalID < 0
}

// PlaceholderID packs a league id and that league's allocation sequence into a
// negative id. Distinct (league, seq) pairs never share an id and authoritative
// ids are positive, so placeholders cannot collide with either.
func PlaceholderID(leagueID, seq int64) (int64, error) {
	if leagueID <= 0 || leagueID > maxPlaceholderLeagueID {
		return 0, fmt.Errorf("placeholder league id %d out of range", leagueID)
	}
	if seq <= 0 || seq > maxPlaceholderSeq {
		return 0, fmt.Errorf("placeholder sequence %d out of range", seq)
	}
	return -(leagueID<<32 | seq), nil
}
