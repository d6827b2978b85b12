package player

import (
	"fmt"
	"strings"
)

// UnknownName replaces blank names on ingestion.
const UnknownName = "Unknown"

// Player is a primary-source identity. ExternalID is authoritative.
type Player struct {
	ID         int64
	ExternalID int64
	Name       string
}

func (p Player) Validate() error {
	if p.ExternalID <= 0 {
		return fmt.Errorf("player external id must be positive")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}

// Secondary is a secondary-source identity. LinkedPlayerID is set at most
// once and then never cleared.
type Secondary struct {
	ID             int64
	ExternalID     int64
	Name           string
	LinkedPlayerID *int64
}

func (s Secondary) Validate() error {
	if s.ExternalID <= 0 {
		return fmt.Errorf("secondary player external id must be positive")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("secondary player name is required")
	}

	return nil
}

func (s Secondary) Linked() bool {
	return s.LinkedPlayerID != nil
}

// NameOrUnknown trims name and substitutes UnknownName for blanks.
func NameOrUnknown(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownName
	}
	return name
}
