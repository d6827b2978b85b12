package league

import (
	"fmt"
	"strings"
)

// League is a competition identified by its source code, e.g. "EPL".
type League struct {
	ID          int64
	Code        string
	DisplayName string
}

func (l League) Validate() error {
	if strings.TrimSpace(l.Code) == "" {
		return fmt.Errorf("league code is required")
	}

	return nil
}

// Season is one league year. Year is the starting year of a split season.
type Season struct {
	ID       int64
	LeagueID int64
	Year     int
}

func (s Season) Validate() error {
	if s.LeagueID <= 0 {
		return fmt.Errorf("season league id is required")
	}
	if s.Year < 1870 || s.Year > 2200 {
		return fmt.Errorf("season year %d is out of range", s.Year)
	}

	return nil
}

// Label renders the split-season form used in exports, e.g. "2024/2025".
func (s Season) Label() string {
	return SeasonLabel(s.Year)
}

func SeasonLabel(year int) string {
	return fmt.Sprintf("%d/%d", year, year+1)
}

var knownDisplayNames = map[string]string{
	"EPL":        "English Premier League",
	"La_liga":    "La Liga",
	"Bundesliga": "Bundesliga",
	"Serie_A":    "Serie A",
	"Ligue_1":    "Ligue 1",
}

// DisplayNameFor returns the display name of a supported league, or the code itself.
func DisplayNameFor(code string) string {
	if name, ok := knownDisplayNames[code]; ok {
		return name
	}
	return code
}
