package postgres

import "time"

type teamTableModel struct {
	ID         int64     `db:"id"`
	ExternalID int64     `db:"external_id"`
	LeagueID   int64     `db:"league_id"`
	Name       string    `db:"name"`
	NameKey    string    `db:"name_key"`
	CreatedAt  time.Time `db:"created_at"`
}

type teamInsertModel struct {
	ExternalID int64  `db:"external_id"`
	LeagueID   int64  `db:"league_id"`
	Name       string `db:"name"`
	NameKey    string `db:"name_key"`
}
