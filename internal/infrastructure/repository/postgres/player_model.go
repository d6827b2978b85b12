package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID         int64     `db:"id"`
	ExternalID int64     `db:"external_id"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
}

type playerInsertModel struct {
	ExternalID int64  `db:"external_id"`
	Name       string `db:"name"`
}

type secondaryPlayerTableModel struct {
	ID             int64         `db:"id"`
	ExternalID     int64         `db:"external_id"`
	Name           string        `db:"name"`
	LinkedPlayerID sql.NullInt64 `db:"linked_player_id"`
	LinkedAt       sql.NullTime  `db:"linked_at"`
	CreatedAt      time.Time     `db:"created_at"`
}
