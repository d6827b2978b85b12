package postgres

import "time"

type leagueTableModel struct {
	ID          int64     `db:"id"`
	Code        string    `db:"code"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
}

type leagueInsertModel struct {
	Code        string `db:"code"`
	DisplayName string `db:"display_name"`
}

type seasonTableModel struct {
	ID        int64     `db:"id"`
	LeagueID  int64     `db:"league_id"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
}

type seasonInsertModel struct {
	LeagueID int64 `db:"league_id"`
	Year     int   `db:"year"`
}
