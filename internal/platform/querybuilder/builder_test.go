package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("league_id", int64(3)), Expr("external_id < ?", 0)).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE league_id = $1 AND external_id < $2 ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(3) || args[1] != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderILike(t *testing.T) {
	query, args, err := Select("p.id").
		From("players p").
		Where(IsNull("p.deleted_at"), ILike("p.name", ContainsPattern("50%_off"))).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT p.id FROM players p WHERE p.deleted_at IS NULL AND p.name ILIKE $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != `%50\%\_off%` {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("leagues").
		Columns("code", "display_name").
		Values("EPL", "English Premier League").
		Suffix("ON CONFLICT (code) DO NOTHING RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO leagues (code, display_name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "EPL" || args[1] != "English Premier League" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type model struct {
		LeagueID int64  `db:"league_id"`
		Year     int    `db:"year"`
		skipped  string `db:"skipped"`
		Ignored  string `db:"-"`
	}

	query, args, err := InsertModel("seasons", model{LeagueID: 1, Year: 2024, skipped: "x"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO seasons (league_id, year) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(1) || args[1] != 2024 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModel("seasons", nil, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

func TestUpsertModel(t *testing.T) {
	type stats struct {
		PlayerID int64 `db:"player_id"`
		SeasonID int64 `db:"season_id"`
		Goals    int   `db:"goals"`
		Minutes  int   `db:"minutes"`
	}

	query, args, err := UpsertModel("player_season_stats", stats{PlayerID: 7, SeasonID: 2, Goals: 16, Minutes: 2950},
		[]string{"player_id", "season_id"}, "RETURNING id", "updated_at = NOW()")
	if err != nil {
		t.Fatalf("build upsert model query: %v", err)
	}

	wantQuery := "INSERT INTO player_season_stats (player_id, season_id, goals, minutes) VALUES ($1, $2, $3, $4) " +
		"ON CONFLICT (player_id, season_id) DO UPDATE SET goals = EXCLUDED.goals, minutes = EXCLUDED.minutes, updated_at = NOW() RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != int64(7) || args[2] != 16 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := UpsertModel("player_season_stats", stats{}, []string{"team_id"}, ""); err == nil {
		t.Fatalf("expected error for a conflict key outside the model")
	}
	if _, _, err := UpsertModel("player_season_stats", stats{}, nil, ""); err == nil {
		t.Fatalf("expected error for a missing conflict key")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("secondary_players").
		Set("linked_player_id", int64(9)).
		SetExpr("linked_at", "NOW()").
		Where(Eq("id", int64(4)), IsNull("linked_player_id")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE secondary_players SET linked_player_id = $1, linked_at = NOW() WHERE id = $2 AND linked_player_id IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(9) || args[1] != int64(4) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
