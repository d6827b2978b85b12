package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := fmt.Errorf("insert team: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("duplicate key value")) {
			t.Fatalf("expected false for non-pq error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get league: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullInt64ToPtr(t *testing.T) {
	if got := nullInt64ToPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil, got %d", *got)
	}
	got := nullInt64ToPtr(sql.NullInt64{Int64: 7, Valid: true})
	if got == nil || *got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestDatasetRowFromModel(t *testing.T) {
	t.Run("no linked defensive stats", func(t *testing.T) {
		row := datasetRowFromModel(datasetTableModel{PlayerID: 1, SeasonID: 2, PlayerName: "Saka", Goals: 16})
		if row.Defensive != nil {
			t.Fatalf("expected nil defensive metrics")
		}
		if row.Goals != 16 {
			t.Fatalf("expected goals 16, got %d", row.Goals)
		}
	})

	t.Run("linked defensive stats", func(t *testing.T) {
		row := datasetRowFromModel(datasetTableModel{
			PlayerID:      1,
			SeasonID:      2,
			DefensiveID:   sql.NullInt64{Int64: 5, Valid: true},
			Tackles:       sql.NullInt64{Int64: 27, Valid: true},
			AerialWinPct:  sql.NullFloat64{Float64: 56.7, Valid: true},
			DefPosition:   sql.NullString{String: "DMC", Valid: true},
			Interceptions: sql.NullInt64{},
		})
		if row.Defensive == nil {
			t.Fatalf("expected defensive metrics")
		}
		if row.Defensive.Tackles != 27 || row.Defensive.AerialWinPct != 56.7 || row.Defensive.Position != "DMC" {
			t.Fatalf("unexpected defensive metrics: %+v", row.Defensive)
		}
	})
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func TestPromotePlaceholderQuery(t *testing.T) {
	query, args, err := promotePlaceholderQuery(3, 82, "Tottenham Hotspur")
	if err != nil {
		t.Fatalf("build promote query: %v", err)
	}

	want := "UPDATE teams SET external_id = $1, name = $2, name_key = $3 WHERE id = $4 AND external_id < 0 AND " +
		"NOT EXISTS (SELECT 1 FROM teams taken WHERE taken.external_id = $5) RETURNING " + teamColumns
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 5 || args[0] != int64(82) || args[1] != "Tottenham Hotspur" || args[2] != "tottenham hotspur" || args[3] != int64(3) || args[4] != int64(82) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
