package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statlink/internal/domain/player"
	qb "github.com/riskibarqy/statlink/internal/platform/querybuilder"
)

const (
	playerColumns          = "id, external_id, name, created_at"
	secondaryPlayerColumns = "id, external_id, name, linked_player_id, linked_at, created_at"
)

type PlayerRepository struct {
	db sqlx.ExtContext
}

func NewPlayerRepository(db sqlx.ExtContext) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	query, args, err := qb.Select(playerColumns).From("players").
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player external_id=%d: %w", externalID, err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) InsertIfAbsent(ctx context.Context, item player.Player) (player.Player, bool, error) {
	query, args, err := qb.InsertModel("players", playerInsertModel{
		ExternalID: item.ExternalID,
		Name:       item.Name,
	}, "ON CONFLICT (external_id) DO NOTHING RETURNING "+playerColumns)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build insert player query: %w", err)
	}

	var row playerTableModel
	err = sqlx.GetContext(ctx, r.db, &row, query, args...)
	if err == nil {
		return playerFromRow(row), true, nil
	}
	if !isNotFound(err) {
		return player.Player{}, false, fmt.Errorf("insert player external_id=%d: %w", item.ExternalID, err)
	}

	stored, ok, err := r.GetByExternalID(ctx, item.ExternalID)
	if err != nil {
		return player.Player{}, false, err
	}
	if !ok {
		return player.Player{}, false, fmt.Errorf("player external_id=%d missing after insert conflict", item.ExternalID)
	}
	return stored, false, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerColumns).From("players").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

type SecondaryPlayerRepository struct {
	db sqlx.ExtContext
}

func NewSecondaryPlayerRepository(db sqlx.ExtContext) *SecondaryPlayerRepository {
	return &SecondaryPlayerRepository{db: db}
}

func (r *SecondaryPlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Secondary, bool, error) {
	query, args, err := qb.Select(secondaryPlayerColumns).From("secondary_players").
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Secondary{}, false, fmt.Errorf("build select secondary player query: %w", err)
	}

	var row secondaryPlayerTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Secondary{}, false, nil
		}
		return player.Secondary{}, false, fmt.Errorf("select secondary player external_id=%d: %w", externalID, err)
	}
	return secondaryFromRow(row), true, nil
}

// InsertIfAbsent never writes linked_player_id; links are set through SetLink only.
func (r *SecondaryPlayerRepository) InsertIfAbsent(ctx context.Context, item player.Secondary) (player.Secondary, bool, error) {
	query, args, err := qb.InsertModel("secondary_players", playerInsertModel{
		ExternalID: item.ExternalID,
		Name:       item.Name,
	}, "ON CONFLICT (external_id) DO NOTHING RETURNING "+secondaryPlayerColumns)
	if err != nil {
		return player.Secondary{}, false, fmt.Errorf("build insert secondary player query: %w", err)
	}

	var row secondaryPlayerTableModel
	err = sqlx.GetContext(ctx, r.db, &row, query, args...)
	if err == nil {
		return secondaryFromRow(row), true, nil
	}
	if !isNotFound(err) {
		return player.Secondary{}, false, fmt.Errorf("insert secondary player external_id=%d: %w", item.ExternalID, err)
	}

	stored, ok, err := r.GetByExternalID(ctx, item.ExternalID)
	if err != nil {
		return player.Secondary{}, false, err
	}
	if !ok {
		return player.Secondary{}, false, fmt.Errorf("secondary player external_id=%d missing after insert conflict", item.ExternalID)
	}
	return stored, false, nil
}

func (r *SecondaryPlayerRepository) ListUnlinked(ctx context.Context) ([]player.Secondary, error) {
	query, args, err := qb.Select(secondaryPlayerColumns).From("secondary_players").
		Where(qb.IsNull("linked_player_id")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select unlinked secondary players query: %w", err)
	}

	var rows []secondaryPlayerTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select unlinked secondary players: %w", err)
	}

	out := make([]player.Secondary, 0, len(rows))
	for _, row := range rows {
		out = append(out, secondaryFromRow(row))
	}
	return out, nil
}

func (r *SecondaryPlayerRepository) SetLink(ctx context.Context, secondaryID, playerID int64) (bool, error) {
	query, args, err := qb.Update("secondary_players").
		Set("linked_player_id", playerID).
		SetExpr("linked_at", "NOW()").
		Where(qb.Eq("id", secondaryID), qb.IsNull("linked_player_id")).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build link secondary player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("link secondary player id=%d player=%d: %w", secondaryID, playerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("link secondary player rows affected: %w", err)
	}
	return affected == 1, nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{ID: row.ID, ExternalID: row.ExternalID, Name: row.Name}
}

func secondaryFromRow(row secondaryPlayerTableModel) player.Secondary {
	return player.Secondary{
		ID:             row.ID,
		ExternalID:     row.ExternalID,
		Name:           row.Name,
		LinkedPlayerID: nullInt64ToPtr(row.LinkedPlayerID),
	}
}
