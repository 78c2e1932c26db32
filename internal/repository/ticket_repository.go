package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/travellyhq/travelly-server/internal/model"
)

// TicketRepo resolves ticket tiers for the reservation engine.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// GetByIDs resolves a batch of ticket ids in one query and returns a map
// keyed by id. Missing ids are simply absent from the result; detecting
// them is the caller's job. Passing an empty slice returns an empty map.
func (r *TicketRepo) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Ticket, error) {
	return r.getByIDs(ctx, r.db.QueryContext, ids)
}

// GetByIDsTx is GetByIDs inside an open transaction.
func (r *TicketRepo) GetByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]model.Ticket, error) {
	return r.getByIDs(ctx, tx.QueryContext, ids)
}

func (r *TicketRepo) getByIDs(ctx context.Context, query rowsQuerier, ids []uint64) (map[uint64]model.Ticket, error) {
	out := make(map[uint64]model.Ticket, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]interface{}, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	rows, err := query(ctx,
		"SELECT id, product_id, name, price FROM tickets WHERE id IN ("+strings.Join(placeholders, ",")+")",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Name, &t.Price); err != nil {
			return nil, err
		}
		out[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
