package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/travellyhq/travelly-server/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// ticket line items. Reservations are created and mutated only inside
// transactions owned by the reservation engine; the caller commits or
// rolls back.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction control.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, product_id, buyer_id, name, phone, email, date,
	start_time, end_time, status, rejection_reason, total_price, total_ticket_count,
	created_at, updated_at`

// CreateTx inserts a reservation within an existing transaction. It
// populates the generated ID and timestamps on the provided value.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
		(product_id, buyer_id, name, phone, email, date, start_time, end_time,
		 status, total_price, total_ticket_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.ProductID, res.BuyerID, res.Name, res.Phone, res.Email, res.Date,
		res.StartTime, res.EndTime, string(res.Status), res.TotalPrice, res.TotalTicketCount)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row to populate timestamps and defaults.
	return tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM reservations WHERE id = ?", res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt)
}

// CreateTicketsBulkTx inserts the line items of a reservation in a
// single statement. Passing an empty slice has no effect.
func (r *ReservationRepo) CreateTicketsBulkTx(ctx context.Context, tx *sql.Tx, lines []model.ReservationTicket) error {
	if len(lines) == 0 {
		return nil
	}
	query := "INSERT INTO reservation_tickets (reservation_id, ticket_id, quantity) VALUES "
	args := make([]interface{}, 0, len(lines)*3)
	for i, l := range lines {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, l.ReservationID, l.TicketID, l.Quantity)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID fetches a reservation and its line items.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := r.scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	lines, err := r.loadLines(ctx, []uint64{res.ID})
	if err != nil {
		return nil, err
	}
	res.Tickets = lines[res.ID]
	return res, nil
}

// GetForUpdateTx fetches a reservation row inside a transaction with a
// row lock, so concurrent cancel/reject calls on the same reservation
// serialize and the legal-transition guard sees the committed status.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	return r.scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ? FOR UPDATE", id))
}

func (r *ReservationRepo) scanReservation(row *sql.Row) (*model.Reservation, error) {
	var res model.Reservation
	var status string
	var reason sql.NullString
	err := row.Scan(&res.ID, &res.ProductID, &res.BuyerID, &res.Name, &res.Phone,
		&res.Email, &res.Date, &res.StartTime, &res.EndTime, &status, &reason,
		&res.TotalPrice, &res.TotalTicketCount, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	res.Status = model.ReservationStatus(status)
	if reason.Valid {
		rr := reason.String
		res.RejectionReason = &rr
	}
	return &res, nil
}

// UpdateStatusTx overwrites the status (and optionally the rejection
// reason) of a reservation within a transaction. Transition legality is
// the engine's responsibility.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus, rejectionReason *string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, rejection_reason = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		string(status), rejectionReason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ListByBuyer returns all reservations placed by a member, newest first,
// with line items populated.
func (r *ReservationRepo) ListByBuyer(ctx context.Context, buyerID uint64) ([]model.Reservation, error) {
	return r.listWithLines(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE buyer_id = ? ORDER BY created_at DESC, id DESC",
		buyerID)
}

// ListByProduct returns all reservations against a product, newest
// first, with line items populated.
func (r *ReservationRepo) ListByProduct(ctx context.Context, productID uint64) ([]model.Reservation, error) {
	return r.listWithLines(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE product_id = ? ORDER BY created_at DESC, id DESC",
		productID)
}

func (r *ReservationRepo) listWithLines(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var res model.Reservation
		var status string
		var reason sql.NullString
		if err := rows.Scan(&res.ID, &res.ProductID, &res.BuyerID, &res.Name, &res.Phone,
			&res.Email, &res.Date, &res.StartTime, &res.EndTime, &status, &reason,
			&res.TotalPrice, &res.TotalTicketCount, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		res.Status = model.ReservationStatus(status)
		if reason.Valid {
			rr := reason.String
			res.RejectionReason = &rr
		}
		index[res.ID] = len(out)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	ids := make([]uint64, 0, len(out))
	for _, res := range out {
		ids = append(ids, res.ID)
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, ls := range lines {
		if idx, ok := index[id]; ok {
			out[idx].Tickets = ls
		}
	}
	return out, nil
}

// loadLines fetches the line items for a set of reservations in one
// query, joined with ticket name and price for display.
func (r *ReservationRepo) loadLines(ctx context.Context, reservationIDs []uint64) (map[uint64][]model.ReservationTicket, error) {
	out := make(map[uint64][]model.ReservationTicket, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return out, nil
	}
	args := make([]interface{}, 0, len(reservationIDs))
	placeholders := make([]string, 0, len(reservationIDs))
	for _, id := range reservationIDs {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT rt.id, rt.reservation_id, rt.ticket_id, rt.quantity, t.name, t.price
		 FROM reservation_tickets rt
		 JOIN tickets t ON t.id = rt.ticket_id
		 WHERE rt.reservation_id IN (`+strings.Join(placeholders, ",")+`)
		 ORDER BY rt.reservation_id, rt.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l model.ReservationTicket
		if err := rows.Scan(&l.ID, &l.ReservationID, &l.TicketID, &l.Quantity,
			&l.TicketName, &l.TicketPrice); err != nil {
			return nil, err
		}
		out[l.ReservationID] = append(out[l.ReservationID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SellerProductSummary is one row of the per-seller reservation
// overview: a product plus its most recent reservation's price and
// slot, and reservation counts. Products without reservations do not
// appear.
type SellerProductSummary struct {
	ProductID        uint64
	ProductName      string
	LatestPrice      int
	LatestDate       string
	LatestStartTime  string
	LatestEndTime    string
	ReservationCount int
	PendingCount     int
}

// SummariesBySeller aggregates reservations per product for all products
// owned by a seller. Products with zero reservations are skipped.
func (r *ReservationRepo) SummariesBySeller(ctx context.Context, sellerID uint64) ([]SellerProductSummary, error) {
	const q = `SELECT p.id, p.name, COUNT(r.id),
	                  SUM(CASE WHEN r.status = 'PENDING' THEN 1 ELSE 0 END)
	           FROM products p
	           JOIN reservations r ON r.product_id = p.id
	           WHERE p.member_id = ?
	           GROUP BY p.id, p.name
	           ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SellerProductSummary, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var s SellerProductSummary
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.ReservationCount, &s.PendingCount); err != nil {
			return nil, err
		}
		index[s.ProductID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// Representative slot: the most recent reservation per product.
	args := make([]interface{}, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, s := range out {
		args = append(args, s.ProductID)
		placeholders = append(placeholders, "?")
	}
	latestQ := `SELECT r.product_id, r.total_price, r.date, r.start_time, r.end_time
	            FROM reservations r
	            JOIN (SELECT product_id, MAX(id) AS max_id
	                  FROM reservations
	                  WHERE product_id IN (` + strings.Join(placeholders, ",") + `)
	                  GROUP BY product_id) latest ON latest.max_id = r.id`
	lrows, err := r.db.QueryContext(ctx, latestQ, args...)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()
	for lrows.Next() {
		var pid uint64
		var price int
		var date, start, end string
		if err := lrows.Scan(&pid, &price, &date, &start, &end); err != nil {
			return nil, err
		}
		if idx, ok := index[pid]; ok {
			out[idx].LatestPrice = price
			out[idx].LatestDate = date
			out[idx].LatestStartTime = start
			out[idx].LatestEndTime = end
		}
	}
	if err := lrows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
