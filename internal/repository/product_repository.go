package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/travellyhq/travelly-server/internal/model"
)

// ProductRepo encapsulates all database queries related to products and
// their owned schedule (operation days/hours) and ticket tiers. Children
// are written together with the product in one transaction and loaded
// eagerly on reads, since the reservation engine needs the full graph
// for availability and pricing checks.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo with the provided DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions that
// span multiple repositories.
func (r *ProductRepo) DB() *sql.DB { return r.db }

// Create inserts a product plus its operation days, hours and tickets in
// a single transaction. Days supplied without hours get the default
// all-day window. Generated IDs are populated on the passed product.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qProduct = `INSERT INTO products
		(member_id, name, type, description, image_url, address, detail_address,
		 phone_number, homepage, city_code, quantity, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qProduct,
		p.MemberID, p.Name, p.Type, p.Description, p.ImageURL, p.Address,
		p.DetailAddress, p.PhoneNumber, p.Homepage, p.CityCode, p.Quantity, p.Price)
	if err != nil {
		return err
	}
	pid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(pid)

	for i := range p.OperationDays {
		day := &p.OperationDays[i]
		day.ProductID = p.ID
		res, err := tx.ExecContext(ctx,
			"INSERT INTO operation_days (product_id, date) VALUES (?, ?)", p.ID, day.Date)
		if err != nil {
			return err
		}
		did, err := res.LastInsertId()
		if err != nil {
			return err
		}
		day.ID = uint64(did)
		if len(day.Hours) == 0 {
			day.Hours = model.DefaultHours()
		}
		for j := range day.Hours {
			h := &day.Hours[j]
			h.DayID = day.ID
			res, err := tx.ExecContext(ctx,
				"INSERT INTO operation_hours (operation_day_id, start_time, end_time) VALUES (?, ?, ?)",
				day.ID, h.StartTime, h.EndTime)
			if err != nil {
				return err
			}
			hid, err := res.LastInsertId()
			if err != nil {
				return err
			}
			h.ID = uint64(hid)
		}
	}

	for i := range p.Tickets {
		t := &p.Tickets[i]
		t.ProductID = p.ID
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tickets (product_id, name, price) VALUES (?, ?, ?)",
			p.ID, t.Name, t.Price)
		if err != nil {
			return err
		}
		tid, err := res.LastInsertId()
		if err != nil {
			return err
		}
		t.ID = uint64(tid)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

const productColumns = `id, member_id, name, type, description, image_url, address,
	detail_address, phone_number, homepage, city_code, quantity, price, created_at, updated_at`

// GetByID fetches a product with its operation days, hours and tickets.
// It returns ErrProductNotFound if no row is found.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	return r.getByID(ctx, r.db.QueryRowContext, r.db.QueryContext, id)
}

// GetByIDTx is GetByID inside an open transaction.
func (r *ProductRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Product, error) {
	return r.getByID(ctx, tx.QueryRowContext, tx.QueryContext, id)
}

type rowQuerier func(ctx context.Context, query string, args ...interface{}) *sql.Row
type rowsQuerier func(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

func (r *ProductRepo) getByID(ctx context.Context, queryRow rowQuerier, query rowsQuerier, id uint64) (*model.Product, error) {
	var p model.Product
	err := queryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id).Scan(
		&p.ID, &p.MemberID, &p.Name, &p.Type, &p.Description, &p.ImageURL, &p.Address,
		&p.DetailAddress, &p.PhoneNumber, &p.Homepage, &p.CityCode, &p.Quantity, &p.Price,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// Load schedule: days first, then all hours for those days in one query.
	dayRows, err := query(ctx,
		"SELECT id, product_id, date FROM operation_days WHERE product_id = ? ORDER BY date", p.ID)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()
	dayIndex := make(map[uint64]int)
	for dayRows.Next() {
		var d model.OperationDay
		if err := dayRows.Scan(&d.ID, &d.ProductID, &d.Date); err != nil {
			return nil, err
		}
		dayIndex[d.ID] = len(p.OperationDays)
		p.OperationDays = append(p.OperationDays, d)
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	if len(p.OperationDays) > 0 {
		ids := make([]interface{}, 0, len(p.OperationDays))
		placeholders := make([]string, 0, len(p.OperationDays))
		for _, d := range p.OperationDays {
			ids = append(ids, d.ID)
			placeholders = append(placeholders, "?")
		}
		hourRows, err := query(ctx,
			`SELECT id, operation_day_id, start_time, end_time FROM operation_hours
			 WHERE operation_day_id IN (`+strings.Join(placeholders, ",")+`)
			 ORDER BY operation_day_id, start_time`, ids...)
		if err != nil {
			return nil, err
		}
		defer hourRows.Close()
		for hourRows.Next() {
			var h model.OperationHour
			if err := hourRows.Scan(&h.ID, &h.DayID, &h.StartTime, &h.EndTime); err != nil {
				return nil, err
			}
			if idx, ok := dayIndex[h.DayID]; ok {
				p.OperationDays[idx].Hours = append(p.OperationDays[idx].Hours, h)
			}
		}
		if err := hourRows.Err(); err != nil {
			return nil, err
		}
	}

	ticketRows, err := query(ctx,
		"SELECT id, product_id, name, price FROM tickets WHERE product_id = ? ORDER BY id", p.ID)
	if err != nil {
		return nil, err
	}
	defer ticketRows.Close()
	for ticketRows.Next() {
		var t model.Ticket
		if err := ticketRows.Scan(&t.ID, &t.ProductID, &t.Name, &t.Price); err != nil {
			return nil, err
		}
		p.Tickets = append(p.Tickets, t)
	}
	if err := ticketRows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByOwner returns all products published by a seller, ordered by id.
// Child collections are not loaded; listings only need the row itself.
func (r *ProductRepo) ListByOwner(ctx context.Context, memberID uint64) ([]*model.Product, error) {
	return r.list(ctx, "SELECT "+productColumns+" FROM products WHERE member_id = ? ORDER BY id", memberID)
}

// ListAll returns every product for public browsing, newest first.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*model.Product, error) {
	return r.list(ctx, "SELECT "+productColumns+" FROM products ORDER BY id DESC")
}

func (r *ProductRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Product, 0)
	for rows.Next() {
		p := new(model.Product)
		if err := rows.Scan(&p.ID, &p.MemberID, &p.Name, &p.Type, &p.Description, &p.ImageURL,
			&p.Address, &p.DetailAddress, &p.PhoneNumber, &p.Homepage, &p.CityCode,
			&p.Quantity, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustQuantityTx applies a capacity delta within a transaction. The
// update is floor-checked in SQL so concurrent reservations cannot drive
// quantity negative; zero affected rows on a decrement means the product
// lacked capacity (the caller verifies existence beforehand).
func (r *ProductRepo) AdjustQuantityTx(ctx context.Context, tx *sql.Tx, id uint64, delta int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity + ? >= 0`,
		delta, id, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientQuantity
	}
	return nil
}

// DeleteByIDAndOwner removes a product and its owned schedule and ticket
// rows, provided it belongs to the given seller and has no reservations.
// It returns ErrProductNotFound when the product does not exist,
// ErrForbidden when it is owned by someone else, and ErrConflict when
// reservations reference it.
func (r *ProductRepo) DeleteByIDAndOwner(ctx context.Context, id, memberID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var ownerID uint64
	if err := tx.QueryRowContext(ctx, "SELECT member_id FROM products WHERE id = ?", id).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return err
	}
	if ownerID != memberID {
		return ErrForbidden
	}
	var reservationCount int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE product_id = ?", id).Scan(&reservationCount); err != nil {
		return err
	}
	if reservationCount > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE oh FROM operation_hours oh
		 JOIN operation_days od ON od.id = oh.operation_day_id
		 WHERE od.product_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM operation_days WHERE product_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE product_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
