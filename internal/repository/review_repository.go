package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/travellyhq/travelly-server/internal/model"
)

// ReviewRepo persists reviews, their image URLs and comments. Reviews
// hang off products and members but are independent of the reservation
// engine.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and its image URL rows in one transaction.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
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
	res, err := tx.ExecContext(ctx,
		"INSERT INTO reviews (member_id, product_id, content, rating) VALUES (?, ?, ?, ?)",
		rev.MemberID, rev.ProductID, rev.Content, rev.Rating)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	if err := insertImagesTx(ctx, tx, rev.ID, rev.ImageURLs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func insertImagesTx(ctx context.Context, tx *sql.Tx, reviewID uint64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	query := "INSERT INTO review_images (review_id, url) VALUES "
	args := make([]interface{}, 0, len(urls)*2)
	for i, u := range urls {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, reviewID, u)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID fetches a review with its image URLs.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	var rev model.Review
	err := r.db.QueryRowContext(ctx,
		`SELECT id, member_id, product_id, content, rating, created_at, updated_at
		 FROM reviews WHERE id = ?`, id).
		Scan(&rev.ID, &rev.MemberID, &rev.ProductID, &rev.Content, &rev.Rating,
			&rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT url FROM review_images WHERE review_id = ? ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		rev.ImageURLs = append(rev.ImageURLs, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rev, nil
}

// ListByProduct returns a page of a product's reviews, newest first,
// with image URLs loaded in one follow-up query.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID uint64, limit, offset int) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, product_id, content, rating, created_at, updated_at
		 FROM reviews WHERE product_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.MemberID, &rev.ProductID, &rev.Content,
			&rev.Rating, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		index[rev.ID] = len(out)
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	ids := make([]interface{}, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, rev := range out {
		ids = append(ids, rev.ID)
		placeholders = append(placeholders, "?")
	}
	irows, err := r.db.QueryContext(ctx,
		"SELECT review_id, url FROM review_images WHERE review_id IN ("+
			strings.Join(placeholders, ",")+") ORDER BY review_id, id", ids...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var rid uint64
		var u string
		if err := irows.Scan(&rid, &u); err != nil {
			return nil, err
		}
		if idx, ok := index[rid]; ok {
			out[idx].ImageURLs = append(out[idx].ImageURLs, u)
		}
	}
	if err := irows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces content, rating and image URLs of a review owned by
// the given member. ErrForbidden is returned when someone else owns it.
func (r *ReviewRepo) Update(ctx context.Context, id, memberID uint64, content string, rating int, imageURLs []string) error {
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
	if err := tx.QueryRowContext(ctx, "SELECT member_id FROM reviews WHERE id = ?", id).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return err
	}
	if ownerID != memberID {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE reviews SET content = ?, rating = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		content, rating, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM review_images WHERE review_id = ?", id); err != nil {
		return err
	}
	if err := insertImagesTx(ctx, tx, id, imageURLs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a review, its images and its comments, enforcing
// ownership.
func (r *ReviewRepo) Delete(ctx context.Context, id, memberID uint64) error {
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
	if err := tx.QueryRowContext(ctx, "SELECT member_id FROM reviews WHERE id = ?", id).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return err
	}
	if ownerID != memberID {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE review_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM review_images WHERE review_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CreateComment attaches a comment to a review.
func (r *ReviewRepo) CreateComment(ctx context.Context, c *model.Comment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (review_id, member_id, content) VALUES (?, ?, ?)",
		c.ReviewID, c.MemberID, c.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// ListComments returns a review's comments, oldest first.
func (r *ReviewRepo) ListComments(ctx context.Context, reviewID uint64) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, review_id, member_id, content, created_at FROM comments WHERE review_id = ? ORDER BY id",
		reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.MemberID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
