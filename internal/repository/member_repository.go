package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/utils"
)

// MemberRepo provides persistence for member accounts. Point balances
// are only ever touched through the floor-checked Tx methods below so
// the reservation engine can rely on the database to reject overdrafts.
type MemberRepo struct{ DB *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{DB: db} }

const memberColumns = "id, email, password_hash, nickname, point, image_url, role, created_at, updated_at"

// Create inserts a member and returns its ID. Emails are normalized to
// lower case; duplicates surface as ErrEmailExists.
func (r *MemberRepo) Create(ctx context.Context, email, password, nickname, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO members (email, password_hash, nickname, image_url, role) VALUES (?,?,?,?,?)",
		email, hash, nickname, model.DefaultProfileImageURL, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a member by normalized email.
func (r *MemberRepo) GetByEmail(ctx context.Context, email string) (model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE email=? LIMIT 1", email))
}

// GetByID fetches a member by id.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id=? LIMIT 1", id))
}

// GetByIDTx fetches a member inside an open transaction.
func (r *MemberRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Member, error) {
	return r.scanOne(tx.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id=? LIMIT 1", id))
}

func (r *MemberRepo) scanOne(row *sql.Row) (model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Nickname, &m.Point,
		&m.ImageURL, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrMemberNotFound
	}
	return m, err
}

// AddPointsTx adjusts a member's point balance within a transaction.
// Debits are floor-checked in SQL: the row is only updated when the
// resulting balance stays non-negative, so a concurrent debit cannot
// overdraw the account. Zero affected rows on a debit means the member
// lacked funds (existence must be checked by the caller beforehand).
func (r *MemberRepo) AddPointsTx(ctx context.Context, tx *sql.Tx, id uint64, delta int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE members SET point = point + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND point + ? >= 0`,
		delta, id, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientPoints
	}
	return nil
}

// UpdateNickname changes the display name of a member.
func (r *MemberRepo) UpdateNickname(ctx context.Context, id uint64, nickname string) error {
	return r.updateOne(ctx, "UPDATE members SET nickname=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", nickname, id)
}

// UpdatePassword stores a new bcrypt hash for the member.
func (r *MemberRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	return r.updateOne(ctx, "UPDATE members SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", passwordHash, id)
}

// UpdateImageURL replaces the profile image location.
func (r *MemberRepo) UpdateImageURL(ctx context.Context, id uint64, imageURL string) error {
	return r.updateOne(ctx, "UPDATE members SET image_url=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", imageURL, id)
}

func (r *MemberRepo) updateOne(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMemberNotFound
	}
	return nil
}
