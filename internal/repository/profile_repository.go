package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/habit-quest/internal/model"
)

// ProfileRepo provides access to the `profiles` table. A profile is
// created together with the user at registration and afterwards only
// the progression service mutates xp/level, always inside a
// transaction that locked the row first.
type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// that span several repositories.
func (r *ProfileRepo) DB() *sql.DB { return r.db }

// Create inserts a fresh profile with xp=0 and level=1.
func (r *ProfileRepo) Create(ctx context.Context, userID uint64, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		username = "Herói"
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO profiles (user_id, username, xp, level) VALUES (?,?,0,1)",
		userID, username)
	return err
}

// GetByUserID fetches a profile outside of any transaction.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT user_id, username, xp, level, created_at, updated_at FROM profiles WHERE user_id=? LIMIT 1",
		userID))
}

// GetForUpdateTx locks the profile row for the remainder of the
// transaction. All mutating progression operations for a user funnel
// through this lock, which serializes concurrent completions for the
// same user while leaving other users untouched.
func (r *ProfileRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, userID uint64) (model.Profile, error) {
	return r.scanOne(tx.QueryRowContext(ctx,
		"SELECT user_id, username, xp, level, created_at, updated_at FROM profiles WHERE user_id=? FOR UPDATE",
		userID))
}

// UpdateProgressTx writes xp and level together within a transaction.
func (r *ProfileRepo) UpdateProgressTx(ctx context.Context, tx *sql.Tx, userID, xp uint64, level uint32) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE profiles SET xp=?, level=?, updated_at=NOW() WHERE user_id=?",
		xp, level, userID)
	return err
}

// UpdateUsername changes the display name.
func (r *ProfileRepo) UpdateUsername(ctx context.Context, userID uint64, username string) error {
	username = strings.TrimSpace(username)
	res, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET username=?, updated_at=NOW() WHERE user_id=?",
		username, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTx removes the profile row as part of account deletion.
func (r *ProfileRepo) DeleteTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE user_id=?", userID)
	return err
}

func (r *ProfileRepo) scanOne(row *sql.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.UserID, &p.Username, &p.XP, &p.Level, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
