package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/habit-quest/internal/model"
)

// ErrHabitNotFound is returned when a habit does not exist or is not
// visible to the requesting user.
var ErrHabitNotFound = errors.New("habit not found")

// HabitRepo encapsulates database operations for the `habits` table.
// Ownership is enforced here: every lookup that backs a mutation
// takes the acting user's ID so a habit belonging to someone else
// behaves like a missing one (or ErrForbidden where the distinction
// matters).
type HabitRepo struct{ db *sql.DB }

func NewHabitRepo(db *sql.DB) *HabitRepo { return &HabitRepo{db: db} }

// Create inserts a habit and returns its generated ID.
func (r *HabitRepo) Create(ctx context.Context, userID uint64, name string, description *string, xpValue uint32) (uint64, error) {
	name = strings.TrimSpace(name)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO habits (user_id, name, description, xp_value) VALUES (?,?,?,?)",
		userID, name, description, xpValue)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns the user's habits, newest first. Archived habits
// are excluded unless includeArchived is set.
func (r *HabitRepo) ListByUser(ctx context.Context, userID uint64, includeArchived bool) ([]model.Habit, error) {
	q := habitSelect + " WHERE user_id=?"
	if !includeArchived {
		q += " AND is_archived=0"
	}
	q += " ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// GetByIDForUserTx fetches a habit inside a transaction and verifies
// ownership. A habit that exists but belongs to another user yields
// ErrForbidden; an absent one yields ErrHabitNotFound.
func (r *HabitRepo) GetByIDForUserTx(ctx context.Context, tx *sql.Tx, habitID, userID uint64) (model.Habit, error) {
	row := tx.QueryRowContext(ctx, habitSelect+" WHERE id=? LIMIT 1", habitID)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return h, ErrHabitNotFound
		}
		return h, err
	}
	if h.UserID != userID {
		return model.Habit{}, ErrForbidden
	}
	return h, nil
}

// Update changes name, description and xp_value of a habit owned by
// the user. Future completions grant the new xp_value; logged XP is
// never recalculated.
func (r *HabitRepo) Update(ctx context.Context, habitID, userID uint64, name string, description *string, xpValue uint32) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE habits SET name=?, description=?, xp_value=?, updated_at=NOW() WHERE id=? AND user_id=?",
		strings.TrimSpace(name), description, xpValue, habitID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrHabitNotFound)
}

// Archive hides a habit without touching its completion history.
func (r *HabitRepo) Archive(ctx context.Context, habitID, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE habits SET is_archived=1, updated_at=NOW() WHERE id=? AND user_id=?",
		habitID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrHabitNotFound)
}

// Delete removes a habit row. Completion logs keep their habit_id and
// the XP they granted; deletion is not retroactive.
func (r *HabitRepo) Delete(ctx context.Context, habitID, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM habits WHERE id=? AND user_id=?", habitID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrHabitNotFound)
}

// DeleteByUserTx removes all habits of a user during account deletion.
func (r *HabitRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM habits WHERE user_id=?", userID)
	return err
}

const habitSelect = `SELECT id, user_id, name, description, xp_value,
 is_archived, created_at, updated_at FROM habits`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (model.Habit, error) {
	var (
		h    model.Habit
		desc sql.NullString
	)
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &desc, &h.XPValue,
		&h.IsArchived, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return h, err
	}
	if desc.Valid {
		d := desc.String
		h.Description = &d
	}
	return h, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
