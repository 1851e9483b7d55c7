package repository

import (
	"context"
	"database/sql"
	"time"
)

// HabitLogRepo appends to the `habit_logs` table. Logs are
// append-only: nothing updates them, and they survive habit deletion
// so past XP stays accounted for.
type HabitLogRepo struct{ db *sql.DB }

func NewHabitLogRepo(db *sql.DB) *HabitLogRepo { return &HabitLogRepo{db: db} }

// InsertTx appends a completion record within the same transaction as
// the rest of the progression write, so a failed completion leaves no
// stray log behind.
func (r *HabitLogRepo) InsertTx(ctx context.Context, tx *sql.Tx, habitID, userID uint64, completedAt time.Time) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO habit_logs (habit_id, user_id, completed_at) VALUES (?,?,?)",
		habitID, userID, completedAt.UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CountByUser returns the total number of logged completions,
// independent of the user_stats counter.
func (r *HabitLogRepo) CountByUser(ctx context.Context, userID uint64) (uint64, error) {
	var n uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM habit_logs WHERE user_id=?", userID).Scan(&n)
	return n, err
}

// DeleteByUserTx removes all logs of a user during account deletion.
func (r *HabitLogRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM habit_logs WHERE user_id=?", userID)
	return err
}
