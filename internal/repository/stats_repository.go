package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/habit-quest/internal/model"
)

// StatsRepo provides access to the `user_stats` table. Rows are
// created lazily: the first progression event for a user inserts a
// zeroed row before updating it.
type StatsRepo struct{ db *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// GetByUserID fetches stats for display. Returns sql.ErrNoRows for
// users that have never performed a progression action; handlers
// render zeroes in that case instead of fabricating a row.
func (r *StatsRepo) GetByUserID(ctx context.Context, userID uint64) (model.UserStats, error) {
	return scanStats(r.db.QueryRowContext(ctx, statsSelect+" WHERE user_id=? LIMIT 1", userID))
}

// GetOrCreateForUpdateTx locks the user's stats row for the rest of
// the transaction, inserting a zeroed row first if none exists. The
// INSERT IGNORE keeps creation idempotent under concurrent first
// events for the same user.
func (r *StatsRepo) GetOrCreateForUpdateTx(ctx context.Context, tx *sql.Tx, userID uint64) (model.UserStats, error) {
	if _, err := tx.ExecContext(ctx,
		"INSERT IGNORE INTO user_stats (user_id) VALUES (?)", userID); err != nil {
		return model.UserStats{}, err
	}
	return scanStats(tx.QueryRowContext(ctx, statsSelect+" WHERE user_id=? FOR UPDATE", userID))
}

// UpdateTx persists the full stats row within a transaction.
func (r *StatsRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s model.UserStats) error {
	var last interface{}
	if s.LastActionDate != nil {
		last = s.LastActionDate.Format("2006-01-02")
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE user_stats
		 SET current_streak=?, longest_streak=?, total_habits_completed=?,
		     total_habits_created=?, total_shares=?, last_action_date=?, updated_at=NOW()
		 WHERE user_id=?`,
		s.CurrentStreak, s.LongestStreak, s.TotalHabitsCompleted,
		s.TotalHabitsCreated, s.TotalShares, last, s.UserID)
	return err
}

// DeleteTx removes the stats row as part of account deletion.
func (r *StatsRepo) DeleteTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM user_stats WHERE user_id=?", userID)
	return err
}

const statsSelect = `SELECT user_id, current_streak, longest_streak,
 total_habits_completed, total_habits_created, total_shares,
 last_action_date, updated_at FROM user_stats`

func scanStats(row *sql.Row) (model.UserStats, error) {
	var (
		s    model.UserStats
		last sql.NullTime
	)
	err := row.Scan(&s.UserID, &s.CurrentStreak, &s.LongestStreak,
		&s.TotalHabitsCompleted, &s.TotalHabitsCreated, &s.TotalShares,
		&last, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if last.Valid {
		t := last.Time.UTC()
		s.LastActionDate = &t
	}
	return s, nil
}
