package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/habit-quest/internal/model"
)

// ErrAchievementNotFound is returned when a referenced achievement is
// absent from the catalog.
var ErrAchievementNotFound = errors.New("achievement not found")

// AchievementRepo covers the static `achievements` catalog and the
// per-user `user_achievements` join table. The catalog is effectively
// immutable at runtime; the service layer caches it process-wide.
type AchievementRepo struct{ db *sql.DB }

func NewAchievementRepo(db *sql.DB) *AchievementRepo { return &AchievementRepo{db: db} }

// ListCatalog returns the whole achievement catalog ordered by
// requirement value, matching the display order of the original app.
func (r *AchievementRepo) ListCatalog(ctx context.Context) ([]model.Achievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, description, icon, tier, category,
		        requirement_type, requirement_value, is_hidden
		 FROM achievements ORDER BY requirement_value ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var catalog []model.Achievement
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.Icon,
			&a.Tier, &a.Category, &a.Requirement, &a.RequirementValue, &a.IsHidden); err != nil {
			return nil, err
		}
		catalog = append(catalog, a)
	}
	return catalog, rows.Err()
}

// GetByID fetches one catalog entry.
func (r *AchievementRepo) GetByID(ctx context.Context, id uint64) (model.Achievement, error) {
	var a model.Achievement
	err := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, description, icon, tier, category,
		        requirement_type, requirement_value, is_hidden
		 FROM achievements WHERE id=? LIMIT 1`, id).
		Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.Icon,
			&a.Tier, &a.Category, &a.Requirement, &a.RequirementValue, &a.IsHidden)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrAchievementNotFound
	}
	return a, err
}

// UnlockedIDSetTx returns the set of achievement IDs the user has
// unlocked, read inside the progression transaction.
func (r *AchievementRepo) UnlockedIDSetTx(ctx context.Context, tx *sql.Tx, userID uint64) (map[uint64]bool, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT achievement_id FROM user_achievements WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, rows.Err()
}

// ListUnlockedByUser returns the user's unlock rows for display.
func (r *AchievementRepo) ListUnlockedByUser(ctx context.Context, userID uint64) ([]model.UserAchievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, achievement_id, unlocked_at, shared_at
		 FROM user_achievements WHERE user_id=? ORDER BY unlocked_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserAchievement
	for rows.Next() {
		var (
			ua     model.UserAchievement
			shared sql.NullTime
		)
		if err := rows.Scan(&ua.UserID, &ua.AchievementID, &ua.UnlockedAt, &shared); err != nil {
			return nil, err
		}
		if shared.Valid {
			t := shared.Time
			ua.SharedAt = &t
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

// UnlockTx records an unlock. INSERT IGNORE against the composite
// primary key makes the operation idempotent: re-unlocking is a no-op
// and unlocked_at is never overwritten.
func (r *AchievementRepo) UnlockTx(ctx context.Context, tx *sql.Tx, userID, achievementID uint64, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		"INSERT IGNORE INTO user_achievements (user_id, achievement_id, unlocked_at) VALUES (?,?,?)",
		userID, achievementID, at.UTC())
	return err
}

// StampSharedTx sets shared_at on the unlock row if the achievement
// is unlocked, leaving an existing stamp untouched (first share
// wins). ErrNotUnlocked signals that no unlock row exists.
func (r *AchievementRepo) StampSharedTx(ctx context.Context, tx *sql.Tx, userID, achievementID uint64, at time.Time) error {
	var exists int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM user_achievements WHERE user_id=? AND achievement_id=? FOR UPDATE",
		userID, achievementID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotUnlocked
	}
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE user_achievements SET shared_at=? WHERE user_id=? AND achievement_id=? AND shared_at IS NULL",
		at.UTC(), userID, achievementID)
	return err
}

// DeleteByUserTx removes all unlock rows during account deletion.
func (r *AchievementRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM user_achievements WHERE user_id=?", userID)
	return err
}
