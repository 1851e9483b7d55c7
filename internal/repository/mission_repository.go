package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/habit-quest/internal/model"
	"github.com/iliyamo/habit-quest/internal/progression"
)

// MissionRepo covers the static `mission_templates` catalog and the
// per-user, per-day `user_missions` instances. Instantiation is
// idempotent through the UNIQUE (user_id, template_id, date_assigned)
// key, so ensuring a day's missions twice creates nothing new.
type MissionRepo struct{ db *sql.DB }

func NewMissionRepo(db *sql.DB) *MissionRepo { return &MissionRepo{db: db} }

// ListTemplates returns the mission template catalog.
func (r *MissionRepo) ListTemplates(ctx context.Context) ([]model.MissionTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, icon, requirement_type, requirement_value, xp_reward
		 FROM mission_templates ORDER BY xp_reward DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []model.MissionTemplate
	for rows.Next() {
		var t model.MissionTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Icon, &t.Requirement,
			&t.RequirementValue, &t.XPReward); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// EnsureDailyTx creates today's mission instances from the template
// catalog if they do not exist yet. INSERT IGNORE keeps this a no-op
// for a day that already has instances.
func (r *MissionRepo) EnsureDailyTx(ctx context.Context, tx *sql.Tx, userID uint64, day progression.Date) error {
	_, err := tx.ExecContext(ctx,
		`INSERT IGNORE INTO user_missions (user_id, template_id, date_assigned, current_progress, is_completed)
		 SELECT ?, id, ?, 0, 0 FROM mission_templates`,
		userID, day.String())
	return err
}

// EnsureDaily is the non-transactional variant used by the read path.
func (r *MissionRepo) EnsureDaily(ctx context.Context, userID uint64, day progression.Date) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO user_missions (user_id, template_id, date_assigned, current_progress, is_completed)
		 SELECT ?, id, ?, 0, 0 FROM mission_templates`,
		userID, day.String())
	return err
}

const missionInstanceSelect = `
 SELECT um.id, um.template_id, mt.name, mt.icon, mt.requirement_type,
        mt.requirement_value, mt.xp_reward, um.current_progress, um.is_completed
 FROM user_missions um
 JOIN mission_templates mt ON mt.id = um.template_id
 WHERE um.user_id=? AND um.date_assigned=?`

// ListForDayForUpdateTx loads today's instances joined with their
// templates and locks them for the rest of the progression
// transaction, so two concurrent completions cannot both claim the
// same completion transition.
func (r *MissionRepo) ListForDayForUpdateTx(ctx context.Context, tx *sql.Tx, userID uint64, day progression.Date) ([]progression.MissionInstance, error) {
	rows, err := tx.QueryContext(ctx,
		missionInstanceSelect+" ORDER BY mt.xp_reward DESC, um.id ASC FOR UPDATE",
		userID, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMissionInstances(rows)
}

// ListForDay is the read-only variant backing GET /v1/missions/today.
func (r *MissionRepo) ListForDay(ctx context.Context, userID uint64, day progression.Date) ([]progression.MissionInstance, error) {
	rows, err := r.db.QueryContext(ctx,
		missionInstanceSelect+" ORDER BY mt.xp_reward DESC, um.id ASC",
		userID, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMissionInstances(rows)
}

// UpdateProgressTx persists one advanced instance. completedAt is
// only written on the false→true completion transition.
func (r *MissionRepo) UpdateProgressTx(ctx context.Context, tx *sql.Tx, inst progression.MissionInstance, completedAt *time.Time) error {
	if completedAt != nil {
		_, err := tx.ExecContext(ctx,
			"UPDATE user_missions SET current_progress=?, is_completed=1, completed_at=? WHERE id=? AND is_completed=0",
			inst.CurrentProgress, completedAt.UTC(), inst.ID)
		return err
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE user_missions SET current_progress=? WHERE id=? AND is_completed=0",
		inst.CurrentProgress, inst.ID)
	return err
}

// DeleteByUserTx removes all mission instances during account deletion.
func (r *MissionRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM user_missions WHERE user_id=?", userID)
	return err
}

func scanMissionInstances(rows *sql.Rows) ([]progression.MissionInstance, error) {
	var out []progression.MissionInstance
	for rows.Next() {
		var (
			inst progression.MissionInstance
			req  string
		)
		if err := rows.Scan(&inst.ID, &inst.TemplateID, &inst.Name, &inst.Icon,
			&req, &inst.RequirementValue, &inst.XPReward,
			&inst.CurrentProgress, &inst.IsCompleted); err != nil {
			return nil, err
		}
		inst.Requirement = progression.Requirement(req)
		out = append(out, inst)
	}
	return out, rows.Err()
}
