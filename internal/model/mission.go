package model

import "time"

// MissionTemplate is a row of the static `mission_templates` catalog.
// Templates describe the daily missions every user receives; the
// per-user, per-day instances live in `user_missions`.
//
// Fields:
//
//	ID               – primary key identifier.
//	Name             – display name of the mission.
//	Icon             – emoji or icon reference rendered by clients.
//	Requirement      – which action kind advances the mission.
//	RequirementValue – number of actions needed to complete it.
//	XPReward         – XP granted once when the mission completes.
type MissionTemplate struct {
	ID               uint64 // mission_templates.id
	Name             string // mission_templates.name
	Icon             string // mission_templates.icon
	Requirement      string // mission_templates.requirement_type
	RequirementValue uint32 // mission_templates.requirement_value
	XPReward         uint32 // mission_templates.xp_reward
}

// UserMission is one user's instance of a template for a single
// calendar day. Instances are created once per (user, template, day);
// IsCompleted flips false→true exactly once and the reward is issued
// in the same transaction as that flip.
//
// Fields:
//
//	ID              – primary key identifier.
//	UserID          – owner of the instance.
//	TemplateID      – references mission_templates.id.
//	DateAssigned    – UTC calendar day the instance belongs to.
//	CurrentProgress – progress counter, capped at the requirement value.
//	IsCompleted     – monotonic completion flag.
//	CompletedAt     – when the mission completed (nullable).
type UserMission struct {
	ID              uint64     // user_missions.id
	UserID          uint64     // user_missions.user_id
	TemplateID      uint64     // user_missions.template_id
	DateAssigned    time.Time  // user_missions.date_assigned (DATE)
	CurrentProgress uint32     // user_missions.current_progress
	IsCompleted     bool       // user_missions.is_completed
	CompletedAt     *time.Time // user_missions.completed_at (nullable)
}
