package model

import "time"

// Habit belongs to exactly one user. XPValue is the reward granted on
// each completion; deleting or archiving a habit never retroactively
// alters XP that was already granted through its logs.
//
// Fields:
//
//	ID          – primary key identifier.
//	UserID      – owner of the habit.
//	Name        – short habit name.
//	Description – optional longer description (nullable).
//	XPValue     – positive XP reward per completion.
//	IsArchived  – archived habits are hidden but keep their history.
//	CreatedAt   – timestamp of creation.
//	UpdatedAt   – timestamp of last update.
type Habit struct {
	ID          uint64    // habits.id
	UserID      uint64    // habits.user_id
	Name        string    // habits.name
	Description *string   // habits.description (nullable)
	XPValue     uint32    // habits.xp_value
	IsArchived  bool      // habits.is_archived
	CreatedAt   time.Time // habits.created_at
	UpdatedAt   time.Time // habits.updated_at
}

// HabitLog is an append-only completion record. Multiple completions
// of the same habit on the same day are allowed and each grants XP;
// only the calendar date of the log matters for streaks.
type HabitLog struct {
	ID          uint64    // habit_logs.id
	HabitID     uint64    // habit_logs.habit_id
	UserID      uint64    // habit_logs.user_id
	CompletedAt time.Time // habit_logs.completed_at
}
