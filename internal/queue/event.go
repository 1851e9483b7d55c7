// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used by the progression publishers and the background consumer.
const (
	HabitCompletedQueue      = "habit.completed"
	AchievementUnlockedQueue = "achievement.unlocked"
)

// HabitCompletedEvent is published after a habit completion commits.
// It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type HabitCompletedEvent struct {
	UserID      uint64 `json:"user_id"`
	HabitID     uint64 `json:"habit_id"`
	HabitName   string `json:"habit_name"`
	XPGained    uint32 `json:"xp_gained"`
	NewXP       uint64 `json:"new_xp"`
	NewLevel    uint32 `json:"new_level"`
	LeveledUp   bool   `json:"leveled_up"`
	Streak      uint32 `json:"streak"`
	CompletedAt string `json:"completed_at"`
}

// AchievementUnlockedEvent is published once per newly unlocked
// achievement, after the unlocking transaction commits.
type AchievementUnlockedEvent struct {
	UserID          uint64 `json:"user_id"`
	AchievementID   uint64 `json:"achievement_id"`
	AchievementCode string `json:"achievement_code"`
	Name            string `json:"name"`
	Tier            string `json:"tier"`
	UnlockedAt      string `json:"unlocked_at"`
}
