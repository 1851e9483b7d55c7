package model

import "time"

// Profile holds the progression state of a single user as stored in
// the `profiles` table. XP only ever grows and the level is derived
// from it (level = xp/100 + 1); both fields are written together by
// the progression service so they never drift apart.
//
// Fields:
//
//	UserID    – primary key, references users.id.
//	Username  – display name chosen at registration.
//	XP        – accumulated experience points, never decreases.
//	Level     – tier derived from XP, starts at 1.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type Profile struct {
	UserID    uint64    // profiles.user_id
	Username  string    // profiles.username
	XP        uint64    // profiles.xp
	Level     uint32    // profiles.level
	CreatedAt time.Time // profiles.created_at
	UpdatedAt time.Time // profiles.updated_at
}

// UserStats mirrors the `user_stats` table. One row per user, created
// lazily the first time a stat is touched. LastActionDate records the
// most recent calendar day (UTC) on which the user completed a habit;
// it drives the streak logic and is null until the first completion.
//
// Fields:
//
//	UserID               – primary key, references users.id.
//	CurrentStreak        – consecutive days with at least one completion.
//	LongestStreak        – historical maximum of CurrentStreak.
//	TotalHabitsCompleted – lifetime completion counter.
//	TotalHabitsCreated   – lifetime habit creation counter.
//	TotalShares          – lifetime achievement share counter.
//	LastActionDate       – UTC date of the last completion (nullable).
//	UpdatedAt            – timestamp of last update.
type UserStats struct {
	UserID               uint64     // user_stats.user_id
	CurrentStreak        uint32     // user_stats.current_streak
	LongestStreak        uint32     // user_stats.longest_streak
	TotalHabitsCompleted uint64     // user_stats.total_habits_completed
	TotalHabitsCreated   uint64     // user_stats.total_habits_created
	TotalShares          uint64     // user_stats.total_shares
	LastActionDate       *time.Time // user_stats.last_action_date (DATE, nullable)
	UpdatedAt            time.Time  // user_stats.updated_at
}
