// Package service hosts the progression orchestrator, the only
// component with side effects in the rules engine. Handlers stay
// thin: they parse requests, call in here and translate errors.
package service

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/habit-quest/internal/model"
	"github.com/iliyamo/habit-quest/internal/progression"
	"github.com/iliyamo/habit-quest/internal/queue"
	"github.com/iliyamo/habit-quest/internal/repository"
)

// CompletionResult describes everything that changed as a consequence
// of one habit completion. Handlers serialize it straight to the
// client; the presentation layer only reads these values.
type CompletionResult struct {
	HabitID                uint64               `json:"habit_id"`
	XPGained               uint32               `json:"xp_gained"`
	NewXP                  uint64               `json:"new_xp"`
	NewLevel               uint32               `json:"new_level"`
	LeveledUp              bool                 `json:"leveled_up"`
	CurrentStreak          uint32               `json:"current_streak"`
	LongestStreak          uint32               `json:"longest_streak"`
	NewlyUnlocked          []AchievementSummary `json:"newly_unlocked"`
	NewlyCompletedMissions []MissionSummary     `json:"newly_completed_missions"`
}

// AchievementSummary is the wire form of a catalog entry inside
// progression responses. The model structs carry no json tags.
type AchievementSummary struct {
	ID          uint64 `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Tier        string `json:"tier"`
	Category    string `json:"category"`
}

// MissionSummary is the wire form of a mission instance.
type MissionSummary struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	Icon             string `json:"icon"`
	RequirementValue uint32 `json:"requirement_value"`
	CurrentProgress  uint32 `json:"current_progress"`
	XPReward         uint32 `json:"xp_reward"`
	IsCompleted      bool   `json:"is_completed"`
}

// AchievementSummaries converts catalog rows to their wire form.
func AchievementSummaries(list []model.Achievement) []AchievementSummary {
	out := make([]AchievementSummary, 0, len(list))
	for _, a := range list {
		out = append(out, AchievementSummary{
			ID:          a.ID,
			Code:        a.Code,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Tier:        string(a.Tier),
			Category:    a.Category,
		})
	}
	return out
}

// MissionSummaries converts mission instances to their wire form.
func MissionSummaries(list []progression.MissionInstance) []MissionSummary {
	out := make([]MissionSummary, 0, len(list))
	for _, m := range list {
		out = append(out, MissionSummary{
			ID:               m.ID,
			Name:             m.Name,
			Icon:             m.Icon,
			RequirementValue: m.RequirementValue,
			CurrentProgress:  m.CurrentProgress,
			XPReward:         m.XPReward,
			IsCompleted:      m.IsCompleted,
		})
	}
	return out
}

// ProgressionService sequences the pure calculators against durable
// state. Every mutating operation runs in a single transaction that
// locks the acting user's profile and stats rows first, so two
// concurrent completions for the same user serialize at the database
// while different users proceed in parallel.
type ProgressionService struct {
	db           *sql.DB
	profiles     *repository.ProfileRepo
	stats        *repository.StatsRepo
	habits       *repository.HabitRepo
	logs         *repository.HabitLogRepo
	achievements *repository.AchievementRepo
	missions     *repository.MissionRepo
	clock        progression.Clock
	specials     map[string]progression.SpecialPredicate

	// The achievement catalog is static for the lifetime of the
	// process; the first successful load is reused on every
	// evaluation.
	catalog catalogCache
}

// NewProgressionService wires the orchestrator. clock may be nil, in
// which case the UTC system clock is used. specials maps achievement
// codes to their predicates; codes without one never unlock.
func NewProgressionService(
	db *sql.DB,
	profiles *repository.ProfileRepo,
	stats *repository.StatsRepo,
	habits *repository.HabitRepo,
	logs *repository.HabitLogRepo,
	achievements *repository.AchievementRepo,
	missions *repository.MissionRepo,
	clock progression.Clock,
	specials map[string]progression.SpecialPredicate,
) *ProgressionService {
	if db == nil || profiles == nil || stats == nil || habits == nil ||
		logs == nil || achievements == nil || missions == nil {
		panic("nil dependency passed to NewProgressionService")
	}
	if clock == nil {
		clock = progression.SystemClock
	}
	return &ProgressionService{
		db:           db,
		profiles:     profiles,
		stats:        stats,
		habits:       habits,
		logs:         logs,
		achievements: achievements,
		missions:     missions,
		clock:        clock,
		specials:     specials,
	}
}

// RecordHabitCompletion is the single entry point for the qualifying
// action of the game. It appends the completion log, applies XP and
// streak updates, advances today's missions, evaluates achievements
// against the updated snapshot and commits everything atomically.
// Any failure rolls the whole unit back; no partial state survives.
func (s *ProgressionService) RecordHabitCompletion(ctx context.Context, userID, habitID uint64) (*CompletionResult, error) {
	now := s.clock.Now().UTC()
	today := progression.DateOf(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	habit, err := s.habits.GetByIDForUserTx(ctx, tx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.logs.InsertTx(ctx, tx, habitID, userID, now); err != nil {
		return nil, err
	}

	// Locking the profile row serializes all further steps per user.
	profile, err := s.profiles.GetForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.GetOrCreateForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	// Missions for today must exist before they can advance.
	if err := s.missions.EnsureDailyTx(ctx, tx, userID, today); err != nil {
		return nil, err
	}
	instances, err := s.missions.ListForDayForUpdateTx(ctx, tx, userID, today)
	if err != nil {
		return nil, err
	}

	// One completion feeds two mission kinds: counting missions get a
	// single tick, XP missions accumulate the habit's reward. Mission
	// reward XP itself does not feed back into mission progress.
	ms := newMissionState(instances)
	ms.apply(progression.Action{Kind: progression.RequirementHabitsCompleted, Magnitude: 1})
	ms.apply(progression.Action{Kind: progression.RequirementTotalXP, Magnitude: habit.XPValue})
	newlyCompleted := ms.completed

	xpGained := habit.XPValue
	for _, m := range newlyCompleted {
		xpGained += m.XPReward
	}

	newXP, newLevel := progression.ApplyXP(profile.XP, xpGained)
	leveledUp := newLevel > profile.Level

	var last *progression.Date
	if stats.LastActionDate != nil {
		d := progression.DateOf(*stats.LastActionDate)
		last = &d
	}
	streak := progression.AdvanceStreak(stats.CurrentStreak, stats.LongestStreak, last, today)

	stats.CurrentStreak = streak.Current
	stats.LongestStreak = streak.Longest
	lastAction := streak.LastActionDate.Time()
	stats.LastActionDate = &lastAction
	stats.TotalHabitsCompleted++

	if err := s.profiles.UpdateProgressTx(ctx, tx, userID, newXP, newLevel); err != nil {
		return nil, err
	}
	if err := s.stats.UpdateTx(ctx, tx, stats); err != nil {
		return nil, err
	}
	if err := s.persistMissions(ctx, tx, ms, now); err != nil {
		return nil, err
	}

	snap := progression.Snapshot{
		XP:                   newXP,
		Level:                newLevel,
		CurrentStreak:        stats.CurrentStreak,
		LongestStreak:        stats.LongestStreak,
		TotalHabitsCompleted: stats.TotalHabitsCompleted,
		TotalHabitsCreated:   stats.TotalHabitsCreated,
		TotalShares:          stats.TotalShares,
	}
	unlocked, err := s.evaluateAndUnlockTx(ctx, tx, userID, snap, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	res := &CompletionResult{
		HabitID:                habitID,
		XPGained:               xpGained,
		NewXP:                  newXP,
		NewLevel:               newLevel,
		LeveledUp:              leveledUp,
		CurrentStreak:          stats.CurrentStreak,
		LongestStreak:          stats.LongestStreak,
		NewlyUnlocked:          AchievementSummaries(unlocked),
		NewlyCompletedMissions: MissionSummaries(newlyCompleted),
	}
	s.publishCompletion(ctx, userID, habit, res, now)
	return res, nil
}

// RecordHabitCreation bumps the creation counter and re-evaluates
// achievements. No XP, streak or mission effects.
func (s *ProgressionService) RecordHabitCreation(ctx context.Context, userID uint64) ([]model.Achievement, error) {
	now := s.clock.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	profile, err := s.profiles.GetForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.GetOrCreateForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalHabitsCreated++
	if err := s.stats.UpdateTx(ctx, tx, stats); err != nil {
		return nil, err
	}

	unlocked, err := s.evaluateAndUnlockTx(ctx, tx, userID, snapshotOf(profile, stats), now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return unlocked, nil
}

// RecordAchievementShare stamps shared_at on an unlocked achievement
// (first share wins) and increments total_shares on every share.
// Shares are deliberately not deduplicated, unlike unlocks. A share
// against a locked achievement fails with repository.ErrNotUnlocked.
func (s *ProgressionService) RecordAchievementShare(ctx context.Context, userID, achievementID uint64) ([]model.Achievement, error) {
	now := s.clock.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.achievements.StampSharedTx(ctx, tx, userID, achievementID, now); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.GetOrCreateForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalShares++
	if err := s.stats.UpdateTx(ctx, tx, stats); err != nil {
		return nil, err
	}

	unlocked, err := s.evaluateAndUnlockTx(ctx, tx, userID, snapshotOf(profile, stats), now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return unlocked, nil
}

// Catalog returns the process-wide cached achievement catalog. The
// catalog is treated as immutable for the lifetime of the process.
// Load failures are not cached: a transient database error surfaces
// to the caller and the next call tries again.
func (s *ProgressionService) Catalog(ctx context.Context) ([]model.Achievement, error) {
	return s.catalog.get(ctx, s.achievements.ListCatalog)
}

// catalogCache memoizes the first successful catalog load. Unlike
// sync.Once it retries after a failed load, so a database outage at
// first use stays a retryable condition instead of poisoning the
// process until restart.
type catalogCache struct {
	mu      sync.Mutex
	entries []model.Achievement
	loaded  bool
}

func (c *catalogCache) get(ctx context.Context, load func(context.Context) ([]model.Achievement, error)) ([]model.Achievement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.entries, nil
	}
	entries, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	c.loaded = true
	return c.entries, nil
}

// evaluateAndUnlockTx runs the evaluator against the snapshot and
// persists any new unlocks inside the transaction. The INSERT IGNORE
// in UnlockTx keeps unlocking idempotent even if two transactions
// race on the same threshold.
func (s *ProgressionService) evaluateAndUnlockTx(ctx context.Context, tx *sql.Tx, userID uint64, snap progression.Snapshot, now time.Time) ([]model.Achievement, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	unlockedSet, err := s.achievements.UnlockedIDSetTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	newIDs := progression.EvaluateAchievements(catalog, unlockedSet, snap, s.specials)
	if len(newIDs) == 0 {
		return nil, nil
	}

	byID := make(map[uint64]model.Achievement, len(catalog))
	for _, a := range catalog {
		byID[a.ID] = a
	}
	var unlocked []model.Achievement
	for _, id := range newIDs {
		if err := s.achievements.UnlockTx(ctx, tx, userID, id, now); err != nil {
			return nil, err
		}
		unlocked = append(unlocked, byID[id])
	}
	return unlocked, nil
}

// missionState accumulates mission advancement across the several
// actions a single completion produces, so the second action sees the
// progress the first one made and only touched rows get persisted.
type missionState struct {
	instances    []progression.MissionInstance
	updatedIDs   map[uint64]bool
	completedIDs map[uint64]bool
	completed    []progression.MissionInstance
}

func newMissionState(instances []progression.MissionInstance) *missionState {
	return &missionState{
		instances:    instances,
		updatedIDs:   make(map[uint64]bool),
		completedIDs: make(map[uint64]bool),
	}
}

func (ms *missionState) apply(action progression.Action) {
	res := progression.AdvanceMissions(ms.instances, action)
	updatedByID := make(map[uint64]progression.MissionInstance, len(res.Updated))
	for _, u := range res.Updated {
		updatedByID[u.ID] = u
		ms.updatedIDs[u.ID] = true
	}
	for i, inst := range ms.instances {
		if u, ok := updatedByID[inst.ID]; ok {
			ms.instances[i] = u
		}
	}
	for _, done := range res.NewlyCompleted {
		ms.completedIDs[done.ID] = true
		ms.completed = append(ms.completed, done)
	}
}

// persistMissions writes every advanced instance, stamping
// completed_at only on the ones that completed in this transaction.
func (s *ProgressionService) persistMissions(ctx context.Context, tx *sql.Tx, ms *missionState, now time.Time) error {
	for _, inst := range ms.instances {
		if !ms.updatedIDs[inst.ID] {
			continue
		}
		var at *time.Time
		if ms.completedIDs[inst.ID] {
			at = &now
		}
		if err := s.missions.UpdateProgressTx(ctx, tx, inst, at); err != nil {
			return err
		}
	}
	return nil
}

func snapshotOf(p model.Profile, s model.UserStats) progression.Snapshot {
	return progression.Snapshot{
		XP:                   p.XP,
		Level:                p.Level,
		CurrentStreak:        s.CurrentStreak,
		LongestStreak:        s.LongestStreak,
		TotalHabitsCompleted: s.TotalHabitsCompleted,
		TotalHabitsCreated:   s.TotalHabitsCreated,
		TotalShares:          s.TotalShares,
	}
}

// publishCompletion emits the post-commit events. Broker failures are
// logged and ignored; the completion itself already committed.
func (s *ProgressionService) publishCompletion(ctx context.Context, userID uint64, habit model.Habit, res *CompletionResult, now time.Time) {
	ev := queue.HabitCompletedEvent{
		UserID:      userID,
		HabitID:     habit.ID,
		HabitName:   habit.Name,
		XPGained:    res.XPGained,
		NewXP:       res.NewXP,
		NewLevel:    res.NewLevel,
		LeveledUp:   res.LeveledUp,
		Streak:      res.CurrentStreak,
		CompletedAt: now.Format(time.RFC3339),
	}
	if err := PublishHabitCompleted(ctx, ev); err != nil {
		log.Printf("progression: publish habit.completed failed: %v", err)
	}
	for _, a := range res.NewlyUnlocked {
		ue := queue.AchievementUnlockedEvent{
			UserID:          userID,
			AchievementID:   a.ID,
			AchievementCode: a.Code,
			Name:            a.Name,
			Tier:            a.Tier,
			UnlockedAt:      now.Format(time.RFC3339),
		}
		if err := PublishAchievementUnlocked(ctx, ue); err != nil {
			log.Printf("progression: publish achievement.unlocked failed: %v", err)
		}
	}
}
