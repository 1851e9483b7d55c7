package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-quest/internal/repository"
)

// ProfileHandler serves the progression profile and owns account
// deletion, which removes every row the user has across the schema.
type ProfileHandler struct {
	Profiles     *repository.ProfileRepo
	Stats        *repository.StatsRepo
	Habits       *repository.HabitRepo
	Logs         *repository.HabitLogRepo
	Achievements *repository.AchievementRepo
	Missions     *repository.MissionRepo
	Tokens       *repository.TokenRepo
	Users        *repository.UserRepo
}

func NewProfileHandler(
	p *repository.ProfileRepo,
	s *repository.StatsRepo,
	h *repository.HabitRepo,
	l *repository.HabitLogRepo,
	a *repository.AchievementRepo,
	m *repository.MissionRepo,
	t *repository.TokenRepo,
	u *repository.UserRepo,
) *ProfileHandler {
	if p == nil || s == nil || h == nil || l == nil || a == nil || m == nil || t == nil || u == nil {
		panic("nil repository passed to NewProfileHandler")
	}
	return &ProfileHandler{Profiles: p, Stats: s, Habits: h, Logs: l, Achievements: a, Missions: m, Tokens: t, Users: u}
}

type profileResp struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	XP       uint64 `json:"xp"`
	Level    uint32 `json:"level"`

	CurrentStreak        uint32  `json:"current_streak"`
	LongestStreak        uint32  `json:"longest_streak"`
	TotalHabitsCompleted uint64  `json:"total_habits_completed"`
	TotalHabitsCreated   uint64  `json:"total_habits_created"`
	TotalShares          uint64  `json:"total_shares"`
	LastActionDate       *string `json:"last_action_date"`
}

type usernameReq struct {
	Username string `json:"username"`
}

// Get returns the caller's profile joined with their stats. A user
// who has never completed anything gets zeroed stats, not a 404.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	profile, err := h.Profiles.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	resp := profileResp{
		UserID:   profile.UserID,
		Username: profile.Username,
		XP:       profile.XP,
		Level:    profile.Level,
	}
	stats, err := h.Stats.GetByUserID(ctx, uid)
	switch {
	case err == nil:
		resp.CurrentStreak = stats.CurrentStreak
		resp.LongestStreak = stats.LongestStreak
		resp.TotalHabitsCompleted = stats.TotalHabitsCompleted
		resp.TotalHabitsCreated = stats.TotalHabitsCreated
		resp.TotalShares = stats.TotalShares
		if stats.LastActionDate != nil {
			d := stats.LastActionDate.UTC().Format(time.DateOnly)
			resp.LastActionDate = &d
		}
	case err == sql.ErrNoRows:
		// stats row appears lazily on the first completion
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, resp)
}

// UpdateUsername changes the display name.
func (h *ProfileHandler) UpdateUsername(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req usernameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}
	if len(req.Username) > 50 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username too long"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Profiles.UpdateUsername(ctx, uid, req.Username); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"username": req.Username})
}

// DeleteAccount removes every row belonging to the caller in one
// transaction: logs, missions, unlocks, habits, stats, profile,
// refresh tokens and finally the user itself. There is no soft
// delete and no recovery.
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Profiles.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Children before parents to respect foreign keys.
	steps := []func() error{
		func() error { return h.Logs.DeleteByUserTx(ctx, tx, uid) },
		func() error { return h.Missions.DeleteByUserTx(ctx, tx, uid) },
		func() error { return h.Achievements.DeleteByUserTx(ctx, tx, uid) },
		func() error { return h.Habits.DeleteByUserTx(ctx, tx, uid) },
		func() error { return h.Stats.DeleteTx(ctx, tx, uid) },
		func() error { return h.Profiles.DeleteTx(ctx, tx, uid) },
		func() error { return h.Tokens.DeleteByUserTx(ctx, tx, uid) },
		func() error { return h.Users.DeleteTx(ctx, tx, uid) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
