package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-quest/internal/repository"
	"github.com/iliyamo/habit-quest/internal/service"
)

// AchievementHandler serves the catalog merged with the caller's
// unlocks, and the share endpoint.
type AchievementHandler struct {
	Achievements *repository.AchievementRepo
	Progression  *service.ProgressionService
}

func NewAchievementHandler(a *repository.AchievementRepo, p *service.ProgressionService) *AchievementHandler {
	if a == nil || p == nil {
		panic("nil dependency passed to NewAchievementHandler")
	}
	return &AchievementHandler{Achievements: a, Progression: p}
}

type achievementView struct {
	ID               uint64     `json:"id"`
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Icon             string     `json:"icon"`
	Tier             string     `json:"tier"`
	Category         string     `json:"category"`
	RequirementValue uint64     `json:"requirement_value"`
	IsHidden         bool       `json:"is_hidden"`
	Unlocked         bool       `json:"unlocked"`
	UnlockedAt       *time.Time `json:"unlocked_at,omitempty"`
	SharedAt         *time.Time `json:"shared_at,omitempty"`
}

// hiddenMask replaces the display fields of hidden achievements the
// caller has not unlocked yet.
const hiddenMask = "???"

// List returns the full catalog with the caller's unlock state merged
// in. Hidden achievements that are still locked keep their name,
// description and icon masked so clients cannot spoil them.
func (h *AchievementHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	catalog, err := h.Progression.Catalog(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	unlocks, err := h.Achievements.ListUnlockedByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byID := make(map[uint64]int, len(unlocks))
	for i, u := range unlocks {
		byID[u.AchievementID] = i
	}

	views := make([]achievementView, 0, len(catalog))
	unlockedCount := 0
	for _, a := range catalog {
		v := achievementView{
			ID:               a.ID,
			Code:             a.Code,
			Name:             a.Name,
			Description:      a.Description,
			Icon:             a.Icon,
			Tier:             string(a.Tier),
			Category:         a.Category,
			RequirementValue: a.RequirementValue,
			IsHidden:         a.IsHidden,
		}
		if i, ok := byID[a.ID]; ok {
			v.Unlocked = true
			v.UnlockedAt = &unlocks[i].UnlockedAt
			v.SharedAt = unlocks[i].SharedAt
			unlockedCount++
		} else if a.IsHidden {
			v.Name = hiddenMask
			v.Description = hiddenMask
			v.Icon = hiddenMask
		}
		views = append(views, v)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"achievements": views,
		"total":        len(views),
		"unlocked":     unlockedCount,
	})
}

// Catalog is the public, unauthenticated view of the achievement
// catalog. Hidden entries are always masked here since there is no
// user context. The route sits behind the response cache.
func (h *AchievementHandler) Catalog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	catalog, err := h.Progression.Catalog(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]achievementView, 0, len(catalog))
	for _, a := range catalog {
		v := achievementView{
			ID:               a.ID,
			Code:             a.Code,
			Name:             a.Name,
			Description:      a.Description,
			Icon:             a.Icon,
			Tier:             string(a.Tier),
			Category:         a.Category,
			RequirementValue: a.RequirementValue,
			IsHidden:         a.IsHidden,
		}
		if a.IsHidden {
			v.Name = hiddenMask
			v.Description = hiddenMask
			v.Icon = hiddenMask
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"achievements": views, "total": len(views)})
}

// Share records one share of an unlocked achievement. The share
// counter always increments; shared_at is stamped only the first
// time. Sharing a locked achievement is a conflict.
func (h *AchievementHandler) Share(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid achievement id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	unlocked, err := h.Progression.RecordAchievementShare(ctx, uid, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotUnlocked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "achievement not unlocked"})
		case errors.Is(err, repository.ErrAchievementNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "achievement not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"shared":         true,
		"newly_unlocked": service.AchievementSummaries(unlocked),
	})
}
