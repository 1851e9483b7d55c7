package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-quest/internal/progression"
	"github.com/iliyamo/habit-quest/internal/repository"
	"github.com/iliyamo/habit-quest/internal/service"
)

// MissionHandler serves today's mission board.
type MissionHandler struct {
	Missions *repository.MissionRepo
	Clock    progression.Clock
}

func NewMissionHandler(m *repository.MissionRepo, clock progression.Clock) *MissionHandler {
	if m == nil {
		panic("nil repository passed to NewMissionHandler")
	}
	if clock == nil {
		clock = progression.SystemClock
	}
	return &MissionHandler{Missions: m, Clock: clock}
}

type missionTemplateView struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	Icon             string `json:"icon"`
	RequirementValue uint32 `json:"requirement_value"`
	XPReward         uint32 `json:"xp_reward"`
}

// Catalog is the public view of the mission template catalog. The
// route sits behind the response cache.
func (h *MissionHandler) Catalog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	templates, err := h.Missions.ListTemplates(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]missionTemplateView, 0, len(templates))
	for _, t := range templates {
		views = append(views, missionTemplateView{
			ID:               t.ID,
			Name:             t.Name,
			Icon:             t.Icon,
			RequirementValue: t.RequirementValue,
			XPReward:         t.XPReward,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"missions": views})
}

// Today materializes the caller's mission instances for the current
// UTC day (a no-op when they already exist) and returns them.
func (h *MissionHandler) Today(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	day := progression.DateOf(h.Clock.Now().UTC())

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Missions.EnsureDaily(ctx, uid, day); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	instances, err := h.Missions.ListForDay(ctx, uid, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"date":     day.String(),
		"missions": service.MissionSummaries(instances),
	})
}
