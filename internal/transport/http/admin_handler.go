package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"habitrpg/internal/application/usecase"
	"habitrpg/internal/clock"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	habits *usecase.HabitUseCase
	clock  clock.Clock
}

func NewAdminHandler(habits *usecase.HabitUseCase, clk clock.Clock) *AdminHandler {
	return &AdminHandler{habits: habits, clock: clk}
}

// POST /api/v1/admin/daily-reset
// The body is optional; {"date": "YYYY-MM-DD"} overrides today.
func (h *AdminHandler) DailyReset(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	day := h.clock.Today()
	if req.Date != "" {
		parsed, err := clock.ParseDay(req.Date)
		if err != nil {
			badRequest(c, fmt.Errorf("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	report, err := h.habits.RunDailyReset(c, day)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":            report.Day.Format(time.DateOnly),
		"users_refilled": report.UsersRefilled,
		"habits_rearmed": report.HabitsRearmed,
	})
}
