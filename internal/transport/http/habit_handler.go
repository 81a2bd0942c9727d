package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"habitrpg/internal/application/usecase"
	"habitrpg/internal/clock"
	"habitrpg/internal/domain"
	"habitrpg/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HabitHandler struct {
	uc    *usecase.HabitUseCase
	clock clock.Clock
}

func NewHabitHandler(uc *usecase.HabitUseCase, clk clock.Clock) *HabitHandler {
	return &HabitHandler{uc: uc, clock: clk}
}

type createHabitReq struct {
	Name        string `json:"name"`
	HabitType   string `json:"habit_type"`
	HabitNature string `json:"habit_nature"`
	XPValue     int    `json:"xp_value"`
	CoverPhoto  string `json:"cover_photo"`
}

// GET /api/v1/habits?include_done=true
func (h *HabitHandler) List(c *gin.Context) {
	includeDone := false
	if raw := c.Query("include_done"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, fmt.Errorf("include_done: %w", err))
			return
		}
		includeDone = v
	}

	habits, err := h.uc.ListHabits(c, currentUser(c), includeDone)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]habitResponse, 0, len(habits))
	for _, habit := range habits {
		out = append(out, toHabitResponse(habit))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/v1/habits
func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.uc.CreateHabit(c, currentUser(c), usecase.CreateHabitInput{
		Name:       req.Name,
		Type:       domain.HabitType(req.HabitType),
		Nature:     domain.HabitNature(req.HabitNature),
		XPValue:    req.XPValue,
		CoverPhoto: req.CoverPhoto,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// POST /api/v1/habits/:id/done
func (h *HabitHandler) Complete(c *gin.Context) {
	habitID, ok := habitParam(c)
	if !ok {
		return
	}

	res, err := h.uc.CompleteHabit(c, habitID, currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /api/v1/habits/:id
func (h *HabitHandler) Delete(c *gin.Context) {
	habitID, ok := habitParam(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteHabit(c, habitID, currentUser(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/progress/weekly?date=YYYY-MM-DD
func (h *HabitHandler) Weekly(c *gin.Context) {
	day := h.clock.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := clock.ParseDay(raw)
		if err != nil {
			badRequest(c, fmt.Errorf("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	p, err := h.uc.GetWeeklyProgress(c, currentUser(c), day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWeeklyResponse(p))
}

func habitParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid habit id"))
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.UserIDKey).(uuid.UUID)
}
