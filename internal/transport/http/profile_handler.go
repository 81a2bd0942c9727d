package handlers

import (
	"net/http"
	"strconv"

	"habitrpg/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	uc *usecase.ProfileUseCase
}

func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.uc.GetProfile(c, currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(*p))
}

// GET /api/v1/leaderboard?limit=10
func (h *ProfileHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, err := h.uc.Leaderboard(c, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]leaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, leaderboardEntry{
			Position: i + 1,
			Username: u.Username,
			AvatarID: u.AvatarID,
			XP:       u.XP,
			Level:    u.Level,
			Rank:     u.LevelName,
		})
	}
	c.JSON(http.StatusOK, out)
}
