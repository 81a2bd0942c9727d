package handlers

import (
	"net/http"

	"habitrpg/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	rewards *usecase.RewardUseCase
	avatars *usecase.AvatarUseCase
}

func NewCatalogHandler(rewards *usecase.RewardUseCase, avatars *usecase.AvatarUseCase) *CatalogHandler {
	return &CatalogHandler{rewards: rewards, avatars: avatars}
}

// GET /api/v1/rewards
func (h *CatalogHandler) ListRewards(c *gin.Context) {
	rewards, err := h.rewards.List(c)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]rewardResponse, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, rewardResponse{ID: r.ID, Name: r.Name, Cost: r.Cost})
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/v1/rewards/buy
func (h *CatalogHandler) BuyReward(c *gin.Context) {
	var req struct {
		RewardID uint `json:"reward_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	remaining, err := h.rewards.Buy(c, currentUser(c), req.RewardID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"xp": remaining})
}

// GET /api/v1/rewards/purchases
func (h *CatalogHandler) Purchases(c *gin.Context) {
	purchases, err := h.rewards.Purchases(c, currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]purchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, purchaseResponse{ID: p.ID, RewardID: p.RewardID, PurchasedAt: p.PurchasedAt})
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/v1/avatars
func (h *CatalogHandler) ListAvatars(c *gin.Context) {
	avatars, err := h.avatars.List(c)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]avatarResponse, 0, len(avatars))
	for _, a := range avatars {
		out = append(out, avatarResponse{ID: a.ID, URL: a.URL()})
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/v1/avatars/select
func (h *CatalogHandler) SelectAvatar(c *gin.Context) {
	var req struct {
		AvatarID int `json:"avatar_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.avatars.Select(c, currentUser(c), req.AvatarID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_id": req.AvatarID})
}
