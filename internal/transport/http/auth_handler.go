package handlers

import (
	"net/http"

	"habitrpg/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

const (
	refreshCookie    = "refresh_token"
	refreshCookieAge = 7 * 24 * 3600
)

type AuthHandler struct {
	uc *usecase.AuthUseCase
}

func NewAuthHandler(uc *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type registerReq struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, err := h.uc.Register(c, req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": userID.String()})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	access, refresh, err := h.uc.Login(c, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetCookie(refreshCookie, refresh, refreshCookieAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not found"})
		return
	}

	access, refresh, err := h.uc.Refresh(c, refreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetCookie(refreshCookie, refresh, refreshCookieAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		c.Status(http.StatusOK)
		return
	}

	_ = h.uc.Logout(c, refreshToken)

	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
