package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/middlewares"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Login -> return access token (+ refresh token bila remember_me)
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username   string `json:"username" binding:"required"`
		Password   string `json:"password" binding:"required"`
		RememberMe *bool  `json:"remember_me"`
	}
	if err := bindJSON(c, &input); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	rememberMe := true
	if input.RememberMe != nil {
		rememberMe = *input.RememberMe
	}

	pair, user, err := ac.Auth.Login(c.Request.Context(), input.Username, input.Password, rememberMe)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"tokens": pair,
		"user":   user,
	})
}

// Refresh -> tukar refresh token dengan access token baru
func (ac *AuthController) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	pair, err := ac.Auth.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Token refreshed", pair)
}

// Logout -> cabut access token yang dipakai, dan refresh token milik pemanggil bila dikirim
func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := bindOptional(c, &input); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := c.GetUint(middlewares.CtxUserID)
	if input.RefreshToken != "" {
		if err := ac.Auth.RevokeRefresh(ctx, input.RefreshToken, userID); err != nil {
			utils.RespondAppError(c, err)
			return
		}
	}
	if err := ac.Auth.Revoke(ctx, c.GetString(middlewares.CtxToken)); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.WithField("user_id", userID).Info("logout")
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}
