package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/middlewares"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// CreateUser -> registrasi staff baru, hanya lewat admin
func (uc *UserController) CreateUser(c *gin.Context) {
	var req services.UserCreate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	user, err := uc.Users.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.InfoLogger.WithField("username", user.Username).Infof("new user registered (role=%s)", user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", user)
}

// GetAllUsers -> ?include_deleted=true untuk ikut menampilkan akun terhapus
func (uc *UserController) GetAllUsers(c *gin.Context) {
	users, err := uc.Users.List(c.Request.Context(), c.Query("include_deleted") == "true")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

func (uc *UserController) GetUserByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	user, err := uc.Users.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User detail", user)
}

// UpdateUser -> field yang tidak dikenal ditolak
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var req services.UserUpdate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	user, err := uc.Users.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

func (uc *UserController) ActivateUser(c *gin.Context) {
	uc.setLifecycle(c, models.LifecycleActive, "User activated")
}

func (uc *UserController) DeactivateUser(c *gin.Context) {
	uc.setLifecycle(c, models.LifecycleInactive, "User deactivated")
}

func (uc *UserController) setLifecycle(c *gin.Context, lc models.Lifecycle, message string) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	user, err := uc.Users.SetLifecycle(c.Request.Context(), id, lc)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, user)
}

// DeleteUser -> soft delete
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if id == c.GetUint(middlewares.CtxUserID) {
		utils.RespondAppError(c, utils.NewError(utils.CodeValidation, "cannot delete your own account"))
		return
	}
	if err := uc.Users.Delete(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", nil)
}

// GetProfile -> user yang sedang login
func (uc *UserController) GetProfile(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondAppError(c, utils.ErrUnauthorized)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}

// UpdateProfile -> hanya first_name/last_name
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	user, err := uc.Users.UpdateProfile(c.Request.Context(), c.GetUint(middlewares.CtxUserID), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}
