package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

type MenuCategoryController struct {
	Menu *services.MenuService
}

func NewMenuCategoryController(menu *services.MenuService) *MenuCategoryController {
	return &MenuCategoryController{Menu: menu}
}

// GetAllCategories -> urut berdasarkan sort_order
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	categories, err := mcc.Menu.ListCategories(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// CreateCategory (admin)
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var req services.CategoryCreate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	category, err := mcc.Menu.CreateCategory(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (mcc *MenuCategoryController) GetCategoryByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	category, err := mcc.Menu.GetCategory(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

// UpdateCategory (admin) -> hanya field yang dikirim yang diubah
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var req services.CategoryUpdate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	category, err := mcc.Menu.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory (admin) -> ditolak bila kategori masih punya menu
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if err := mcc.Menu.DeleteCategory(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}
