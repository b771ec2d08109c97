package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

// GetAllMenus -> filter ?category_id= ?station= ?is_active=
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	categoryID, err := parseOptionalUintQuery(c, "category_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	filter := services.MenuFilter{CategoryID: categoryID, Station: c.Query("station")}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondAppError(c, utils.NewError(utils.CodeValidation, "invalid is_active"))
			return
		}
		filter.IsActive = &active
	}

	items, err := mc.Menu.ListItems(c.Request.Context(), filter)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", items)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	item, err := mc.Menu.GetItem(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", item)
}

// CreateMenu (admin)
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req services.MenuItemCreate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	item, err := mc.Menu.CreateItem(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created", item)
}

// UpdateMenu (admin)
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var req services.MenuItemUpdate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	item, err := mc.Menu.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", item)
}

// DeleteMenu -> soft delete (is_active=false)
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if err := mc.Menu.DeactivateItem(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deactivated", nil)
}

func (mc *MenuController) GetVariants(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	variants, err := mc.Menu.ListVariants(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of variants", variants)
}

// CreateVariant (admin)
func (mc *MenuController) CreateVariant(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var req services.VariantCreate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	variant, err := mc.Menu.CreateVariant(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Variant created", variant)
}
