package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

// GetAllTables -> menampilkan seluruh meja, opsional ?status=
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List(c.Request.Context(), models.TableStatus(c.Query("status")))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	table, err := tc.Tables.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// CreateTable -> menambahkan meja baru (admin)
func (tc *TableController) CreateTable(c *gin.Context) {
	var req services.TableCreate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	table, err := tc.Tables.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// UpdateTable -> ubah nomor/kapasitas meja (admin). Status tidak bisa diubah di sini.
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var req services.TableUpdate
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	table, err := tc.Tables.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) ReserveTable(c *gin.Context) {
	tc.transition(c, tc.Tables.Reserve, "Table reserved")
}

func (tc *TableController) OccupyTable(c *gin.Context) {
	tc.transition(c, tc.Tables.Occupy, "Table occupied")
}

func (tc *TableController) ReleaseTable(c *gin.Context) {
	tc.transition(c, tc.Tables.Release, "Table released")
}

func (tc *TableController) transition(c *gin.Context, fn func(context.Context, uint) (*models.Table, error), message string) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	table, err := fn(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, table)
}
