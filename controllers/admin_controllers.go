package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db, Now: time.Now}
}

type DashboardStats struct {
	TableStats struct {
		Free     int64 `json:"free"`
		Reserved int64 `json:"reserved"`
		Occupied int64 `json:"occupied"`
	} `json:"table_stats"`
	OrderStats struct {
		Open        int64 `json:"open"`
		Submitted   int64 `json:"submitted"`
		ClosedToday int64 `json:"closed_today"`
	} `json:"order_stats"`
	PaymentStats struct {
		CountToday   int64   `json:"count_today"`
		RevenueToday float64 `json:"revenue_today"`
		RevenueTotal float64 `json:"revenue_total"`
	} `json:"payment_stats"`
}

// GetDashboardStats mengambil statistik lantai untuk dashboard admin
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	db := ac.DB.WithContext(c.Request.Context())
	now := ac.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats DashboardStats
	counts := []struct {
		query *gorm.DB
		dst   *int64
	}{
		{db.Model(&models.Table{}).Where("status = ?", models.TableFree), &stats.TableStats.Free},
		{db.Model(&models.Table{}).Where("status = ?", models.TableReserved), &stats.TableStats.Reserved},
		{db.Model(&models.Table{}).Where("status = ?", models.TableOccupied), &stats.TableStats.Occupied},
		{db.Model(&models.Order{}).Where("status = ?", models.OrderOpen), &stats.OrderStats.Open},
		{db.Model(&models.Order{}).Where("status = ?", models.OrderSubmitted), &stats.OrderStats.Submitted},
		{db.Model(&models.Order{}).Where("status = ? AND closed_at >= ?", models.OrderClosed, startOfDay), &stats.OrderStats.ClosedToday},
		{db.Model(&models.Payment{}).Where("paid_at >= ?", startOfDay), &stats.PaymentStats.CountToday},
	}
	for _, q := range counts {
		if err := q.query.Count(q.dst).Error; err != nil {
			utils.RespondAppError(c, err)
			return
		}
	}

	err := db.Model(&models.Payment{}).Where("paid_at >= ?", startOfDay).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&stats.PaymentStats.RevenueToday)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	err = db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&stats.PaymentStats.RevenueTotal)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetAuditLogs -> ?entity=order&entity_id=12
func (ac *AdminController) GetAuditLogs(c *gin.Context) {
	entity := c.Query("entity")
	entityID, err := strconv.ParseUint(c.Query("entity_id"), 10, 64)
	if entity == "" || err != nil {
		utils.RespondAppError(c, utils.NewError(utils.CodeValidation, "entity and entity_id are required"))
		return
	}

	logs, err := services.AuditTrail(ac.DB.WithContext(c.Request.Context()), entity, uint(entityID))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Audit trail", logs)
}
