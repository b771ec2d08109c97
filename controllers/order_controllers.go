package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/middlewares"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

type OrderController struct {
	Orders   *services.OrderService
	Payments *services.PaymentService
}

func NewOrderController(orders *services.OrderService, payments *services.PaymentService) *OrderController {
	return &OrderController{Orders: orders, Payments: payments}
}

// GetAllOrders -> ?status= & ?table_id=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	tableID, err := parseOptionalUintQuery(c, "table_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	orders, err := oc.Orders.List(c.Request.Context(), services.OrderFilter{
		Status:  models.OrderStatus(c.Query("status")),
		TableID: tableID,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> order lengkap dengan item, pembayaran dan total
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", services.Summarize(order))
}

// OpenOrder -> buka order di meja. waiter_id default ke user yang login.
func (oc *OrderController) OpenOrder(c *gin.Context) {
	var req struct {
		TableID  uint   `json:"table_id" binding:"required"`
		WaiterID uint   `json:"waiter_id"`
		Notes    string `json:"notes"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if req.WaiterID == 0 {
		req.WaiterID = c.GetUint(middlewares.CtxUserID)
	}

	order, err := oc.Orders.Open(c.Request.Context(), services.OpenOrderInput{
		TableID:  req.TableID,
		WaiterID: req.WaiterID,
		Notes:    req.Notes,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order opened", order)
}

func (oc *OrderController) SubmitOrder(c *gin.Context) {
	oc.transition(c, oc.Orders.Submit, "Order submitted")
}

func (oc *OrderController) CloseOrder(c *gin.Context) {
	oc.transition(c, oc.Orders.Close, "Order closed")
}

func (oc *OrderController) transition(c *gin.Context, fn func(context.Context, uint) (*models.Order, error), message string) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	order, err := fn(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, order)
}

// AddItem -> tambah item ke order yang belum closed
func (oc *OrderController) AddItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var req services.AddItemInput
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	item, err := oc.Orders.AddItem(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added", item)
}

// AdvanceItem -> pending -> sent -> ready -> served, satu langkah per request
func (oc *OrderController) AdvanceItem(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	itemID, err := parseID(c, "item_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var req struct {
		Status models.ItemStatus `json:"status" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	item, err := oc.Orders.AdvanceItem(c.Request.Context(), orderID, itemID, req.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item status updated", item)
}

// GetOrderPayments -> daftar pembayaran untuk satu order
func (oc *OrderController) GetOrderPayments(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	payments, err := oc.Payments.GetPaymentsByOrderID(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}
