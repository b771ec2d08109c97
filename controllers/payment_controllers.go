package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

// CreatePayment -> catat pembayaran; cashier diambil dari token
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var req services.RecordPaymentInput
	if err := bindStrict(c, &req); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	payment, err := pc.Payments.Record(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment recorded", payment)
}

// GetPaymentByID -> detail pembayaran
func (pc *PaymentController) GetPaymentByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	payment, err := pc.Payments.GetPaymentByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}
