package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

type ReceiptController struct {
	Payments *services.PaymentService
}

func NewReceiptController(payments *services.PaymentService) *ReceiptController {
	return &ReceiptController{Payments: payments}
}

// GenerateReceipt -> PDF struk untuk satu pembayaran
func (rc *ReceiptController) GenerateReceipt(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	payment, order, err := rc.Payments.ReceiptData(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	// render ke buffer dulu supaya error tidak menghasilkan PDF setengah jadi
	var buf bytes.Buffer
	if err := services.RenderReceiptPDF(&buf, order, payment); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, payment.ReceiptNo))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
