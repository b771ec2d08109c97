package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    ErrorCode   `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError menulis error dengan status HTTP eksplisit.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Code:    ErrorCodeOf(err),
	})
}

// RespondAppError memilih status HTTP dari kode error. Error internal tidak
// dibocorkan ke client, hanya dicatat di ErrorLogger.
func RespondAppError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	message := err.Error()

	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		ErrorLogger.WithField("path", c.Request.URL.Path).Errorf("request failed: %v", err)
		message = "internal server error"
	}

	c.JSON(status, JSONResponse{
		Status:  false,
		Message: message,
		Code:    ErrorCodeOf(err),
	})
}
