package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

// WebSocketAuthMiddleware membaca token dari query (?token=) karena browser
// tidak bisa mengirim header Authorization saat handshake websocket.
func WebSocketAuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = BearerToken(c)
		}

		user, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			utils.RespondAppError(c, err)
			c.Abort()
			return
		}
		setPrincipal(c, user, token)
		c.Next()
	}
}
