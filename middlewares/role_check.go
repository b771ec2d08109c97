package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

// RoleCheck lets through principals whose role is one of roles. Admins always
// pass. Must run after AuthMiddleware.
func RoleCheck(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.RespondAppError(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		if !user.IsAdmin && !allowed[user.Role] {
			utils.InfoLogger.WithField("user_id", user.ID).Debugf("role %s rejected for %s", user.Role, c.FullPath())
			utils.RespondAppError(c, utils.NewError(utils.CodeUnauthorized, "role not permitted"))
			c.Abort()
			return
		}
		c.Next()
	}
}
