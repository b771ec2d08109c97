package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

// Keys set on gin.Context after authentication
const (
	CtxUserID = "userID"
	CtxUser   = "user"
	CtxToken  = "token"
)

// BearerToken mengambil token dari header "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// AuthMiddleware re-validates the bearer token on every request: signature,
// expiry, revocation and principal lifecycle.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
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

// AdminMiddleware is AuthMiddleware through AdminGate. Non-admins get the
// same 401 as a bad token.
func AdminMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		user, err := auth.AdminGate(c.Request.Context(), token)
		if err != nil {
			utils.RespondAppError(c, err)
			c.Abort()
			return
		}
		setPrincipal(c, user, token)
		c.Next()
	}
}

func setPrincipal(c *gin.Context, user *models.User, token string) {
	c.Set(CtxUserID, user.ID)
	c.Set(CtxUser, user)
	c.Set(CtxToken, token)
	c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), user.ID))
}

// CurrentUser returns the principal set by the auth middlewares.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
