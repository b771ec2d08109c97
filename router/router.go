package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/controllers"
	"github.com/yeremiapane/restaurant-frontdesk/hub"
	"github.com/yeremiapane/restaurant-frontdesk/middlewares"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs; main wires it once.
type Deps struct {
	DB       *gorm.DB
	Hub      *hub.Hub
	Auth     *services.AuthService
	Tables   *services.TableService
	Orders   *services.OrderService
	Payments *services.PaymentService
	Menu     *services.MenuService
	Users    *services.UserService

	CORSOrigin       string
	LoginRatePerMin  int
	GlobalRatePerSec int
	HSTS             bool
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(d.HSTS))
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	if d.GlobalRatePerSec > 0 {
		global := middlewares.NewRateLimiter(rate.Limit(d.GlobalRatePerSec), d.GlobalRatePerSec, "Too many requests")
		r.Use(global.RateLimit())
	}

	authCtrl := controllers.NewAuthController(d.Auth)
	tableCtrl := controllers.NewTableController(d.Tables)
	orderCtrl := controllers.NewOrderController(d.Orders, d.Payments)
	paymentCtrl := controllers.NewPaymentController(d.Payments)
	receiptCtrl := controllers.NewReceiptController(d.Payments)
	menuCtrl := controllers.NewMenuController(d.Menu)
	categoryCtrl := controllers.NewMenuCategoryController(d.Menu)
	userCtrl := controllers.NewUserController(d.Users)
	adminCtrl := controllers.NewAdminController(d.DB)
	wsCtrl := controllers.NewWSController(d.Hub, d.CORSOrigin)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	requireAuth := middlewares.AuthMiddleware(d.Auth)
	requireAdmin := middlewares.AdminMiddleware(d.Auth)

	// Public auth
	loginLimiter := middlewares.NewStrictRateLimiter(d.LoginRatePerMin)
	auth := r.Group("/auth", middlewares.NoStore())
	{
		auth.POST("/login/", loginLimiter.RateLimit(), authCtrl.Login)
		auth.POST("/refresh/", loginLimiter.RateLimit(), authCtrl.Refresh)
		auth.POST("/logout/", requireAuth, authCtrl.Logout)
	}

	// Live floor updates
	r.GET("/ws", middlewares.WebSocketAuthMiddleware(d.Auth), wsCtrl.FloorHandler)

	// Staff routes
	staff := r.Group("/", requireAuth)
	{
		staff.GET("/users/me/", userCtrl.GetProfile)
		staff.PATCH("/users/me/", userCtrl.UpdateProfile)

		tables := staff.Group("/tables")
		tables.GET("/", tableCtrl.GetAllTables)
		tables.GET("/:id/", tableCtrl.GetTableByID)
		tables.POST("/:id/reserve/", tableCtrl.ReserveTable)
		tables.POST("/:id/occupy/", tableCtrl.OccupyTable)
		tables.POST("/:id/release/", tableCtrl.ReleaseTable)

		orders := staff.Group("/orders")
		orders.GET("/", orderCtrl.GetAllOrders)
		orders.POST("/open/", orderCtrl.OpenOrder)
		orders.GET("/:id/", orderCtrl.GetOrderByID)
		orders.POST("/:id/submit/", orderCtrl.SubmitOrder)
		orders.POST("/:id/close/", orderCtrl.CloseOrder)
		orders.POST("/:id/items/", orderCtrl.AddItem)
		orders.POST("/:id/items/:item_id/advance/", orderCtrl.AdvanceItem)
		orders.GET("/:id/payments/", orderCtrl.GetOrderPayments)

		payments := staff.Group("/payments", middlewares.NoStore(), middlewares.LogPaymentRequest())
		payments.POST("/", middlewares.RoleCheck(models.RoleCashier, models.RoleManager), paymentCtrl.CreatePayment)
		payments.GET("/:id/", paymentCtrl.GetPaymentByID)
		payments.GET("/:id/receipt.pdf", receiptCtrl.GenerateReceipt)

		menu := staff.Group("/menu")
		menu.GET("/categories/", categoryCtrl.GetAllCategories)
		menu.GET("/categories/:id/", categoryCtrl.GetCategoryByID)
		menu.GET("/items/", menuCtrl.GetAllMenus)
		menu.GET("/items/:id/", menuCtrl.GetMenuByID)
		menu.GET("/items/:id/variants/", menuCtrl.GetVariants)
	}

	// Back-office
	admin := r.Group("/admin", requireAdmin)
	{
		admin.GET("/dashboard/", adminCtrl.GetDashboardStats)
		admin.GET("/audit/", adminCtrl.GetAuditLogs)

		admin.GET("/users/", userCtrl.GetAllUsers)
		admin.POST("/users/", userCtrl.CreateUser)
		admin.GET("/users/:id/", userCtrl.GetUserByID)
		admin.PATCH("/users/:id/", userCtrl.UpdateUser)
		admin.POST("/users/:id/activate/", userCtrl.ActivateUser)
		admin.POST("/users/:id/deactivate/", userCtrl.DeactivateUser)
		admin.DELETE("/users/:id/", userCtrl.DeleteUser)

		admin.POST("/tables/", tableCtrl.CreateTable)
		admin.PATCH("/tables/:id/", tableCtrl.UpdateTable)

		admin.POST("/menu/categories/", categoryCtrl.CreateCategory)
		admin.PUT("/menu/categories/:id/", categoryCtrl.UpdateCategory)
		admin.DELETE("/menu/categories/:id/", categoryCtrl.DeleteCategory)
		admin.POST("/menu/items/", menuCtrl.CreateMenu)
		admin.PUT("/menu/items/:id/", menuCtrl.UpdateMenu)
		admin.DELETE("/menu/items/:id/", menuCtrl.DeleteMenu)
		admin.POST("/menu/items/:id/variants/", menuCtrl.CreateVariant)
	}

	return r
}
