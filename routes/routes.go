package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hotel-pms/controllers"
	"hotel-pms/middleware"
	"hotel-pms/services"
	"hotel-pms/utils"
)

// Controllers groups the handlers mounted by SetupRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Inventory    *controllers.InventoryController
	Rooms        *controllers.RoomController
	Pricing      *controllers.PricingController
	Booking      *controllers.BookingController
	Guests       *controllers.GuestController
	Reservations *controllers.ReservationController
}

func corsConfig(origins []string) cors.Config {
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(corsOrigins []string, log zerolog.Logger, verifier middleware.TokenVerifier, h Controllers) *gin.Engine {
	utils.UseJSONFieldNames()

	r := gin.New()
	r.Use(middleware.RequestID(log), middleware.RequestLogger(), middleware.Recovery())
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/token", h.Auth.Token)
		auth.POST("/register", h.Auth.Register)
		auth.GET("/me", middleware.Authenticate(verifier), h.Auth.Me)
	}

	// Public booking engine; no token required.
	booking := api.Group("/booking")
	{
		booking.GET("/availability", h.Booking.Availability)
		booking.POST("/reservations", h.Booking.CreateReservation)
	}

	private := api.Group("", middleware.Authenticate(verifier))
	staff := middleware.RequireRoles(services.StaffRoles...)

	roles := private.Group("/roles", staff)
	{
		roles.GET("", controllers.ListRoles)
		roles.GET("/requirements", controllers.ListRequirements)
	}

	users := private.Group("/users")
	{
		users.POST("", middleware.RequireRoles(services.UserAdminRoles...), h.Auth.CreateUser)
		users.GET("/employees", middleware.RequireRoles(services.UserAdminRoles...), h.Auth.ListEmployees)
	}

	inv := private.Group("/inventory")
	{
		inv.GET("/items", staff, h.Inventory.ListItems)
		inv.POST("/items", middleware.RequireRoles(services.CatalogueAdminRoles...), h.Inventory.CreateItem)
		inv.GET("/items/:id", staff, h.Inventory.GetItem)
		inv.GET("/items/:id/stock", staff, h.Inventory.ItemStock)

		inv.GET("/locations", staff, h.Inventory.ListLocations)
		inv.GET("/locations/central", staff, h.Inventory.CentralStorage)
		inv.GET("/locations/:id/stock", staff, h.Inventory.LocationStock)

		inv.GET("/receipts", staff, h.Inventory.ListReceipts)
		inv.POST("/receipts", middleware.RequireRoles(services.ReceiveGoodsRoles...), h.Inventory.ReceiveGoods)
		inv.GET("/receipts/:id", staff, h.Inventory.GetReceipt)

		stockAdmin := middleware.RequireRoles(services.StockAdminRoles...)
		inv.POST("/stock/add", stockAdmin, h.Inventory.AddStock)
		inv.POST("/stock/remove", stockAdmin, h.Inventory.RemoveStock)
		inv.POST("/stock/transfer", stockAdmin, h.Inventory.TransferStock)
	}

	rooms := private.Group("/rooms")
	{
		roomAdmin := middleware.RequireRoles(services.RoomAdminRoles...)
		rooms.GET("", staff, h.Rooms.ListRooms)
		rooms.POST("", roomAdmin, h.Rooms.CreateRoom)
		rooms.GET("/types", staff, h.Rooms.ListRoomTypes)
		rooms.GET("/blocks", staff, h.Rooms.ListBlocks)
		rooms.DELETE("/blocks/:blockId", roomAdmin, h.Rooms.DeleteBlock)
		rooms.GET("/:id", staff, h.Rooms.GetRoom)
		rooms.PATCH("/:id", roomAdmin, h.Rooms.UpdateRoom)
		rooms.PATCH("/:id/status", middleware.RequireRoles(services.RoomStatusRoles...), h.Rooms.UpdateStatus)
		rooms.GET("/:id/blocks", staff, h.Rooms.ListBlocks)
		rooms.POST("/:id/blocks", roomAdmin, h.Rooms.CreateBlock)
	}

	pricing := private.Group("/pricing")
	{
		pricingAdmin := middleware.RequireRoles(services.PricingAdminRoles...)
		pricing.GET("/rate-plans", staff, h.Pricing.ListRatePlans)
		pricing.POST("/rate-plans", pricingAdmin, h.Pricing.CreateRatePlan)
		pricing.GET("/rate-plans/:id", staff, h.Pricing.GetRatePlan)
		pricing.GET("/rate-plans/:id/rates", staff, h.Pricing.ListRates)
		pricing.POST("/rates/batch", pricingAdmin, h.Pricing.UpsertRates)
		pricing.GET("/quote", staff, h.Pricing.Quote)
	}

	guests := private.Group("/guests", middleware.RequireRoles(services.FrontDeskRoles...))
	{
		guests.GET("", h.Guests.List)
		guests.GET("/:id", h.Guests.Get)
		guests.GET("/:id/reservations", h.Guests.History)
	}

	res := private.Group("/reservations", middleware.RequireRoles(services.FrontDeskRoles...))
	{
		res.GET("", h.Reservations.List)
		res.POST("", h.Reservations.Create)
		res.GET("/:id", h.Reservations.Get)
		res.PATCH("/:id", h.Reservations.Update)
		res.POST("/:id/checkin", h.Reservations.CheckIn())
		res.POST("/:id/checkout", h.Reservations.CheckOut())
		res.POST("/:id/cancel", h.Reservations.Cancel())
		res.POST("/:id/no-show", h.Reservations.MarkNoShow())
		res.GET("/:id/charges", h.Reservations.ListCharges)
		res.POST("/:id/charges", h.Reservations.PostCharge)
		res.GET("/:id/payments", h.Reservations.ListPayments)
		res.POST("/:id/payments", h.Reservations.RecordPayment)
		res.GET("/:id/bill", h.Reservations.Bill)
	}

	return r
}
