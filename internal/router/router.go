package router

import (
	"database/sql"

	"farmasil_backend/internal/handlers"
	"farmasil_backend/internal/middleware"
	"farmasil_backend/internal/repositories"
	"farmasil_backend/internal/services"
	"farmasil_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	authRepo := repositories.NewAuthRepository(db)
	storeRepo := repositories.NewStoreRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	cashRepo := repositories.NewCashRepository(db)

	// Services
	invoiceDir := utils.Getenv("INVOICE_DIR", "invoices")
	authService := services.NewAuthService(authRepo, db)
	storeService := services.NewStoreService(storeRepo, db)
	staffService := services.NewStaffService(staffRepo, db)
	catalogService := services.NewCatalogService(catalogRepo, db)
	customerService := services.NewCustomerService(customerRepo, db)
	orderService := services.NewOrderService(orderRepo, catalogRepo, customerRepo, db, invoiceDir)
	cashService := services.NewCashService(cashRepo, db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	storeHandler := handlers.NewStoreHandler(storeService)
	staffHandler := handlers.NewStaffHandler(staffService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	orderHandler := handlers.NewOrderHandler(orderService)
	cashHandler := handlers.NewCashHandler(cashService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	publicAuth := apiV1.Group("/auth")
	{
		publicAuth.POST("/register", authHandler.Register)
		publicAuth.POST("/login", authHandler.Login)
	}

	// Everything else requires a valid token
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		authenticated.GET("/auth/me", authHandler.GetProfile)

		SetupStoreRoutes(authenticated, storeHandler)
		SetupManagerRoutes(authenticated, storeHandler)
		SetupStaffRoutes(authenticated, staffHandler)
		SetupProductRoutes(authenticated, catalogHandler)
		SetupSupplierRoutes(authenticated, catalogHandler)
		SetupCustomerRoutes(authenticated, customerHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupCashRoutes(authenticated, cashHandler)
	}
}
