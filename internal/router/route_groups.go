package router

import (
	"farmasil_backend/internal/handlers"
	"farmasil_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupStoreRoutes sets up the store routes.
func SetupStoreRoutes(authenticatedGroup *gin.RouterGroup, storeHandler *handlers.StoreHandler) {
	storeRoutes := authenticatedGroup.Group("/stores")
	{
		storeRoutes.GET("", storeHandler.GetStores)
		storeRoutes.GET("/:id", storeHandler.GetStoreByID)

		adminOnly := storeRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware("admin"))
		{
			adminOnly.POST("", storeHandler.CreateStore)
			adminOnly.PUT("/:id", storeHandler.UpdateStore)
			adminOnly.DELETE("/:id", storeHandler.DeleteStore)
			adminOnly.POST("/:id/managers/:managerId", storeHandler.AssignManager)
			adminOnly.DELETE("/:id/managers/:managerId", storeHandler.UnassignManager)
		}
	}
}

// SetupManagerRoutes sets up the manager routes.
func SetupManagerRoutes(authenticatedGroup *gin.RouterGroup, storeHandler *handlers.StoreHandler) {
	managerRoutes := authenticatedGroup.Group("/managers")
	{
		managerRoutes.GET("", storeHandler.GetManagers)
		managerRoutes.GET("/:id", storeHandler.GetManagerByID)

		adminOnly := managerRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware("admin"))
		{
			adminOnly.POST("", storeHandler.CreateManager)
			adminOnly.PUT("/:id", storeHandler.UpdateManager)
			adminOnly.DELETE("/:id", storeHandler.DeleteManager)
		}
	}
}

// SetupStaffRoutes sets up the employee and shift routes.
// Write operations are restricted to admins and managers.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	employeeRoutes := authenticatedGroup.Group("/employees")
	{
		employeeRoutes.GET("", staffHandler.GetEmployees)
		employeeRoutes.GET("/:id", staffHandler.GetEmployeeByID)
		employeeRoutes.GET("/:id/pay", staffHandler.CalculatePay)
		employeeRoutes.GET("/:id/shifts", staffHandler.GetShifts)

		managerOnly := employeeRoutes.Group("")
		managerOnly.Use(middleware.RoleAuthMiddleware("admin", "manager"))
		{
			managerOnly.POST("", staffHandler.CreateEmployee)
			managerOnly.PUT("/:id", staffHandler.UpdateEmployee)
			managerOnly.DELETE("/:id", staffHandler.DeleteEmployee)
			managerOnly.POST("/:id/shifts", staffHandler.CreateShift)
		}
	}
	authenticatedGroup.DELETE("/shifts/:shiftId", middleware.RoleAuthMiddleware("admin", "manager"), staffHandler.DeleteShift)
}

// SetupProductRoutes sets up the product and stock routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.GET("", catalogHandler.GetProducts)
		productRoutes.GET("/:id", catalogHandler.GetProductByID)
		productRoutes.GET("/:id/movements", catalogHandler.GetStockMovements)

		managerOnly := productRoutes.Group("")
		managerOnly.Use(middleware.RoleAuthMiddleware("admin", "manager"))
		{
			managerOnly.POST("", catalogHandler.CreateProduct)
			managerOnly.PUT("/:id", catalogHandler.UpdateProduct)
			managerOnly.DELETE("/:id", catalogHandler.DeleteProduct)
			managerOnly.POST("/:id/stock", catalogHandler.AdjustStock)
			managerOnly.PATCH("/:id/price", catalogHandler.ChangePrice)
		}
	}
}

// SetupSupplierRoutes sets up the supplier routes.
func SetupSupplierRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	supplierRoutes := authenticatedGroup.Group("/suppliers")
	{
		supplierRoutes.GET("", catalogHandler.GetSuppliers)
		supplierRoutes.GET("/:id", catalogHandler.GetSupplierByID)

		managerOnly := supplierRoutes.Group("")
		managerOnly.Use(middleware.RoleAuthMiddleware("admin", "manager"))
		{
			managerOnly.POST("", catalogHandler.CreateSupplier)
			managerOnly.PUT("/:id", catalogHandler.UpdateSupplier)
			managerOnly.DELETE("/:id", catalogHandler.DeleteSupplier)
		}
	}
}

// SetupCustomerRoutes sets up the customer and loyalty card routes.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := authenticatedGroup.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.GET("/:id", customerHandler.GetCustomerByID)
		customerRoutes.PUT("/:id", customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/:id", middleware.RoleAuthMiddleware("admin", "manager"), customerHandler.DeleteCustomer)

		customerRoutes.POST("/:id/purchases", customerHandler.RecordPurchase)
		customerRoutes.GET("/:id/discount", customerHandler.QuoteDiscount)

		customerRoutes.POST("/:id/loyalty-card", customerHandler.CreateLoyaltyCard)
		customerRoutes.GET("/:id/loyalty-card", customerHandler.GetLoyaltyCard)
		customerRoutes.PUT("/:id/loyalty-card", customerHandler.UpdateLoyaltyCard)
	}
	authenticatedGroup.DELETE("/loyalty-cards/:cardId", middleware.RoleAuthMiddleware("admin", "manager"), customerHandler.DeleteLoyaltyCard)
}

// SetupOrderRoutes sets up the order lifecycle routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.POST("/:id/lines", orderHandler.AddLine)
		orderRoutes.DELETE("/:id/lines/:productName", orderHandler.RemoveLine)
		orderRoutes.POST("/:id/finalize", orderHandler.Finalize)
		orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
		orderRoutes.GET("/:id/invoice", orderHandler.GetInvoice)
		orderRoutes.DELETE("/:id", middleware.RoleAuthMiddleware("admin", "manager"), orderHandler.DeleteOrder)
	}
}

// SetupCashRoutes sets up the cash register routes.
func SetupCashRoutes(authenticatedGroup *gin.RouterGroup, cashHandler *handlers.CashHandler) {
	cashRoutes := authenticatedGroup.Group("/cash-registers")
	{
		cashRoutes.GET("", cashHandler.GetRegisters)
		cashRoutes.GET("/:id", cashHandler.GetRegisterByID)
		cashRoutes.GET("/:id/ledger", cashHandler.GetLedgerEntries)
		cashRoutes.POST("/:id/entries", cashHandler.RegisterEntry)
		cashRoutes.POST("/:id/exits", cashHandler.RegisterExit)
		cashRoutes.POST("/transfer", cashHandler.Transfer)

		managerOnly := cashRoutes.Group("")
		managerOnly.Use(middleware.RoleAuthMiddleware("admin", "manager"))
		{
			managerOnly.POST("", cashHandler.CreateRegister)
			managerOnly.DELETE("/:id", cashHandler.DeleteRegister)
		}
	}
}
