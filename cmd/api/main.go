package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-retail-pos/internal/cart"
	"go-retail-pos/internal/handler"
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/database"
	"go-retail-pos/pkg/redis"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Branch{}, &model.Product{},
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Sale{}, &model.SaleItem{},
		&model.StockAdjustment{}, &model.Expense{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup Redis (durable cart storage)
	redisClient := redis.Connect(context.Background())
	defer redisClient.Close()
	snapshots := cart.NewRedisSnapshotStore(redisClient, 0)

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	branchRepo := repository.NewBranchRepo(db)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	adjustmentRepo := repository.NewAdjustmentRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	catalogService := service.NewCatalogService(productRepo, db, wsHub)
	branchService := service.NewBranchService(branchRepo, wsHub)
	cartService := service.NewCartService(snapshots, branchRepo, productRepo, catalogService, wsHub)
	checkoutService := service.NewCheckoutService(cartService, branchRepo, productRepo, db, wsHub)
	expenseService := service.NewExpenseService(expenseRepo, branchRepo, wsHub)
	dashService := service.NewDashboardService(saleRepo, adjustmentRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo, branchRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService, branchService)
	cartHandler := handler.NewCartHandler(cartService)
	saleHandler := handler.NewSaleHandler(checkoutService, saleRepo, adjustmentRepo)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Retail POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStockMovement)
	protected.Get("/dashboard/revenue-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetRevenueMovement)
	protected.Get("/dashboard/financial-summary", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetFinancialSummary)

	// Branch Routes
	protected.Get("/branches", catalogHandler.GetBranches)
	protected.Get("/branches/:id", catalogHandler.GetBranch)
	protected.Post("/branches", middleware.RequirePrivilege("branch:create"), catalogHandler.CreateBranch)
	protected.Put("/branches/:id", middleware.RequirePrivilege("branch:update"), catalogHandler.UpdateBranch)

	// Product Routes
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)

	// Cart Routes (sales and adjustment variants share one surface)
	protected.Get("/carts/:kind", cartHandler.GetCart)
	protected.Delete("/carts/:kind", cartHandler.ClearCart)
	protected.Post("/carts/:kind/items", cartHandler.AddItem)
	protected.Patch("/carts/:kind/items/:id", cartHandler.UpdateItem)
	protected.Delete("/carts/:kind/items/:id", cartHandler.RemoveItem)
	protected.Put("/carts/sales/discount", cartHandler.SetDiscount)

	// Sale Routes
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), saleHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), saleHandler.GetSale)
	protected.Post("/sales/checkout", middleware.RequirePrivilege("sale:create"), saleHandler.Checkout)

	// Stock Adjustment Routes
	protected.Get("/adjustments", middleware.RequirePrivilege("adjustment:view"), saleHandler.GetAdjustments)
	protected.Post("/adjustments/post", middleware.RequirePrivilege("adjustment:create"), saleHandler.PostAdjustments)

	// Expense Routes
	protected.Get("/expenses", middleware.RequirePrivilege("expense:view"), expenseHandler.GetExpenses)
	protected.Get("/expenses/total", middleware.RequirePrivilege("expense:view"), expenseHandler.GetExpenseTotal)
	protected.Get("/expenses/:id", middleware.RequirePrivilege("expense:view"), expenseHandler.GetExpense)
	protected.Post("/expenses", middleware.RequirePrivilege("expense:create"), expenseHandler.CreateExpense)
	protected.Put("/expenses/:id", middleware.RequirePrivilege("expense:update"), expenseHandler.UpdateExpense)
	protected.Delete("/expenses/:id", middleware.RequirePrivilege("expense:delete"), expenseHandler.DeleteExpense)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role & Privilege Routes
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// CASHIER gets the register surface only
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err == nil && len(cashierRole.Privileges) == 0 {
		cashierCodes := map[string]bool{
			"branch:view": true, "product:view": true,
			"sale:view": true, "sale:create": true,
			"adjustment:view": true, "adjustment:create": true,
		}
		cashierPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if cashierCodes[p.Code] {
				cashierPrivileges = append(cashierPrivileges, p)
			}
		}
		db.Model(&cashierRole).Association("Privileges").Replace(cashierPrivileges)
		log.Println("✅ CASHIER role assigned register privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
