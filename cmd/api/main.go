package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-gst/internal/config"
	"go-inventory-gst/internal/handler"
	"go-inventory-gst/internal/middleware"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/internal/service"
	"go-inventory-gst/internal/ws"
	"go-inventory-gst/pkg/database"

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
	cfg := config.Load()

	// 2. Setup Database
	db := database.Connect(cfg.DatabaseDSN)
	// Auto migrate (fine for dev; use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Product{}, &model.Warehouse{}, &model.Batch{},
		&model.StockMovement{}, &model.Customer{},
		&model.SalesInvoice{}, &model.SalesInvoiceItem{}, &model.InvoiceSequence{},
		&model.Alert{},
	)

	// 3. Seed default privileges, roles, admin user, and the default warehouse
	seedPrivilegesRolesAndAdmin(db)
	seedDefaultWarehouse(db, cfg)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	productRepo := repository.NewProductRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db, batchRepo)
	movementRepo := repository.NewMovementRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	alertRepo := repository.NewAlertRepo(db)

	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	inventoryService := service.NewInventoryService(productRepo, batchRepo, movementRepo, db, cfg, wsHub)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, warehouseRepo, inventoryService, db, cfg, wsHub)
	warehouseService := service.NewWarehouseService(warehouseRepo)
	customerService := service.NewCustomerService(customerRepo)
	alertService := service.NewAlertService(alertRepo, batchRepo, cfg, wsHub)
	reportService := service.NewReportService(invoiceRepo)
	dashboardService := service.NewDashboardService(movementRepo, invoiceRepo, alertService, cfg)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	productHandler := handler.NewProductHandler(inventoryService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	customerHandler := handler.NewCustomerHandler(customerService)
	batchHandler := handler.NewBatchHandler(inventoryService)
	movementHandler := handler.NewMovementHandler(inventoryService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	alertHandler := handler.NewAlertHandler(alertService)
	reportHandler := handler.NewReportHandler(reportService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory GST Pro v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.Overview)
	protected.Get("/dashboard/movements", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.Movements)

	// Product Routes
	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)

	// Warehouse Routes
	protected.Get("/warehouses", warehouseHandler.GetWarehouses)
	protected.Get("/warehouses/:id", warehouseHandler.GetWarehouse)
	protected.Post("/warehouses", middleware.RequirePrivilege("warehouse:create"), warehouseHandler.CreateWarehouse)
	protected.Put("/warehouses/:id", middleware.RequirePrivilege("warehouse:update"), warehouseHandler.UpdateWarehouse)
	protected.Delete("/warehouses/:id", middleware.RequirePrivilege("warehouse:delete"), warehouseHandler.DeleteWarehouse)

	// Customer Routes
	protected.Get("/customers", middleware.RequirePrivilege("customer:view"), customerHandler.GetCustomers)
	protected.Get("/customers/:id", middleware.RequirePrivilege("customer:view"), customerHandler.GetCustomer)
	protected.Post("/customers", middleware.RequirePrivilege("customer:create"), customerHandler.CreateCustomer)
	protected.Put("/customers/:id", middleware.RequirePrivilege("customer:update"), customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", middleware.RequirePrivilege("customer:delete"), customerHandler.DeleteCustomer)

	// Batch Routes
	protected.Get("/batches", middleware.RequirePrivilege("batch:view"), batchHandler.GetBatches)
	protected.Get("/batches/available", middleware.RequirePrivilege("batch:view"), batchHandler.GetAvailable)
	protected.Get("/batches/:id", middleware.RequirePrivilege("batch:view"), batchHandler.GetBatch)
	protected.Post("/batches", middleware.RequirePrivilege("batch:create"), batchHandler.ReceiveBatch)
	protected.Delete("/batches/:id", middleware.RequirePrivilege("batch:delete"), batchHandler.DeleteBatch)

	// Movement Routes
	protected.Get("/movements", middleware.RequirePrivilege("movement:view"), movementHandler.GetMovements)
	protected.Get("/movements/:id", middleware.RequirePrivilege("movement:view"), movementHandler.GetMovement)
	protected.Post("/movements", middleware.RequirePrivilege("movement:create"), movementHandler.RecordMovement)

	// Invoice Routes
	protected.Get("/invoices", middleware.RequirePrivilege("invoice:view"), invoiceHandler.GetInvoices)
	protected.Get("/invoices/:id", middleware.RequirePrivilege("invoice:view"), invoiceHandler.GetInvoice)
	protected.Post("/invoices", middleware.RequirePrivilege("invoice:create"), invoiceHandler.CreateInvoice)

	// Alert Routes
	protected.Get("/alerts", middleware.RequirePrivilege("alert:view"), alertHandler.GetAlerts)
	protected.Get("/alerts/active", middleware.RequirePrivilege("alert:view"), alertHandler.GetActive)
	protected.Post("/alerts", middleware.RequirePrivilege("alert:create"), alertHandler.CreateAlert)
	protected.Post("/alerts/evaluate", middleware.RequirePrivilege("alert:update"), alertHandler.Evaluate)
	protected.Put("/alerts/:id/dismiss", middleware.RequirePrivilege("alert:update"), alertHandler.DismissAlert)
	protected.Put("/alerts/:id", middleware.RequirePrivilege("alert:update"), alertHandler.UpdateAlert)
	protected.Delete("/alerts/:id", middleware.RequirePrivilege("alert:delete"), alertHandler.DeleteAlert)

	// Report Routes
	protected.Get("/reports/gst", middleware.RequirePrivilege("report:view"), reportHandler.GSTReport)
	protected.Get("/reports/gst/csv", middleware.RequirePrivilege("report:view"), reportHandler.GSTReportCSV)
	protected.Get("/reports/gst/xlsx", middleware.RequirePrivilege("report:view"), reportHandler.GSTReportXLSX)
	protected.Get("/reports/states", reportHandler.States)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

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

	// 8. Hourly alert evaluation
	alertDone := make(chan struct{})
	go runAlertScheduler(alertService, alertDone)

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	close(alertDone)
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// runAlertScheduler evaluates alert conditions on boot and then hourly.
func runAlertScheduler(alertService service.AlertService, done <-chan struct{}) {
	if _, err := alertService.Evaluate(); err != nil {
		log.Printf("Warning: initial alert evaluation failed: %v", err)
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := alertService.Evaluate(); err != nil {
				log.Printf("Warning: alert evaluation failed: %v", err)
			}
		case <-done:
			return
		}
	}
}

// seedDefaultWarehouse makes sure the configured default warehouse exists,
// since invoice allocation falls back to it.
func seedDefaultWarehouse(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&model.Warehouse{}).Where("code = ?", cfg.DefaultWarehouseCode).Count(&count)
	if count > 0 {
		return
	}

	warehouse := &model.Warehouse{
		Code: cfg.DefaultWarehouseCode,
		Name: "Main Warehouse",
	}
	warehouse.CreatedBy = "system"
	warehouse.UpdatedBy = "system"

	if err := db.Create(warehouse).Error; err != nil {
		log.Printf("Warning: Failed to seed default warehouse: %v", err)
	} else {
		log.Printf("✅ Default warehouse created: %s", cfg.DefaultWarehouseCode)
	}
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

	// ADMIN gets limited privileges (exclude user management)
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			// Exclude user creation, update, delete, and privilege update
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// WAREHOUSE_STAFF gets stock operation privileges only
	staffRole, err := roleRepo.FindByCode(model.RoleWarehouseStaff)
	if err == nil && len(staffRole.Privileges) == 0 {
		allowed := map[string]bool{}
		for _, code := range model.WarehouseStaffPrivilegeCodes {
			allowed[code] = true
		}
		staffPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if allowed[p.Code] {
				staffPrivileges = append(staffPrivileges, p)
			}
		}
		db.Model(&staffRole).Association("Privileges").Replace(staffPrivileges)
		log.Println("✅ WAREHOUSE_STAFF role assigned stock privileges")
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
