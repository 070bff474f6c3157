package routes

import (
	"os"
	"strings"

	"pharmacrm-backend/config"
	"pharmacrm-backend/controllers"
	"pharmacrm-backend/models"
	"pharmacrm-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Reference data
		products := api.Group("/products")
		{
			products.GET("", controllers.GetProducts)
			products.POST("", utils.RequireRoles(models.RoleAdmin, models.RoleProductManager), controllers.CreateProduct)
		}

		doctors := api.Group("/doctors")
		{
			doctors.POST("", controllers.CreateDoctor)
			doctors.GET("", controllers.GetDoctors)
			doctors.GET("/:id/ledger", controllers.GetDoctorLedger)
		}

		organizations := api.Group("/organizations")
		{
			organizations.POST("", controllers.CreateOrganization)
			organizations.GET("", controllers.GetOrganizations)
			organizations.POST("/:id/reps", controllers.AssignOrganizationRep)
		}

		// Warehouse & stock
		warehouses := api.Group("/warehouses")
		{
			warehouses.POST("", utils.RequireRoles(models.RoleAdmin, models.RoleHeadOfOrders), controllers.CreateWarehouse)
			warehouses.GET("", controllers.GetWarehouses)
			warehouses.GET("/:id/stock", controllers.GetWarehouseStock)
		}
		stock := api.Group("/stock")
		{
			stock.POST("/adjust", utils.RequireRoles(models.RoleAdmin, models.RoleHeadOfOrders), controllers.AdjustStock)
			stock.GET("/:id/movements", controllers.GetStockMovements)
		}

		// Reservations
		reservations := api.Group("/reservations")
		{
			reservations.POST("", utils.RequireRoles(models.RoleHeadOfOrders, models.RoleWholesaleManager, models.RoleDirector, models.RoleDeputyDirector), controllers.CreateReservation)
			reservations.GET("", controllers.GetReservations)
			reservations.GET("/:id", controllers.GetReservation)
			reservations.PATCH("/:id/status", utils.RequireRoles(models.RoleHeadOfOrders, models.RoleDeputyDirector), controllers.UpdateReservationStatus)
		}

		// Billing
		invoices := api.Group("/invoices")
		{
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/debtors", utils.RequireRoles(models.RoleHeadOfOrders, models.RoleDirector, models.RoleDeputyDirector), controllers.GetDebtors)
		}
		api.POST("/payments", utils.RequireRoles(models.RoleHeadOfOrders, models.RoleDirector, models.RoleDeputyDirector), controllers.CreatePayment)

		// Plans & facts
		plans := api.Group("/plans")
		{
			plans.POST("", controllers.CreatePlan)
			plans.GET("", controllers.GetPlans)
		}
		facts := api.Group("/doctor-facts")
		{
			facts.POST("", controllers.CreateDoctorFact)
			facts.GET("", controllers.GetDoctorFacts)
		}

		// Bonus ledger
		bonuses := api.Group("/bonus-payments")
		bonuses.Use(utils.RequireRoles(models.RoleDeputyDirector, models.RoleDirector, models.RoleAdmin))
		{
			bonuses.GET("", controllers.GetBonusPayments)
			bonuses.POST("", controllers.CreateBonusPayout)
		}
		ledger := api.Group("/ledger")
		ledger.Use(utils.RequireRoles(models.RoleDeputyDirector, models.RoleDirector, models.RoleAdmin))
		{
			ledger.POST("/entries/:id/reverse", controllers.ReverseLedgerEntry)
			ledger.POST("/stats/rebuild", controllers.RebuildMonthlyStat)
		}

		// Territory transfer
		api.POST("/reassign", utils.RequireRoles(models.RoleAdmin, models.RoleDirector), controllers.ReassignTerritory)
	}

	return r
}
