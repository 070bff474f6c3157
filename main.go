package main

import (
	"fmt"
	"log"
	"os"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/routes"
	"pharmacrm-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	if err := models.MigrateAll(config.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

func main() {
	services.NewMaintenanceService(config.DB).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
