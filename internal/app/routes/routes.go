package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jfuentes/schoolguard/internal/app/controllers"
	"github.com/jfuentes/schoolguard/internal/app/models"
	"github.com/jfuentes/schoolguard/internal/app/models/dto"
	"github.com/jfuentes/schoolguard/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	scanController *controllers.ScanController,
	personController *controllers.PersonController,
	reportController *controllers.ReportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Scanning surface. Exit scans belong to gate stations, meal
		// scans to the canteen.
		scan := authenticated.Group("/scan")
		{
			scanGate := scan.Group("")
			scanGate.Use(authMiddleware.RoleRequired(string(models.RoleGate)))
			{
				scanGate.POST("/exit", scanController.ProcessExit)
			}

			scanCanteen := scan.Group("")
			scanCanteen.Use(authMiddleware.RoleRequired(string(models.RoleCanteen)))
			{
				scanCanteen.POST("/meal", scanController.ProcessMeal)
			}
		}

		authenticated.GET("/doors", scanController.ListDoors)

		// Directory routes. Credential issuance is admin-only: it mints
		// tokens that open the gates.
		persons := authenticated.Group("/persons")
		{
			persons.GET("/search", personController.Search)

			personsAdmin := persons.Group("")
			personsAdmin.Use(authMiddleware.RoleRequired())
			{
				personsAdmin.GET("/:kind/:id/credential", personController.Credential)
			}
		}

		// Report routes
		reports := authenticated.Group("/reports")
		{
			reports.GET("/meals", reportController.Meals)
			reports.GET("/exits", reportController.Exits)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
