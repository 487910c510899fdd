package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/taskhub-api/internal/config"
	"github.com/hokuto/taskhub-api/internal/database"
	"github.com/hokuto/taskhub-api/internal/handlers"
	"github.com/hokuto/taskhub-api/internal/middleware"
	"github.com/hokuto/taskhub-api/internal/models"
	"github.com/hokuto/taskhub-api/internal/repository"
	"github.com/hokuto/taskhub-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService, aiService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskhub API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected sample routes
		protected := api.Group("/protected")
		protected.Use(middleware.RequireAuth(authService))
		{
			protected.GET("/me", authHandler.Me)
			protected.GET("/admin", middleware.RequireRole(models.GlobalRoleAdmin), authHandler.Admin)
		}

		// Project routes
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(authService))
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.DELETE("/:id/members/:userId", projectHandler.RemoveMember)
			projects.GET("/:id/details", projectHandler.GetProjectDetails)
		}

		// Task routes
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(authService))
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/project/:projectId", taskHandler.ListTasksByProject)
			tasks.GET("/user/:userId", taskHandler.GetTasksByUser)
			tasks.GET("/filter", taskHandler.FilterTasks)
			tasks.GET("/search", taskHandler.SearchTasks)
			tasks.GET("/paginated", taskHandler.GetPaginatedTasks)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/assign", taskHandler.AssignTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
