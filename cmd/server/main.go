package main

import (
	"log"

	"github.com/artofworkflows/platform/internal/config"
	"github.com/artofworkflows/platform/internal/database"
	"github.com/artofworkflows/platform/internal/handlers"
	"github.com/artofworkflows/platform/internal/middleware"
	"github.com/artofworkflows/platform/internal/repository"
	"github.com/artofworkflows/platform/internal/services"
	"github.com/gin-gonic/gin"
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
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Index creation checks pg_indexes, so it only runs on postgres
	if cfg.DBDriver == "postgres" {
		if err := database.MigrateDatabase(db); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	// Services
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	projectService := services.NewProjectService(projectRepo, aiService)
	blogService := services.NewBlogService(blogRepo)

	fileService, err := services.NewFileService(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, fileService)
	blogHandler := handlers.NewBlogHandler(blogService)
	uploadHandler := handlers.NewUploadHandler(fileService, cfg)
	leadHandler := handlers.NewLeadHandler(leadRepo)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Uploaded files
	r.Static("/uploads", cfg.UploadDir)

	requireAuth := middleware.RequireAuth(authService)

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/jwt/login", authHandler.Login)
		}

		// Current user
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/me", authHandler.GetCurrentUser)
		}

		// Public blog surface
		api.GET("/blogs/public", blogHandler.ListPosts)
		api.GET("/blogs/public/:id", blogHandler.GetPost)

		// Blog routes
		blogs := api.Group("/blogs")
		blogs.Use(requireAuth)
		{
			blogs.GET("", blogHandler.ListPosts)
			blogs.GET("/:id", blogHandler.GetPost)
			blogs.POST("", middleware.RequireAdmin(), blogHandler.CreatePost)
			blogs.PUT("/:id", middleware.RequireAdmin(), blogHandler.UpdatePost)
			blogs.DELETE("/:id", middleware.RequireAdmin(), blogHandler.DeletePost)

			blogs.GET("/:id/comments", blogHandler.ListComments)
		}

		// Comment routes
		comments := api.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.POST("", blogHandler.CreateComment)
			comments.DELETE("/:id", blogHandler.DeleteComment)
		}

		// Image uploads (admin)
		api.POST("/upload", requireAuth, middleware.RequireAdmin(), uploadHandler.Upload)

		// Project routes
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", middleware.RequireProjectAccess(), projectHandler.GetProject)
			projects.PUT("/:id", middleware.RequireProjectAccess(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireProjectAccess(), projectHandler.DeleteProject)

			projects.POST("/:id/onboarding", middleware.RequireProjectAccess(), projectHandler.SubmitOnboarding)
			projects.GET("/:id/onboarding", middleware.RequireProjectAccess(), projectHandler.ListOnboarding)

			projects.POST("/:id/proposals", middleware.RequireProjectAccess(), projectHandler.CreateProposal)
			projects.GET("/:id/proposals", middleware.RequireProjectAccess(), projectHandler.ListProposals)
		}

		// Lead routes; intake is public, the listing is admin-only
		api.POST("/leads", leadHandler.CreateLead)
		leads := api.Group("/leads")
		leads.Use(requireAuth)
		{
			leads.GET("", middleware.RequireAdmin(), leadHandler.ListLeads)
			leads.GET("/:id", leadHandler.GetLead)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
