package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workspacehq/workspace-api/internal/cache"
	"github.com/workspacehq/workspace-api/internal/config"
	"github.com/workspacehq/workspace-api/internal/database"
	"github.com/workspacehq/workspace-api/internal/handlers"
	"github.com/workspacehq/workspace-api/internal/mailer"
	"github.com/workspacehq/workspace-api/internal/middleware"
	"github.com/workspacehq/workspace-api/internal/repository"
	"github.com/workspacehq/workspace-api/internal/services"
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

	// Redis holds the TTL'd invitation records
	store := cache.NewRedisStore(cfg.RedisAddr)
	defer store.Close()

	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, cfg.ClientURL)

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	invitationRepo := repository.NewInvitationRepository(store)

	// Services
	invitationService := services.NewInvitationService(invitationRepo, workspaceRepo, userRepo, mail)
	authService := services.NewAuthService(userRepo, invitationService)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo, invitationService)
	spaceService := services.NewSpaceService(spaceRepo, taskRepo, workspaceRepo)
	taskService := services.NewTaskService(taskRepo, spaceRepo, workspaceRepo)

	// Daily due-date reminder scan
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.Timezone, err)
	}
	reminderService := services.NewReminderService(taskRepo, mail, loc)
	if err := reminderService.Start(cfg.ReminderSchedule); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}
	defer reminderService.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo, workspaceService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	spaceHandler := handlers.NewSpaceHandler(spaceService)
	taskHandler := handlers.NewTaskHandler(taskService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Workspace API is running",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify", authHandler.Verify)
	}

	// Invitation routes; the join link is public, the rest protected
	invitation := r.Group("/invitation")
	{
		invitation.GET("/join/:invitationId", invitationHandler.Join)
		invitation.POST("/send", middleware.RequireAuth(), invitationHandler.Send)
		invitation.POST("/accept", middleware.RequireAuth(), invitationHandler.Accept)
	}

	// Workspace routes (protected)
	workspace := r.Group("/workspace")
	workspace.Use(middleware.RequireAuth())
	{
		workspace.POST("/create", workspaceHandler.Create)
		workspace.POST("/details", workspaceHandler.Details)
		workspace.GET("/spaces", workspaceHandler.Spaces)
		workspace.POST("/dashboardData", workspaceHandler.Dashboard)
	}

	// Space routes (protected)
	space := r.Group("/space")
	space.Use(middleware.RequireAuth())
	{
		space.POST("/create", spaceHandler.Create)
		space.POST("/tasks", spaceHandler.Tasks)
		space.PUT("/update", spaceHandler.Update)
		space.DELETE("/delete/:id", spaceHandler.Delete)
	}

	// Task routes (protected)
	task := r.Group("/task")
	task.Use(middleware.RequireAuth())
	{
		task.POST("/create", taskHandler.Create)
		task.POST("/details", taskHandler.Details)
		task.PUT("/update/:taskId", taskHandler.Update)
		task.DELETE("/delete/:taskId", taskHandler.Delete)
		task.POST("/versions", taskHandler.Versions)
		task.POST("/versionDetails", taskHandler.VersionDetails)
		task.POST("/version/revert", taskHandler.Revert)
	}

	// User routes (protected)
	user := r.Group("/user")
	user.Use(middleware.RequireAuth())
	{
		user.GET("/profile", userHandler.Profile)
		user.GET("/workspaces", userHandler.Workspaces)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
