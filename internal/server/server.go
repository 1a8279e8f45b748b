package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/config"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/guard"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/handler"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/history"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/middleware"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/mutation"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/repository"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/ws"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Hub    *ws.Hub
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := runMigrations(db, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Domain services
	memberGuard := guard.New(projectRepo)
	recorder := history.NewRecorder(historyRepo)
	processor := mutation.NewProcessor(taskRepo, memberGuard, projectRepo, recorder)
	hub := ws.NewHub()

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo)
	projectHandler := handler.NewProjectHandler(projectRepo, userRepo, memberGuard)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects", projectHandler.GetAll)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.GET("/projects/:id/members", projectHandler.Members)

		// Invitations
		authorized.POST("/projects/:id/invite", projectHandler.Invite)
		authorized.POST("/projects/:id/invite/accept", projectHandler.AcceptInvite)

		// Role transitions
		authorized.POST("/projects/:id/members/:user_id/promote", projectHandler.Promote)
		authorized.POST("/projects/:id/members/:user_id/demote", projectHandler.Demote)
		authorized.POST("/projects/:id/members/:user_id/ban", projectHandler.Ban)
		authorized.POST("/projects/:id/members/:user_id/unban", projectHandler.Unban)

		// Realtime task sync
		authorized.GET("/ws", ws.Handler(hub, processor))
	}

	return &Server{
		Engine: r,
		DB:     db,
		Hub:    hub,
		Config: cfg,
	}, nil
}

// runMigrations applies pending SQL migrations against the already-open
// connection, so the schema and the gorm session can never disagree on DSN.
func runMigrations(db *gorm.DB, path string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
