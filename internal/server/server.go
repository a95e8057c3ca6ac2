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

	"teamtrack/internal/config"
	"teamtrack/internal/handler"
	"teamtrack/internal/middleware"
	"teamtrack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Apply schema migrations before opening the pool
	migrateURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New(cfg.MigrationsPath, migrateURL)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("❌ failed to apply migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	// Setup Gin
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	teamHandler := handler.NewTeamHandler(teamRepo, userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, userRepo)
	meetingHandler := handler.NewMeetingHandler(meetingRepo, userRepo)
	evaluationHandler := handler.NewEvaluationHandler(evaluationRepo, taskRepo, userRepo)
	calendarHandler := handler.NewCalendarHandler(taskRepo, meetingRepo, userRepo)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Team routes
		authorized.POST("/teams", teamHandler.Create)
		authorized.GET("/teams/me", teamHandler.GetMine)
		authorized.POST("/teams/:id/members", teamHandler.AddMember)
		authorized.POST("/teams/:id/roles", teamHandler.SetRole)
		authorized.DELETE("/teams/:id/members/:user_id", teamHandler.RemoveMember)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/comments", taskHandler.AddComment)
		authorized.GET("/tasks/:id/comments", taskHandler.GetComments)

		// Meeting routes
		authorized.POST("/meetings", meetingHandler.Create)
		authorized.GET("/meetings", meetingHandler.List)
		authorized.DELETE("/meetings/:id", meetingHandler.Delete)

		// Evaluation routes
		authorized.POST("/evaluations", evaluationHandler.Create)
		authorized.GET("/evaluations/me", evaluationHandler.ListMine)
		authorized.GET("/evaluations/me/average", evaluationHandler.AverageMine)

		// Calendar routes
		authorized.GET("/calendar/day", calendarHandler.Day)
		authorized.GET("/calendar/month", calendarHandler.Month)
	}
	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
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
