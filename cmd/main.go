package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/studyflow/backend/docs"
	"github.com/studyflow/backend/internal/config"
	"github.com/studyflow/backend/internal/handlers"
	"github.com/studyflow/backend/internal/llm"
	"github.com/studyflow/backend/internal/logger"
	"github.com/studyflow/backend/internal/middlewares"
	"github.com/studyflow/backend/internal/models"
	"github.com/studyflow/backend/internal/repositories"
	"github.com/studyflow/backend/internal/services"
	"github.com/studyflow/backend/internal/staging"
	"github.com/studyflow/backend/internal/transcript"
)

const maxRequestSize = 25 * 1024 * 1024 // 25MB for notes uploads

// seedLesson is a lesson created on first startup against an empty database
type seedLesson struct {
	title     string
	sourceURL string
}

var seedLessons = []seedLesson{
	{"Introduction to Big O Notation", "https://www.youtube.com/embed/v4cd1O4zkGw"},
	{"Arrays & Hashing For Beginners", "https://www.youtube.com/embed/gVgmo-qMV7Q"},
	{"Two Pointers Technique", "https://www.youtube.com/embed/M9Yhk35S_aY"},
	{"Sliding Window Algorithm", "https://www.youtube.com/embed/3i3p_I_MWY0"},
	{"Binary Search Explained", "https://www.youtube.com/embed/P3YID7liBug"},
}

// @title StudyFlow API
// @version 1.0
// @description API for lesson progression and AI-assisted submission evaluation
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting StudyFlow Backend")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize the Gemini client with retries
	aiClient, err := llm.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}
	ai := llm.WithRetry(aiClient, llm.DefaultRetryConfig())

	// Initialize staging and transcript fetching
	notesStager := staging.NewLocalStager(cfg.StagingDir)
	transcriptFetcher := transcript.NewYouTubeFetcher(logger.Logger)

	// Initialize repositories
	lessonRepo := repositories.NewLessonRepository(db)
	completionRepo := repositories.NewCompletionRepository(db)
	learnerRepo := repositories.NewLearnerRepository(db)

	// Initialize services
	progressionService := services.NewProgressionService(lessonRepo, completionRepo, learnerRepo)
	quizService := services.NewQuizService(ai, logger.Logger)
	evaluationService := services.NewEvaluationService(ai, notesStager, logger.Logger)
	authoringService := services.NewAuthoringService(lessonRepo, transcriptFetcher, logger.Logger)

	// Seed the initial lessons against an empty database
	if err := seedInitialLessons(context.Background(), lessonRepo, authoringService); err != nil {
		logger.Logger.Fatal("Failed to seed lessons", zap.Error(err))
	}

	// Initialize handlers
	lessonHandler := handlers.NewLessonHandler(progressionService, quizService, evaluationService, logger.Logger)
	teacherHandler := handlers.NewTeacherHandler(authoringService, progressionService, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(maxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		lessonHandler.RegisterRoutes(r)
		teacherHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second, // Longer timeout for notes uploads
		WriteTimeout: 120 * time.Second, // Evaluation waits on the model
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "studyflow_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// lessonSeeder is the subset of the authoring service used at startup
type lessonSeeder interface {
	AddLesson(ctx context.Context, title, sourceURL string) (*models.Lesson, error)
}

// lessonCounter is the subset of the lesson repository used at startup
type lessonCounter interface {
	Count(ctx context.Context) (int, error)
}

// seedInitialLessons creates the starter curriculum when the lessons table
// is empty. Transcript fetch failures degrade to a placeholder inside the
// authoring service, so seeding works without network access to YouTube.
func seedInitialLessons(ctx context.Context, lessons lessonCounter, authoring lessonSeeder) error {
	count, err := lessons.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count lessons: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Logger.Info("Seeding initial lessons", zap.Int("count", len(seedLessons)))
	for _, seed := range seedLessons {
		lesson, err := authoring.AddLesson(ctx, seed.title, seed.sourceURL)
		if err != nil {
			return fmt.Errorf("failed to seed lesson %q: %w", seed.title, err)
		}
		logger.Logger.Info("Seeded lesson", zap.Int("id", lesson.ID), zap.String("title", lesson.Title))
	}

	return nil
}
