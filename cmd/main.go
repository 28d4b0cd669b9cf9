package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Wombats/config"
	"github.com/lshigami/Wombats/database"
	"github.com/lshigami/Wombats/internal/cache"
	adminctrl "github.com/lshigami/Wombats/internal/controller/admin"
	userctrl "github.com/lshigami/Wombats/internal/controller/user"
	"github.com/lshigami/Wombats/internal/directory"
	"github.com/lshigami/Wombats/internal/logger"
	"github.com/lshigami/Wombats/internal/middleware"
	"github.com/lshigami/Wombats/internal/model"
	"github.com/lshigami/Wombats/internal/notify"
	"github.com/lshigami/Wombats/internal/repository"
	"github.com/lshigami/Wombats/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Evaluation Engine API
// @version 1.0
// @description Dynamic evaluation engine for the staff operations platform: form definitions, periodic assignments, access locking and aggregated metrics.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewInvalidationBus,
			NewMetricsCache,
			notify.NewLogNotifier,
			directory.NewDirectory,
		),

		// Repositories layer
		fx.Provide(
			repository.NewFormRepository,
			repository.NewQuestionRepository,
			repository.NewInstanceRepository,
		),

		// Services layer
		fx.Provide(
			service.NewSchemaService,
			service.NewActivationService,
			service.NewSubmissionService,
			service.NewSchedulerService,
			service.NewLockService,
			service.NewMetricsService,
		),

		// API controllers layer
		fx.Provide(
			adminctrl.NewFormController,
			adminctrl.NewSchedulerController,
			userctrl.NewEvaluationController,
		),

		fx.Invoke(WireCacheInvalidation),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Employee-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func NewInvalidationBus() *cache.Bus {
	return cache.NewBus()
}

func NewMetricsCache(cfg *config.Config) *cache.MetricsCache {
	return cache.NewMetricsCache(time.Duration(cfg.Metrics.CacheTTLMinutes) * time.Minute)
}

// WireCacheInvalidation subscribes the metrics cache to the write-path
// invalidation events.
func WireCacheInvalidation(bus *cache.Bus, metricsCache *cache.MetricsCache) {
	cache.Wire(bus, metricsCache)
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle. The access-lock gate runs on every route after the allow-list
// check inside the middleware itself.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	lockService service.LockService,
	formCtrl *adminctrl.FormController,
	schedulerCtrl *adminctrl.SchedulerController,
	evaluationCtrl *userctrl.EvaluationController,
) {
	router.Use(middleware.AccessLockGate(lockService))

	adminAPIGroup := router.Group("/api/v1/admin")
	{
		formsGroup := adminAPIGroup.Group("/forms")
		formsGroup.POST("", formCtrl.CreateForm)
		formsGroup.GET("", formCtrl.ListForms)
		formsGroup.GET("/:form_id", formCtrl.GetForm)
		formsGroup.PUT("/:form_id", formCtrl.UpdateForm)
		formsGroup.DELETE("/:form_id", formCtrl.DeleteForm)
		formsGroup.GET("/:form_id/preview", formCtrl.PreviewForm)
		formsGroup.POST("/:form_id/activate", formCtrl.ActivateForm)
		formsGroup.POST("/:form_id/deactivate", formCtrl.DeactivateForm)
		formsGroup.POST("/:form_id/questions", formCtrl.AddQuestion)

		questionsGroup := adminAPIGroup.Group("/questions")
		questionsGroup.PUT("/:question_id", formCtrl.UpdateQuestion)
		questionsGroup.DELETE("/:question_id", formCtrl.DeleteQuestion)
		questionsGroup.POST("/:question_id/reorder", formCtrl.ReorderQuestion)

		schedulerGroup := adminAPIGroup.Group("/scheduler")
		schedulerGroup.POST("/generation", schedulerCtrl.RunGeneration)
		schedulerGroup.POST("/reminders", schedulerCtrl.RunReminders)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/evaluations/pending", evaluationCtrl.ListPending)
		userAPIGroup.GET("/evaluations/:instance_id", evaluationCtrl.GetInstance)
		userAPIGroup.POST("/evaluations/:instance_id/submit", evaluationCtrl.Submit)
		userAPIGroup.GET("/evaluations/overdue-check", evaluationCtrl.CheckOverdue)
		userAPIGroup.GET("/metrics", evaluationCtrl.GetMetrics)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Evaluation engine starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// AutoMigrateDB creates the schema plus the partial unique indexes that gorm
// tags cannot express. Both indexes are load-bearing for correctness: the
// active-form invariant and the dense question order only bind live rows.
func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Department{},
		&model.Employee{},
		&model.Form{},
		&model.Question{},
		&model.Choice{},
		&model.EvaluationInstance{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}

	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_forms_active_group
		   ON forms (COALESCE(department_id, 0), type)
		   WHERE is_active AND deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_questions_form_order
		   ON questions (form_id, "order")
		   WHERE deleted_at IS NULL`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			log.Error().Err(err).Msg("Index migration failed")
			return err
		}
	}

	log.Info().Msg("Database migration completed successfully.")
	return nil
}
