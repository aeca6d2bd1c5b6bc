package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/database"
	adminctrl "github.com/lshigami/Quokka/internal/controller/admin"
	userctrl "github.com/lshigami/Quokka/internal/controller/user"
	"github.com/lshigami/Quokka/internal/logger"
	"github.com/lshigami/Quokka/internal/middleware"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/lshigami/Quokka/internal/storage"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Assignment Reconciliation API
// @version 1.0
// @description Assignment, answer and scoring API with reviewer reconciliation dashboards.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewFileStorage,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewLookupRepository,
			repository.NewQuestionRepository,
			repository.NewAssignmentRepository,
			repository.NewAnswerRepository,
			repository.NewAnswerScoreRepository,
			repository.NewFileRepository,
		),

		fx.Provide(
			service.NewAuthService,
			service.NewUserService,
			service.NewLookupService,
			service.NewQuestionService,
			service.NewAssignmentService,
			service.NewAnswerService,
			service.NewScoringService,
			service.NewDashboardService,
		),

		fx.Provide(
			adminctrl.NewAssignmentController,
			adminctrl.NewQuestionController,
			adminctrl.NewLookupController,
			adminctrl.NewUserController,
			adminctrl.NewScoringController,
			userctrl.NewAuthController,
			userctrl.NewAnswerController,
			userctrl.NewDashboardController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func NewFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	return storage.NewLocalFileStorage(cfg.Upload.Dir)
}

// RegisterRoutesAndStartServer wires all routes and manages the HTTP server
// lifecycle. Admin routes require the Admin role; everything under /me and
// /answers only needs a valid token.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	assignmentCtrl *adminctrl.AssignmentController,
	questionCtrl *adminctrl.QuestionController,
	lookupCtrl *adminctrl.LookupController,
	userCtrl *adminctrl.UserController,
	scoringCtrl *adminctrl.ScoringController,
	authCtrl *userctrl.AuthController,
	answerCtrl *userctrl.AnswerController,
	dashboardCtrl *userctrl.DashboardController,
) {
	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg))
	{
		answers := authed.Group("/answers")
		answers.GET("", answerCtrl.ListMine)
		answers.POST("/batch", answerCtrl.Submit)
		answers.PUT("/:id", answerCtrl.Update)
		answers.DELETE("/:id", answerCtrl.Delete)
		answers.POST("/:id/files", answerCtrl.AttachFile)
		answers.DELETE("/files/:id", answerCtrl.DetachFile)

		me := authed.Group("/me")
		me.GET("/assignments", dashboardCtrl.MyAssignments)
		me.GET("/dashboard", dashboardCtrl.MyMetrics)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.Auth(cfg), middleware.RequireRole("Admin"))
	{
		questions := admin.Group("/questions")
		questions.POST("", questionCtrl.Create)
		questions.GET("", questionCtrl.List)
		questions.GET("/:id", questionCtrl.Get)
		questions.PUT("/:id", questionCtrl.Update)
		questions.DELETE("/:id", questionCtrl.Delete)
		questions.GET("/:id/assignees", assignmentCtrl.ListByQuestion)

		assignments := admin.Group("/assignments")
		assignments.GET("", assignmentCtrl.ListAll)
		assignments.POST("/bulk", assignmentCtrl.BulkAssign)
		assignments.POST("/:id/activate", assignmentCtrl.Activate)
		assignments.POST("/:id/deactivate", assignmentCtrl.Deactivate)

		lookups := admin.Group("/lookups")
		lookups.POST("", lookupCtrl.Create)
		lookups.GET("", lookupCtrl.List)
		lookups.GET("/:code", lookupCtrl.Get)
		lookups.PUT("/:code", lookupCtrl.Update)
		lookups.DELETE("/:code", lookupCtrl.Delete)
		lookups.POST("/:code/sublookups", lookupCtrl.AddSub)
		admin.PUT("/sublookups/:id", lookupCtrl.UpdateSub)
		admin.DELETE("/sublookups/:id", lookupCtrl.DeleteSub)

		users := admin.Group("/users")
		users.POST("", userCtrl.Create)
		users.GET("", userCtrl.List)
		users.GET("/:id", userCtrl.Get)
		users.PUT("/:id", userCtrl.Update)
		users.DELETE("/:id", userCtrl.Delete)
		users.GET("/:id/answers/unscored", scoringCtrl.UnscoredByUser)
		users.GET("/:id/answers/scored", scoringCtrl.ScoredByUser)
		users.GET("/unscored", scoringCtrl.UsersWithUnscored)
		users.GET("/scored-status", scoringCtrl.UsersScoredStatus)

		scores := admin.Group("/scores")
		scores.POST("/batch", scoringCtrl.BatchScore)
		scores.PUT("/batch-update", scoringCtrl.BatchUpdate)
		scores.GET("/totals", scoringCtrl.UserTotals)

		admin.GET("/reviewers/summary", scoringCtrl.ReviewerSummary)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Assignment Reconciliation API starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Lookup{},
		&model.SubLookup{},
		&model.Question{},
		&model.QuestionItem{},
		&model.Assignment{},
		&model.Answer{},
		&model.FileEntry{},
		&model.AnswerFile{},
		&model.AnswerScore{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	if err := seedRoles(db); err != nil {
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// seedRoles makes sure the two built-in roles exist. The Admin role carries
// every dashboard permission flag.
func seedRoles(db *gorm.DB) error {
	roles := []model.Role{
		{
			Name:                 "Admin",
			CanSeeAllUsers:       true,
			CanSeeSystemStats:    true,
			CanSeeAssignmentsAll: true,
			CanSeeAnswersAll:     true,
		},
		{Name: service.DefaultRoleName},
	}
	for _, role := range roles {
		var existing model.Role
		err := db.Where("name = ?", role.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
