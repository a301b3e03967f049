package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/jfuentes/schoolguard/internal/app/controllers"
	appMigrations "github.com/jfuentes/schoolguard/internal/app/migrations"
	appRepos "github.com/jfuentes/schoolguard/internal/app/repositories"
	appRoutes "github.com/jfuentes/schoolguard/internal/app/routes"
	appServices "github.com/jfuentes/schoolguard/internal/app/services"
	"github.com/jfuentes/schoolguard/internal/config"
	"github.com/jfuentes/schoolguard/internal/db"
	appMiddleware "github.com/jfuentes/schoolguard/internal/middleware"
	pkgAuth "github.com/jfuentes/schoolguard/internal/pkg/auth"
	"github.com/jfuentes/schoolguard/internal/pkg/helpers"
	"github.com/jfuentes/schoolguard/internal/pkg/logger"
	"github.com/jfuentes/schoolguard/internal/pkg/qrtoken"
	"github.com/jfuentes/schoolguard/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService      appServices.AuthService
	ScanService      appServices.ScanService
	PersonService    appServices.PersonService
	ReportService    appServices.ReportService
	AuthController   *appControllers.AuthController
	ScanController   *appControllers.ScanController
	PersonController *appControllers.PersonController
	ReportController *appControllers.ReportController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	Repos            *appRepos.Repositories
	JWTService       *pkgAuth.JWTService
	TokenCodec       *qrtoken.Codec
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.TokenCodec = qrtoken.NewCodec(cfg.Security.QRSecret)

	deps.AuthService = appServices.NewAuthService(deps.Repos.OperatorRepository, deps.JWTService)
	deps.ScanService = appServices.NewScanService(
		deps.Repos.PersonRepository,
		deps.Repos.EventRepository,
		deps.Repos.DoorRepository,
		deps.TokenCodec,
		cfg.Location(),
		cfg.CooldownWindow(),
	)
	deps.PersonService = appServices.NewPersonService(deps.Repos.PersonRepository, deps.TokenCodec)
	deps.ReportService = appServices.NewReportService(deps.Repos.EventRepository, cfg.Location())

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ScanController = appControllers.NewScanController(deps.ScanService)
	deps.PersonController = appControllers.NewPersonController(deps.PersonService)
	deps.ReportController = appControllers.NewReportController(deps.ReportService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ScanController,
		deps.PersonController,
		deps.ReportController,
		deps.AuthMiddleware,
	)

	return router
}
