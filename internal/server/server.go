package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trialatlas/backend/internal/network"
	"github.com/trialatlas/backend/internal/queue"
	mid "github.com/trialatlas/backend/internal/server/middleware"
	"github.com/trialatlas/backend/internal/trials"
	"github.com/trialatlas/backend/internal/util"
	"github.com/trialatlas/backend/pkg/logger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := newTrialSource(ctx)
	service := network.NewService(configFromEnv(), network.BuiltinAliasTable())

	records, err := source.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load trial dataset", "err", err)
	}
	service.SetRecords(records)

	app := &mid.App{
		Network: service,
		Source:  source,
	}

	if util.GetEnvBool("RABBITMQ_ENABLED", false) {
		que := queue.Init()
		defer que.Close()
		ch, err := que.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.SetupQueues(ch, []string{queue.RefreshQueue}); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		app.Queue = ch
		StartRefreshConsumer(ctx, que, app)
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// newTrialSource picks the dataset backend from TRIALS_SOURCE: "file"
// (default), "s3", or "postgres".
func newTrialSource(ctx context.Context) trials.Source {
	switch util.GetEnvString("TRIALS_SOURCE", "file") {
	case "s3":
		client := trials.NewS3Client(ctx)
		if client == nil {
			logger.Fatal("Failed to create S3 client")
		}
		return &trials.S3Source{
			Client: client,
			Bucket: util.GetEnv("TRIALS_S3_BUCKET"),
			Key:    util.GetEnv("TRIALS_S3_KEY"),
		}
	case "postgres":
		databaseURL := util.GetEnv("DATABASE_URL")
		migrationsPath := util.GetEnvString("MIGRATIONS_PATH", "migrations")
		if err := trials.RunMigrations(databaseURL, migrationsPath); err != nil {
			logger.Fatal("Failed to run migrations", "err", err)
		}
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		return &trials.PostgresSource{Pool: pool}
	default:
		return &trials.FileSource{
			Path: util.GetEnvString("TRIALS_FILE", "data/trials.csv"),
		}
	}
}

func configFromEnv() network.Config {
	cfg := network.DefaultConfig()
	cfg.FuzzyThreshold = util.GetEnvFloat("NETWORK_FUZZY_THRESHOLD", cfg.FuzzyThreshold)
	cfg.DecayRate = util.GetEnvFloat("NETWORK_DECAY_RATE", cfg.DecayRate)
	cfg.FreshBonus = util.GetEnvFloat("NETWORK_FRESH_BONUS", cfg.FreshBonus)
	cfg.GrowthThreshold = util.GetEnvFloat("NETWORK_GROWTH_THRESHOLD", cfg.GrowthThreshold)
	cfg.RecentWindowMonths = int(util.GetEnvNumeric("NETWORK_RECENT_WINDOW_MONTHS", cfg.RecentWindowMonths))
	cfg.MaxNodes = int(util.GetEnvNumeric("NETWORK_MAX_NODES", cfg.MaxNodes))
	cfg.MaxEdges = int(util.GetEnvNumeric("NETWORK_MAX_EDGES", cfg.MaxEdges))
	return cfg
}
