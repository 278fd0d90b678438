package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/actorlink/internal/db/migrations"
	"github.com/OFFIS-RIT/actorlink/internal/queue"
	mid "github.com/OFFIS-RIT/actorlink/internal/server/middleware"
	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/internal/worker"
	"github.com/OFFIS-RIT/actorlink/pkg/graph"
	"github.com/OFFIS-RIT/actorlink/pkg/ingest"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
	"github.com/OFFIS-RIT/actorlink/pkg/query"
	"github.com/OFFIS-RIT/actorlink/pkg/store"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
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

// New builds the echo instance with all middleware and routes.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	RegisterRoutes(e)
	return e
}

// SearchOptions reads the search tuning flags from the environment.
func SearchOptions() []graph.FinderOption {
	opts := []graph.FinderOption{graph.WithMemo(util.GetEnvBool("SEARCH_MEMO", false))}
	if util.GetEnvBool("SEARCH_TRACE", false) {
		opts = append(opts, graph.WithTracer(graph.LogTracer{}))
	}
	return opts
}

func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnvString("DATABASE_URL", "sqlite://actorlink.db")
	if err := store.Migrate(databaseURL, migrations.Up); err != nil {
		logger.Fatal("Failed to migrate database", "err", err)
	}
	st, err := store.Open(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer st.Close()

	app := &mid.App{
		Links:        query.NewLinkService(st, query.WithFinderOptions(SearchOptions()...)),
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefault([]string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		app.Key = &k
	}

	if queue.Enabled() {
		que := queue.Init()
		defer que.Close()
		ch, err := que.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		app.Queue = ch
	}

	if util.GetEnvBool("BOOTSTRAP_INGEST", false) {
		go bootstrap(ctx, st, app.Queue)
	}

	e := New(app)

	go func() {
		port := util.GetEnvString("PORT", "8080")
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

// bootstrap fills an empty store with the configured ingest ranges. With a
// broker the ranges are queued for the workers; without one they run in
// this process while the server is already answering requests.
func bootstrap(ctx context.Context, st store.Store, pub queue.Publisher) {
	stats, err := st.Stats(ctx)
	if err != nil {
		logger.Error("[Server][Bootstrap] Failed to read store stats", "err", err)
		return
	}
	if stats.Movies > 0 {
		logger.Info("[Server][Bootstrap] Store already populated", "movies", stats.Movies, "actors", stats.Actors)
		return
	}

	env := worker.EnvFromOS()
	if pub != nil {
		cfg, err := ingest.LoadConfig(env.ConfigPath)
		if err != nil {
			logger.Error("[Server][Bootstrap] Failed to load ingest config", "err", err)
			return
		}
		for _, r := range cfg.Ranges {
			jobID, err := gonanoid.New()
			if err != nil {
				logger.Error("[Server][Bootstrap] Failed to create job ID", "err", err)
				return
			}
			msg := queue.IngestJobMsg{JobID: jobID, From: r.From, To: r.To, RequestedBy: "bootstrap"}
			if err := queue.PublishIngestJob(ctx, pub, msg); err != nil {
				logger.Error("[Server][Bootstrap] Failed to queue range", "from", r.From, "to", r.To, "err", err)
				return
			}
		}
		return
	}

	pipeline, err := worker.NewPipeline(ctx, env, st)
	if err != nil {
		logger.Error("[Server][Bootstrap] Failed to build ingest pipeline", "err", err)
		return
	}
	defer pipeline.Close()

	logger.Info("[Server][Bootstrap] Store is empty, ingesting")
	reports, err := pipeline.RunAll(ctx)
	if err != nil {
		logger.Error("[Server][Bootstrap] Ingest failed", "err", err)
		return
	}
	for _, rep := range reports {
		logger.Info("[Server][Bootstrap] Range done", "from", rep.From, "to", rep.To, "saved", rep.Saved)
	}
}
