package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unet360/unet360/backend/internal/db"
	"github.com/unet360/unet360/backend/internal/metrics"
	"github.com/unet360/unet360/backend/internal/queue"
	mid "github.com/unet360/unet360/backend/internal/server/middleware"
	serverutil "github.com/unet360/unet360/backend/internal/server/util"
	"github.com/unet360/unet360/backend/internal/storage"
	"github.com/unet360/unet360/backend/internal/util"
	"github.com/unet360/unet360/backend/pkg/audit"
	"github.com/unet360/unet360/backend/pkg/graph"
	"github.com/unet360/unet360/backend/pkg/logger"
	pgstore "github.com/unet360/unet360/backend/pkg/store/pgx"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = serverutil.NewValidator()

	reg := metrics.NewRegistry()

	databaseURL := util.GetEnv("DATABASE_URL")
	retries := util.GetEnvInt("STARTUP_RETRIES", 5)

	if err := db.Migrate(databaseURL, util.GetEnvString("MIGRATIONS_PATH", db.DefaultMigrationsPath)); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	conn, err := db.Connect(ctx, databaseURL, retries)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	nodeStore := pgstore.NewNodeStorage(conn)
	nav := graph.NewNavigator(nodeStore, graph.WithRefreshHook(func(stats graph.RefreshStats) {
		reg.ObserveRefresh(stats)
		logger.Debug("[Graph] Installed graph",
			"records", stats.Records, "nodes", stats.Nodes, "edges", stats.Edges, "took", stats.Duration)
	}))

	app := &mid.App{
		Store:              nodeStore,
		Tenants:            nodeStore,
		Navigator:          nav,
		Metrics:            reg,
		MasterAPIKey:       util.GetEnv("MASTER_API_KEY"),
		MasterUserID:       util.GetEnv("MASTER_USER_ID"),
		MasterUserRole:     util.GetEnv("MASTER_USER_ROLE"),
		TenantActiveWindow: util.GetEnvDuration("TENANT_ACTIVE_WINDOW", audit.DefaultActiveWindow),
	}

	err = util.RetryErrWithBackoff(ctx, retries, time.Second, func(ctx context.Context) error {
		return app.RefreshGraph(ctx, "startup")
	})
	if err != nil {
		logger.Fatal("Failed to load initial graph", "err", err)
	}
	g := nav.Graph()
	logger.Info("Graph loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	if jwksURL := util.GetEnv("AUTH_JWKS_URL"); jwksURL != "" {
		k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		app.Key = k.Keyfunc
	} else {
		logger.Warn("AUTH_JWKS_URL not set, only the master API key is accepted")
	}

	if s3cfg := storage.ConfigFromEnv(); s3cfg.Enabled() {
		client, err := storage.NewS3Client(ctx, s3cfg)
		if err != nil {
			logger.Fatal("Failed to create S3 client", "err", err)
		}
		app.Images = storage.NewImageStore(client, s3cfg)
	} else {
		logger.Warn("Object storage not configured, image uploads are disabled")
	}

	group, gctx := errgroup.WithContext(ctx)

	if qcfg := queue.ConfigFromEnv(); qcfg.Enabled() {
		que, err := queue.Init(qcfg)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", "err", err)
		}
		defer que.Close()

		pubCh, consumeCh := openChannels(que)
		defer pubCh.Close()
		defer consumeCh.Close()

		origin, err := gonanoid.New()
		if err != nil {
			logger.Fatal("Failed to generate instance id", "err", err)
		}
		app.Events = queue.NewPublisher(pubCh, origin)

		limit := rate.Limit(util.GetEnvNumeric("GRAPH_REFRESH_RATE", 1))
		if limit <= 0 {
			limit = rate.Inf
		}
		consumer := queue.NewConsumer(
			origin,
			queue.RefreshFunc(func(ctx context.Context) error {
				return app.RefreshGraph(ctx, "event")
			}),
			rate.NewLimiter(limit, 1),
			queue.WithObserver(reg.RecordGraphEvent),
		)
		group.Go(func() error {
			return consumer.Run(gctx, consumeCh)
		})
		logger.Info("Listening for graph changes", "instance", origin)
	}

	if interval := util.GetEnvDuration("GRAPH_REFRESH_INTERVAL", 0); interval > 0 {
		group.Go(func() error {
			refreshPeriodically(gctx, app, interval)
			return nil
		})
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(mid.MetricsMiddleware(reg))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64M"))

	RegisterRoutes(e, reg)

	group.Go(func() error {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server stopped", "err", err)
	}
}

func openChannels(conn *amqp091.Connection) (*amqp091.Channel, *amqp091.Channel) {
	pubCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupExchange(pubCh); err != nil {
		logger.Fatal("Failed to declare exchange", "err", err)
	}

	consumeCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	return pubCh, consumeCh
}

func refreshPeriodically(ctx context.Context, app *mid.App, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = app.RefreshGraph(ctx, "interval")
		}
	}
}
