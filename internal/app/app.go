package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/db"
	httpX "github.com/yungbote/tutorialhub-backend/internal/http"
	httpMW "github.com/yungbote/tutorialhub-backend/internal/http/middleware"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
	"github.com/yungbote/tutorialhub-backend/internal/realtime"
	"github.com/yungbote/tutorialhub-backend/internal/realtime/bus"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics

	dbService    *db.Service
	bus          bus.Bus
	otelShutdown func(context.Context) error
}

// Option adjusts an App before wiring; the admin CLI uses it to skip the HTTP surface.
type Option func(*options)

type options struct {
	withoutHTTP bool
}

func WithoutHTTP() Option { return func(o *options) { o.withoutHTTP = true } }

func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log, err := logger.NewWithLevel(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &App{Log: log, Cfg: cfg}

	a.Metrics = observability.Init(log, cfg.Metrics.Enabled)
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	dbs, err := db.NewService(cfg.DB.Config, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.dbService = dbs
	a.DB = dbs.DB()
	if cfg.DB.AutoMigrate {
		if err := dbs.AutoMigrateAll(); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	a.SSEHub = realtime.NewSSEHub(log)
	emitter, err := a.wireEmitter(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	notify := services.NewJobNotifier(emitter)

	a.Repos = wireRepos(a.DB, log)
	a.Clients, err = wireClients(ctx, log, cfg, a.Metrics)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init clients: %w", err)
	}
	a.Services, err = wireServices(a.DB, log, cfg, a.Repos, a.Clients, notify, a.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}

	if !o.withoutHTTP {
		auth, err := httpMW.NewAuthMiddleware(log, cfg.Auth)
		if err != nil {
			log.Warn("auth disabled; protected routes will answer 503", "error", err)
		}
		a.Router = wireRouter(log, cfg, wireHandlers(log, a.Services, a.SSEHub, dbs), auth, a.Metrics)
	}
	return a, nil
}

// wireEmitter fans job events out through Redis when configured so every
// instance's SSE clients see them; otherwise events stay in this process.
func (a *App) wireEmitter(ctx context.Context) (services.SSEEmitter, error) {
	b, err := bus.NewRedisBus(ctx, a.Cfg.Redis, a.Log)
	if errors.Is(err, bus.ErrNotConfigured) {
		a.Log.Info("Redis not configured; SSE events are delivered in-process")
		return &services.HubEmitter{Hub: a.SSEHub}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("init redis bus: %w", err)
	}
	a.bus = b
	return &services.RedisEmitter{Bus: b, Fallback: a.SSEHub, Log: a.Log}, nil
}

// Run serves HTTP and runs the worker pool and scheduler until ctx ends or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if a.bus != nil {
		if err := a.bus.StartForwarder(gctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	if a.Router != nil {
		srv := &httpX.Server{Engine: a.Router}
		addr := fmt.Sprintf(":%d", a.Cfg.HTTP.Port)
		g.Go(func() error {
			a.Log.Info("HTTP server listening", "addr", addr)
			return srv.Run(gctx, addr, a.Cfg.HTTP.ShutdownGrace)
		})
	}
	if a.Services.JobWorker != nil {
		g.Go(func() error { return a.Services.JobWorker.Run(gctx) })
	}
	if a.Services.Scheduler != nil {
		a.Services.Scheduler.Start()
		g.Go(func() error {
			<-gctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			a.Services.Scheduler.Stop(stopCtx)
			return nil
		})
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.bus != nil {
		_ = a.bus.Close()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
