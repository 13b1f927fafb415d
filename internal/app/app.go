package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"expensezen/internal/amqp"
	"expensezen/internal/auth"
	"expensezen/internal/config"
	"expensezen/internal/db"
	budgetdomain "expensezen/internal/domain/budget"
	goaldomain "expensezen/internal/domain/goal"
	groupdomain "expensezen/internal/domain/group"
	idempotencydomain "expensezen/internal/domain/idempotency"
	ledgerdomain "expensezen/internal/domain/ledger"
	notificationdomain "expensezen/internal/domain/notification"
	rankdomain "expensezen/internal/domain/rank"
	reportdomain "expensezen/internal/domain/report"
	userdomain "expensezen/internal/domain/user"
	"expensezen/internal/events"
	"expensezen/internal/metrics"
	"expensezen/internal/realtime"
	"expensezen/internal/repository/inmemory"
	budgetrepo "expensezen/internal/repository/postgres/budget"
	goalrepo "expensezen/internal/repository/postgres/goal"
	grouprepo "expensezen/internal/repository/postgres/group"
	idempotencyrepo "expensezen/internal/repository/postgres/idempotency"
	ledgerrepo "expensezen/internal/repository/postgres/ledger"
	notificationrepo "expensezen/internal/repository/postgres/notification"
	userrepo "expensezen/internal/repository/postgres/user"
	walletrepo "expensezen/internal/repository/postgres/wallet"
	"expensezen/internal/transport/httpserver"
	"expensezen/internal/transport/httpserver/handler"
	"expensezen/internal/transport/httpserver/handler/common"
	"expensezen/internal/transport/httpserver/handler/groups"
	"expensezen/internal/transport/httpserver/handler/insights"
	ledgerhandler "expensezen/internal/transport/httpserver/handler/ledger"
	"expensezen/pkg/logger"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	handler    http.Handler
	db         *gorm.DB
	broker     *amqp.Client
	// local receives events from other instances; they must not go back
	// out to the broker.
	local      events.Publisher
	stopStream context.CancelFunc
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	application, err := Build(cfg, dbConn, log)
	if err != nil {
		_ = closeDB(dbConn)
		return nil, err
	}
	return application, nil
}

// Build wires services and transport over an open database.
func Build(cfg config.Config, dbConn *gorm.DB, log logger.Logger) (*App, error) {
	m := metrics.New()
	hub := realtime.NewHub(cfg.Realtime.Buffer)
	hub.OnDrop(m.EventDropped)

	users := userrepo.NewPostgres(dbConn)
	store := ledgerrepo.NewStore(dbConn)

	rankService := rankdomain.NewService(users, inmemory.NewLeaderboardCache(), cfg.Leaderboard.CacheTTL)
	local := events.Fanout{hub, rankService}
	publisher := events.Publisher(local)

	var broker *amqp.Client
	if cfg.AMQP.Enabled() {
		log.Info("app: connecting to broker", "exchange", cfg.AMQP.Exchange)
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.InstanceID)
		if err != nil {
			return nil, fmt.Errorf("connect amqp: %w", err)
		}
		broker = client
		publisher = events.Fanout{hub, rankService, broker}
	}

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.ResetTTL)
	authService := auth.NewService(users, tokens, publisher, cfg.Ledger.DefaultMonthlyLimit)
	userService := userdomain.NewService(users)

	coordinator := ledgerdomain.NewCoordinator(store, publisher, m, cfg.Ledger.GoalWindowDays)
	budgetService := budgetdomain.NewService(budgetrepo.NewPostgres(dbConn))
	goalService := goaldomain.NewService(goalrepo.NewPostgres(dbConn))
	groupService := groupdomain.NewService(grouprepo.NewPostgres(dbConn), users, publisher)
	notificationService := notificationdomain.NewService(notificationrepo.NewPostgres(dbConn))
	reportService := reportdomain.NewService(walletrepo.NewPostgres(dbConn), budgetrepo.NewPostgres(dbConn))
	keys := idempotencydomain.NewService(idempotencyrepo.NewPostgres(dbConn))

	handlers := handler.New(
		common.New(authService, userService, log),
		ledgerhandler.New(budgetService, goalService, coordinator, log),
		groups.New(groupService, coordinator, userService, hub, cfg.Realtime.KeepAlive, log),
		insights.New(notificationService, rankService, reportService, log),
	)

	router := httpserver.NewRouter(cfg, handlers, httpserver.Deps{
		Tokens:  authService,
		Keys:    keys,
		Metrics: m,
	}, log)

	srv := httpserver.New(cfg, router)
	// Open streams end when shutdown starts instead of holding it up.
	streamCtx, stopStream := context.WithCancel(context.Background())
	srv.BaseContext = func(net.Listener) context.Context { return streamCtx }
	srv.RegisterOnShutdown(stopStream)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		handler:    router,
		db:         dbConn,
		broker:     broker,
		local:      local,
		stopStream: stopStream,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP and, with a broker configured, relays events from other
// instances until ctx ends or either fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("http: listening", "addr", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if a.broker != nil {
		g.Go(func() error {
			err := a.broker.Consume(gctx, a.local.Publish)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

func (a *App) Close() error {
	a.stopStream()
	var errs []error
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close amqp: %w", err))
		}
	}
	if err := closeDB(a.db); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	return errors.Join(errs...)
}

func closeDB(dbConn *gorm.DB) error {
	if dbConn == nil {
		return nil
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
