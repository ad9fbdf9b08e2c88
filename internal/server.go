package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/workoutlog/internal/cache"
	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/gymstats/events"
	"github.com/2beens/workoutlog/internal/gymstats/exercises"
	"github.com/2beens/workoutlog/internal/gymstats/history"
	"github.com/2beens/workoutlog/internal/gymstats/liveactivity"
	gymstatsmcp "github.com/2beens/workoutlog/internal/gymstats/mcp"
	"github.com/2beens/workoutlog/internal/gymstats/progress"
	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/gymstats/routines"
	"github.com/2beens/workoutlog/internal/gymstats/session"
	"github.com/2beens/workoutlog/internal/middleware"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxRequestBodyBytes = 1 << 20

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	clientSecret      string // shared with the workout log clients
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool // nil with the memory store
	store       repo.Store
	redisClient *redis.Client // nil when neither live status nor rate limiting is on
	liveStatus  *liveactivity.RedisBroadcaster

	eventsService *events.Service
	controller    *session.Controller
	tracker       *progress.Tracker
	stats         *progress.Stats
	analyzer      *history.Analyzer
	schemaRepo    gymstatsmcp.SchemaRepo

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	ClientSecret            string
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	s := &Server{
		config:       cfg,
		clientSecret: params.ClientSecret,
		versionInfo:  params.VersionInfo,
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "workoutlog-backend")
	if err != nil {
		return nil, err
	}
	s.otelShutdown = otelShutdown

	var extraCollectors []prometheus.Collector
	var eventsRepo *events.Repo
	switch cfg.StoreBackend {
	case "postgres":
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.PostgresDSN()); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		s.dbPool = dbPool
		s.store = repo.NewPgStore(dbPool)
		s.schemaRepo = gymstatsmcp.NewPoolSchemaRepo(dbPool)
		eventsRepo = events.NewRepo(dbPool)
		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	default:
		log.Warnln("using the in-memory store, nothing survives a restart")
		s.store = repo.NewMemStore()
		s.schemaRepo = gymstatsmcp.NewStaticSchemaRepo()
	}

	s.promRegistry = metrics.SetupPrometheus(extraCollectors...)
	s.metricsManager = metrics.NewManager("backend", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if cfg.LiveStatusEnabled || cfg.CommandsPerMinLimit > 0 {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		if params.HoneycombTracingEnabled {
			s.redisClient.AddHook(redisotel.NewTracingHook())
		}
		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	}

	var broadcaster liveactivity.Broadcaster = liveactivity.Nop{}
	if cfg.LiveStatusEnabled {
		s.liveStatus = liveactivity.NewRedisBroadcaster(s.redisClient, cfg.LiveStatusTTL())
		broadcaster = s.liveStatus
	}

	if eventsRepo != nil {
		s.eventsService = events.NewService(eventsRepo)
	} else {
		s.eventsService = events.NewService(nil)
	}

	statsCache := cache.NewFreeCache(cfg.StatsCacheSizeMB)
	s.stats = progress.NewStats(s.store, statsCache, progress.DefaultHistoryCacheTTL)
	s.tracker = progress.NewTracker(s.store, s.stats)
	s.tracker.Register(s.eventsService)
	s.analyzer = history.NewAnalyzer(s.store)

	s.controller = session.NewController(session.Params{
		Store:           s.store,
		Events:          s.eventsService,
		Broadcaster:     broadcaster,
		Metrics:         s.metricsManager,
		TickInterval:    cfg.TickInterval(),
		TransitionDelay: cfg.ViewTransitionDelay(),
	})

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	routinesHandler := routines.NewHandler(routines.NewService(s.store))
	r.HandleFunc("/routines", routinesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines", routinesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")
	r.HandleFunc("/routines/{id}/favorite", routinesHandler.HandleSetFavorite).Methods("PUT", "OPTIONS").Name("favorite-routine")
	r.HandleFunc("/routines/{id}/archive", routinesHandler.HandleSetArchived).Methods("PUT", "OPTIONS").Name("archive-routine")
	r.HandleFunc("/routines/{id}/blocks/{blockId}/exercises", routinesHandler.HandleAddExerciseToBlock).Methods("POST", "OPTIONS").Name("add-block-exercise")

	exercisesHandler := exercises.NewHandler(s.store)
	r.HandleFunc("/exercises", exercisesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises", exercisesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/exercises/{id}", exercisesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	r.HandleFunc("/exercises/{id}", exercisesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	r.HandleFunc("/exercises/{id}", exercisesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")

	sessionHandler := session.NewHandler(s.controller)
	r.HandleFunc("/session", sessionHandler.HandleGetState).Methods("GET", "OPTIONS").Name("session-state")
	if s.liveStatus != nil {
		liveHandler := liveactivity.NewHandler(s.liveStatus)
		r.HandleFunc("/session/live", liveHandler.HandleCurrent).Methods("GET", "OPTIONS").Name("session-live")
	}

	// session commands, rate limited when a limit is set
	commands := r.PathPrefix("/session").Subrouter()
	if s.redisClient != nil && s.config.CommandsPerMinLimit > 0 {
		commands.Use(middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			s.metricsManager,
			"session-commands",
			s.config.CommandsPerMinLimit,
		))
	}
	commands.HandleFunc("/start", sessionHandler.HandleStart).Methods("POST", "OPTIONS").Name("session-start")
	commands.HandleFunc("/sets", sessionHandler.HandleLogSet).Methods("POST", "OPTIONS").Name("session-log-set")
	commands.HandleFunc("/blocks/skip", sessionHandler.HandleSkipBlock).Methods("POST", "OPTIONS").Name("session-skip-block")
	commands.HandleFunc("/blocks/complete", sessionHandler.HandleCompleteBlock).Methods("POST", "OPTIONS").Name("session-complete-block")
	commands.HandleFunc("/blocks/current", sessionHandler.HandleUpdateCurrentBlock).Methods("PUT", "OPTIONS").Name("session-current-block")
	commands.HandleFunc("/rest/skip", sessionHandler.HandleSkipRest).Methods("POST", "OPTIONS").Name("session-skip-rest")
	commands.HandleFunc("/end", sessionHandler.HandleEnd).Methods("POST", "OPTIONS").Name("session-end")
	commands.HandleFunc("/dismiss", sessionHandler.HandleDismiss).Methods("POST", "OPTIONS").Name("session-dismiss")
	commands.HandleFunc("/pause", sessionHandler.HandlePause).Methods("POST", "OPTIONS").Name("session-pause")
	commands.HandleFunc("/minimize", sessionHandler.HandleMinimize).Methods("POST", "OPTIONS").Name("session-minimize")
	commands.HandleFunc("/resume", sessionHandler.HandleResume).Methods("POST", "OPTIONS").Name("session-resume")
	commands.HandleFunc("/summary/close", sessionHandler.HandleCloseSummary).Methods("POST", "OPTIONS").Name("session-close-summary")

	historyHandler := history.NewHandler(s.store)
	r.HandleFunc("/history/workouts", historyHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/history/workouts/{id}", historyHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/history/workouts/{id}", historyHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/history/stats/block-duration", historyHandler.HandleAvgBlockDuration).Methods("GET", "OPTIONS").Name("avg-block-duration")

	eventsHandler := events.NewHandler(s.eventsService)
	r.HandleFunc("/history/events/list/page/{page}/size/{size}", eventsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-events")

	progressHandler := progress.NewHandler(s.tracker, s.stats)
	r.HandleFunc("/progress", progressHandler.HandleList).Methods("GET", "OPTIONS").Name("list-progress")
	r.HandleFunc("/progress", progressHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-progress")
	r.HandleFunc("/progress/{exercise}/history", progressHandler.HandleExerciseHistory).Methods("GET", "OPTIONS").Name("exercise-history")

	mcpServer := gymstatsmcp.NewServer(gymstatsmcp.NewContextService(s.schemaRepo, s.store, s.stats, s.analyzer))
	r.PathPrefix("/mcp").Handler(gymstatsmcp.NewHTTPHandler(mcpServer)).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.clientSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r, nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	// stops the tick loop and waits for the pending store writes and broadcasts
	s.controller.Close()
	log.Debugln("session controller closed")

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
