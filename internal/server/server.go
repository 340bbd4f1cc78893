// Package server wires the Lifecycle Coordinator and its collaborators
// into a running process: config, storage, messaging, the push hub, the
// gin router, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duelcore/matchcore/internal/config"
	"github.com/duelcore/matchcore/internal/coordinator"
	"github.com/duelcore/matchcore/internal/events"
	"github.com/duelcore/matchcore/internal/httpapi"
	"github.com/duelcore/matchcore/internal/httpapi/middleware"
	"github.com/duelcore/matchcore/internal/identity"
	"github.com/duelcore/matchcore/internal/matches"
	"github.com/duelcore/matchcore/internal/pool"
	"github.com/duelcore/matchcore/internal/push"
	"github.com/duelcore/matchcore/internal/ratings"
	"github.com/duelcore/matchcore/pkg/auth/jwt"
	"github.com/duelcore/matchcore/pkg/db/postgres"
	"github.com/duelcore/matchcore/pkg/db/redis"
	"github.com/duelcore/matchcore/pkg/events/rabbitmq"
	"github.com/duelcore/matchcore/pkg/health"
	sharedmw "github.com/duelcore/matchcore/pkg/http/middleware"
	"github.com/duelcore/matchcore/pkg/logging"
	"github.com/duelcore/matchcore/pkg/metrics"
)

// version is reported on the /health endpoint.
const version = "0.1.0"

// Server owns every long-lived collaborator the process needs and the
// gin router built on top of them.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	logger logging.Logger

	pg      *postgres.Client
	redis   *redis.Client
	rabbit  *rabbitmq.Client
	hub     *push.Hub
	httpSrv *http.Server
}

// New builds the gin engine and its global middleware. Collaborators
// that need a live connection are built in Initialize.
func New(cfg *config.Config) *Server {
	logger := logging.Get()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		sharedmw.Recovery(logger),
		sharedmw.Logger(logger),
		sharedmw.CORS(),
	)

	return &Server{cfg: cfg, router: router, logger: logger}
}

// Initialize connects to Postgres, Redis, and RabbitMQ, builds every
// collaborator the Lifecycle Coordinator depends on, and registers the
// HTTP routes.
func (s *Server) Initialize(ctx context.Context) error {
	zapLog, err := logging.NewZap(s.cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build zap logger: %w", err)
	}

	pg, err := postgres.NewClient(postgres.Config{
		Host:     s.cfg.Database.Host,
		Port:     s.cfg.Database.Port,
		Username: s.cfg.Database.User,
		Password: s.cfg.Database.Password,
		Database: s.cfg.Database.Name,
		SSLMode:  s.cfg.Database.SSLMode,
		MaxConns: s.cfg.Database.MaxConns,
		MaxIdle:  s.cfg.Database.MaxIdle,
		Timeout:  time.Hour,
	}, "matchcore", zapLog)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	s.pg = pg

	redisClient, err := redis.NewClient(ctx, redis.Config{
		Host:     s.cfg.Redis.Host,
		Port:     s.cfg.Redis.Port,
		Password: s.cfg.Redis.Password,
		DB:       s.cfg.Redis.DB,
		MaxConns: 10,
		MinIdle:  2,
		Timeout:  5 * time.Second,
	}, "matchcore", zapLog)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.redis = redisClient

	rabbitClient := rabbitmq.NewClient(rabbitmq.Config{
		Host:           s.cfg.RabbitMQ.Host,
		Port:           s.cfg.RabbitMQ.Port,
		Username:       s.cfg.RabbitMQ.Username,
		Password:       s.cfg.RabbitMQ.Password,
		VHost:          s.cfg.RabbitMQ.VHost,
		Reconnect:      true,
		ReconnectDelay: 5 * time.Second,
	}, zapLog)
	if err := rabbitClient.Connect(); err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	if err := rabbitClient.DeclareExchange(s.cfg.RabbitMQ.ExchangeName, "topic", true, false); err != nil {
		return fmt.Errorf("failed to declare finalization exchange: %w", err)
	}
	s.rabbit = rabbitClient

	jwtManager := jwt.NewManager(s.cfg.Auth.JWT, s.logger.Named("jwt"))
	resolver := identity.NewResolver(pg.DB)
	store := matches.NewStore(pg.DB)
	engine := ratings.NewEngine(pg.DB, s.cfg.Match.LockTimeout())
	poolAdapter := pool.NewAdapter(redisClient)
	publisher := events.NewPublisher(rabbitClient, s.cfg.RabbitMQ.ExchangeName, s.logger.Named("events"))
	m := metrics.New(s.cfg.Metrics.ServiceName)

	hub := push.NewHub(s.logger.Named("push"))
	go hub.Run()
	s.hub = hub

	pushHandler := push.NewHandler(hub, jwtManager, resolver, s.logger.Named("push"))
	auth := middleware.NewAuth(jwtManager, resolver)

	c := coordinator.New(store, engine, resolver, poolAdapter, hub, publisher, m, s.logger.Named("coordinator"), s.cfg.Match.RematchWindow())
	h := httpapi.NewHandler(c, s.logger.Named("httpapi"))

	reporter := health.NewReporter("matchcore", health.WithVersion(version))
	reporter.AddCheck(health.NewPostgresChecker(pg.DB, "postgres"))
	reporter.AddCheck(health.NewRedisChecker(redisClient.Client(), "redis"))

	httpapi.SetupRouter(s.router, h, pushHandler, auth, reporter, s.logger)

	return nil
}

// Start listens on the configured address and blocks until a shutdown
// signal arrives or the server fails, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.Timeout.Read,
		WriteTimeout: s.cfg.Server.Timeout.Write,
		IdleTimeout:  s.cfg.Server.Timeout.Idle,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting match lifecycle server", logging.String("address", addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-shutdownCh:
		s.logger.Info("received shutdown signal")
	}

	shutdownTimeout := s.cfg.Server.Timeout.Shutdown
	if shutdownTimeout == 0 {
		shutdownTimeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.hub.Stop()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.closeCollaborators()
	s.logger.Info("server stopped gracefully")
	return nil
}

func (s *Server) closeCollaborators() {
	if s.rabbit != nil {
		if err := s.rabbit.Close(); err != nil {
			s.logger.Error("failed to close rabbitmq connection", logging.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("failed to close redis connection", logging.Error(err))
		}
	}
	if s.pg != nil {
		if err := s.pg.Close(); err != nil {
			s.logger.Error("failed to close postgres connection", logging.Error(err))
		}
	}
}
