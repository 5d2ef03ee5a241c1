package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/lumenhud/lumen/backend/internal/api/http"
	"github.com/lumenhud/lumen/backend/internal/api/middleware"
	"github.com/lumenhud/lumen/backend/internal/api/ws"
	"github.com/lumenhud/lumen/backend/internal/domain/classify"
	"github.com/lumenhud/lumen/backend/internal/domain/flow"
	"github.com/lumenhud/lumen/backend/internal/domain/generate"
	"github.com/lumenhud/lumen/backend/internal/domain/pipeline"
	"github.com/lumenhud/lumen/backend/internal/domain/slots"
	"github.com/lumenhud/lumen/backend/internal/domain/tier"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/config"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/logging"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/monitoring"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router       *gin.Engine
	httpServer   *http.Server
	allocator    *slots.Allocator
	flowStore    *flow.Store
	pipeline     *pipeline.Pipeline
	stopPipeline func()
	logger       *logging.Logger
	config       *config.Config
	metrics      *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing Lumen HUD Server",
		zap.String("port", cfg.Server.Port),
		zap.Duration("settle_delay", cfg.Flow.SettleDelay),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	// Build the tier registry from configuration
	registry, err := tierRegistry(cfg.Tiers)
	if err != nil {
		return nil, fmt.Errorf("invalid tier configuration: %w", err)
	}

	// Core domain components
	allocator := slots.New(registry).
		WithMetrics(metrics).
		WithLogger(logger.WithComponent("slots"))

	energySource := flow.NewSimulatedSource(time.Now().UnixNano())
	flowStore := flow.New(energySource, cfg.Flow.SettleDelay).
		WithMetrics(metrics).
		WithLogger(logger.WithComponent("flow"))

	classifier := classify.New().
		WithMetrics(metrics).
		WithLogger(logger.WithComponent("classify"))

	pipe := pipeline.New(flowStore, classifier, generate.NewDeclarative(), allocator).
		WithLogger(logger.WithComponent("pipeline"))
	stopPipeline := pipe.Start()

	// HTTP surface
	handlers := apihttp.NewHandlers(allocator, flowStore, pipe, metrics)
	wsHandler := ws.NewHandler(allocator, flowStore, metrics, logger.WithComponent("ws"))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Health and observability
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Slot allocator
	router.POST("/spawn", handlers.Spawn)
	router.GET("/snapshot", handlers.GetSnapshot)
	router.POST("/entries/:id/touch", handlers.Touch)
	router.POST("/entries/:id/promote", handlers.Promote)
	router.DELETE("/entries/:id", handlers.Evict)
	router.POST("/prune", handlers.Prune)

	// Flow state
	router.GET("/flow", handlers.GetFlow)
	router.POST("/flow/mode", handlers.SetMode)
	router.POST("/flow/energy", handlers.UpdateEnergy)

	// Classification pipeline
	router.POST("/classify", handlers.Classify)

	// Streaming
	router.GET("/stream", wsHandler.HandleConnection)

	return &Server{
		router:       router,
		allocator:    allocator,
		flowStore:    flowStore,
		pipeline:     pipe,
		stopPipeline: stopPipeline,
		logger:       logger,
		config:       cfg,
		metrics:      metrics,
	}, nil
}

// Allocator exposes the slot allocator for the maintenance scheduler.
func (s *Server) Allocator() *slots.Allocator {
	return s.allocator
}

// FlowStore exposes the flow state store for the maintenance scheduler.
func (s *Server) FlowStore() *flow.Store {
	return s.flowStore
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.logger.Info("Server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	s.stopPipeline()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}

	s.logger.Info("Server stopped")
	return s.logger.Sync()
}

// tierRegistry converts the config maps into a validated tier registry.
func tierRegistry(cfg config.TierConfig) (*tier.Registry, error) {
	configs := make(map[types.Tier]tier.Config, len(cfg.Capacities))
	for name, capacity := range cfg.Capacities {
		tc := tier.Config{Capacity: capacity}
		if capacity < 0 {
			tc.Capacity = tier.Unbounded
		}
		if decay, ok := cfg.Decay[name]; ok {
			tc.DefaultDecay = decay
		}
		configs[types.Tier(name)] = tc
	}
	return tier.New(configs)
}
