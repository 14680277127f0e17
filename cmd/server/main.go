// Avika assessment server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/avika/internal/agent"
	"github.com/ashureev/avika/internal/api"
	"github.com/ashureev/avika/internal/config"
	"github.com/ashureev/avika/internal/dialogue"
	"github.com/ashureev/avika/internal/extractor"
	"github.com/ashureev/avika/internal/identity"
	"github.com/ashureev/avika/internal/llm"
	"github.com/ashureev/avika/internal/logger"
	"github.com/ashureev/avika/internal/middleware"
	"github.com/ashureev/avika/internal/questionnaire"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, _ := zap.NewProduction()
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		bootLog, _ := zap.NewProduction()
		bootLog.Fatal("Failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.IsDevelopment()))

	gen, err := llm.New(cfg.Model(), log)
	if err != nil {
		log.Fatal("Failed to initialize model backend", zap.Error(err))
	}

	conversationLogger, err := agent.NewConversationLogger(agent.ConversationLogConfig{
		Enabled:   cfg.ConversationLog.Enabled,
		Dir:       cfg.ConversationLog.Dir,
		QueueSize: cfg.ConversationLog.QueueSize,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize conversation logger", zap.Error(err))
	}

	// Initialize services.
	svc := agent.NewService(questionnaire.Default(), extractor.New(gen, log), conversationLogger, log, agent.ServiceConfig{
		TTL:             cfg.Session.TTL,
		CleanupInterval: cfg.Session.CleanupInterval,
		Dialogue:        dialogue.Options{PreserveFollowUp: cfg.Dialogue.PreserveFollowUp},
	})
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			log.Warn("Failed to close session service", zap.Error(closeErr))
		}
	}()

	agentHandler := agent.NewHandler(svc,
		agent.NewRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow),
		agent.NewConnections(log),
		log,
		agent.HandlerConfig{
			MaxRequestBodySize: cfg.Server.MaxRequestBodySize,
			OriginPatterns:     cfg.Server.CORSAllowedOrigins,
			IsDev:              cfg.IsDevelopment(),
		},
	)
	defer agentHandler.Close()

	healthHandler := api.NewHealthHandler(svc, llm.ModelName(gen))

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	// Public routes.
	healthHandler.RegisterHealth(r)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(cfg.IsDevelopment()))
		agentHandler.RegisterRoutes(r)
	})

	// Turns wait on the model, so no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server stopped successfully")
}

// requestLogger logs one line per request through zap.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			)
		})
	}
}
