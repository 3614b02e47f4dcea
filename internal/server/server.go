package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farellandr/ticketdesk/config"
	"github.com/farellandr/ticketdesk/internal/cache"
	"github.com/farellandr/ticketdesk/internal/clock"
	"github.com/farellandr/ticketdesk/internal/handlers"
	"github.com/farellandr/ticketdesk/internal/middleware"
	"github.com/farellandr/ticketdesk/internal/queue"
	"github.com/farellandr/ticketdesk/internal/service"
	"github.com/farellandr/ticketdesk/internal/store"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	opts := []service.Option{service.WithLogger(logger)}
	if rdb := config.InitRedis(cfg); rdb != nil {
		defer rdb.Close()
		opts = append(opts, service.WithCache(cache.NewEventCache(rdb, cfg.CacheTTL, logger)))
		logger.Info("event view cache enabled", "addr", cfg.RedisAddr)
	} else if cfg.RedisAddr != "" {
		logger.Warn("redis unavailable, running without event view cache", "addr", cfg.RedisAddr)
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := queue.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.Warn("rabbitmq unavailable, domain events disabled", "error", err)
		} else {
			defer publisher.Close()
			opts = append(opts, service.WithPublisher(publisher))
		}
	}

	svc := service.New(st, clock.NewSystem(loc), opts...)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := NewRouter(svc, cfg.SecretKey, logger)

	return serve(r, cfg.Port, logger)
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DBDriver == config.DriverMemory {
		return store.NewMemoryStore(), nil
	}
	db, err := config.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(db), nil
}

// NewRouter wires the ticketing routes onto a fresh gin engine.
func NewRouter(svc *service.Service, qrSecret string, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	setupRoutes(r, svc, qrSecret)
	return r
}

func setupRoutes(r *gin.Engine, svc *service.Service, qrSecret string) {
	r.GET("/", handlers.Index)
	r.GET("/health", handlers.Health)

	api := r.Group("")
	api.Use(middleware.TicketingMiddleware(svc, qrSecret))
	{
		events := api.Group("/events")
		{
			events.POST("", handlers.CreateEvent)
			events.GET("", handlers.ListEvents)
			events.GET("/:id", handlers.GetEvent)
			events.PUT("/:id", handlers.UpdateEvent)
			events.DELETE("/:id", handlers.DeleteEvent)
			events.POST("/:id/sell", handlers.SellTicket)
		}

		tickets := api.Group("/tickets")
		{
			tickets.POST("/redeem", handlers.RedeemTicketQR)
			tickets.GET("/:id", handlers.GetTicket)
			tickets.GET("/:id/qr", handlers.GetTicketQR)
			tickets.POST("/:id/redeem", handlers.RedeemTicket)
		}
	}
}

func serve(handler http.Handler, port string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("server listening", "port", port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
