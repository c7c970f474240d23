package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/eaglebank/loan-service/internal/command"
	"github.com/eaglebank/loan-service/internal/graph"
	"github.com/eaglebank/loan-service/internal/handler"
	"github.com/eaglebank/loan-service/internal/query"
	"github.com/eaglebank/loan-service/internal/repository"
	"github.com/eaglebank/loan-service/shared/events"
	"github.com/eaglebank/loan-service/shared/middleware"
	redisClient "github.com/eaglebank/loan-service/shared/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	cfg := LoadConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the loan API.

Examples:
  loan-service serve
  loan-service serve --port 9000 --redis-addr localhost:6379
  loan-service serve --fixtures ./loans.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	cmd.Flags().StringVar(&cfg.GinMode, "gin-mode", cfg.GinMode, "gin mode (debug, release, test)")
	cmd.Flags().StringSliceVar(&cfg.AllowedOrigins, "cors-origins", cfg.AllowedOrigins, "origins allowed by CORS")
	cmd.Flags().StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for payment events (empty disables events)")
	cmd.Flags().IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database")
	cmd.Flags().StringVar(&cfg.FixturesPath, "fixtures", cfg.FixturesPath, "YAML fixture file (empty uses the built-in fixtures)")
	cmd.Flags().BoolVar(&cfg.Seed, "seed", cfg.Seed, "seed the store with fixtures at startup")

	return cmd
}

func runServe(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	store := repository.NewStore()
	if cfg.Seed {
		if err := seedStore(store, cfg.FixturesPath); err != nil {
			return err
		}
	}

	var publisher command.EventPublisher = events.NopPublisher{}
	if cfg.EventsEnabled() {
		redis, err := redisClient.NewClient(redisClient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer redis.Close()
		publisher = events.NewPublisher(redis.Client)
		log.Printf("Publishing payment events to %s on %s", events.LoanEventsStream, cfg.RedisAddr)
	}

	router, err := newRouter(cfg, store, publisher)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Loan service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func seedStore(store *repository.Store, path string) error {
	var (
		fixtures *repository.Fixtures
		err      error
	)
	if path == "" {
		fixtures, err = repository.DefaultFixtures()
	} else {
		fixtures, err = repository.LoadFixtures(path)
	}
	if err != nil {
		return err
	}
	if err := store.Seed(fixtures); err != nil {
		return err
	}
	log.Printf("Seeded %d loans and %d payments", len(store.Loans()), len(store.Payments()))
	return nil
}

// newRouter wires the CQRS services onto a gin engine.
func newRouter(cfg Config, store *repository.Store, publisher command.EventPublisher) (*gin.Engine, error) {
	querySvc := query.NewLoanQueryService(store)
	commandSvc := command.NewPaymentCommandService(store, publisher)

	schema, err := graph.NewSchema(querySvc)
	if err != nil {
		return nil, err
	}
	loanHandler := handler.NewLoanHandler(commandSvc)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/", loanHandler.Home)
	router.GET("/health", loanHandler.Health)
	router.POST("/loans/:loan_id/payments", loanHandler.CreatePayment)

	graphqlHandler := graph.NewHandler(schema, cfg.GinMode == gin.DebugMode)
	router.GET("/graphql", graphqlHandler)
	router.POST("/graphql", graphqlHandler)

	return router, nil
}
