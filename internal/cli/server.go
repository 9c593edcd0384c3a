package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizrank-service/internal/app"
	"quizrank-service/internal/config"
	"quizrank-service/internal/domain"
	"quizrank-service/internal/infra/memory"
	"quizrank-service/internal/infra/postgres"
	infraredis "quizrank-service/internal/infra/redis"
	"quizrank-service/internal/logger"
	"quizrank-service/internal/metrics"
	transport "quizrank-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the ranking server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	cal := app.NewCalendar(loc)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var (
		store  app.Store
		loader memory.QuizLoader
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
		pgStore := postgres.NewStore(postgres.Open(cfg.Postgres.URL))
		defer pgStore.Close()
		store = pgStore

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = postgres.NewQuizLoader(pool)
	} else {
		log.Warn("postgres not configured, serving in-memory sample data")
		memStore := memory.NewStore()
		for _, u := range sampleUsers() {
			memStore.PutUser(u)
		}
		store = memStore
		loader = memory.NewStaticQuizLoader(sampleQuizzes())
	}

	hub := app.NewHub()
	var events app.EventPublisher = hub

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		quizRepo = infraredis.NewQuizRepository(redisClient, loader, quizTTL)

		// Solves go to Redis; every instance, this one included, relays them into its hub.
		bus := infraredis.NewEventBus(redisClient, cfg.EventChannel(), log)
		events = bus
		go func() {
			if err := bus.Forward(ctx, hub); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("solve event relay stopped", zap.Error(err))
			}
		}()
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	solves := app.NewSolveService(store, quizRepo, events, cal, log, m)
	boards := app.NewLeaderboardService(store, cal, log, m)
	profiles := app.NewProfileService(store, cal)

	router := transport.NewRouter(ctx, transport.RouterDeps{
		Solves:       solves,
		Leaderboards: boards,
		Profiles:     profiles,
		Hub:          hub,
		Log:          log,
		Metrics:      m,
		Gatherer:     reg,
		SolveRate:    cfg.RateLimit.PerSecond,
		SolveBurst:   cfg.RateLimit.Burst,
		TrustProxy:   cfg.RateLimit.TrustProxy,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quizrank service", zap.String("addr", server.Addr), zap.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// sampleUsers and sampleQuizzes seed the in-memory mode used for local runs without Postgres.
func sampleUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "Alice", College: "MIT"},
		{ID: 2, Name: "Bob", College: "MIT"},
		{ID: 3, Name: "Carol", College: "CMU"},
	}
}

func sampleQuizzes() map[int64]domain.Quiz {
	return map[int64]domain.Quiz{
		1: {
			ID:            1,
			Topic:         "math",
			Question:      "What is 2 + 2?",
			Options:       []string{"3", "4", "5", "6"},
			CorrectAnswer: "4",
			Explanation:   "2 + 2 = 4",
		},
		2: {
			ID:            2,
			Topic:         "go",
			Question:      "Which keyword starts a goroutine?",
			Options:       []string{"async", "go", "spawn", "thread"},
			CorrectAnswer: "go",
			Explanation:   "The go statement runs a function call in a new goroutine.",
		},
	}
}
