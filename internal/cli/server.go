package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/auth"
	"eduquiz-service/internal/config"
	"eduquiz-service/internal/infra/memory"
	"eduquiz-service/internal/infra/postgres"
	rediscache "eduquiz-service/internal/infra/redis"
	transport "eduquiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz platform server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = os.Getenv("AUTH_SECRET")
	}
	if secret == "" {
		log.Printf("auth secret not configured, using an insecure development default")
		secret = "eduquiz-dev-secret"
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 8*time.Hour)
	authSvc := auth.NewService(secret, tokenTTL)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)

	var (
		progressionStore app.ProgressionStore
		achievementStore app.AchievementStore
		catalogStore     app.CatalogStore
		userStore        app.UserStore
		feedbackStore    app.FeedbackStore
		source           memory.CatalogSource
	)

	if cfg.Postgres.URL != "" {
		db := openBunDB(cfg.Postgres.URL)
		defer db.Close()
		store := postgres.NewStore(db)
		progressionStore, achievementStore, catalogStore = store, store, store
		userStore, feedbackStore = store, store

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		source = postgres.NewCatalogLoader(pool)
	} else {
		store := memory.NewStore()
		if err := seedStore(ctx, store); err != nil {
			return err
		}
		progressionStore, achievementStore, catalogStore = store, store, store
		userStore, feedbackStore = store, store
		source = store
		log.Printf("postgres not configured, serving from seeded in-memory store")
	}

	var catalog app.QuestionCatalog
	if redisClient != nil {
		catalog = rediscache.NewCatalogCache(redisClient, source, catalogTTL)
	} else {
		catalog = memory.NewCatalogCache(source, catalogTTL)
	}

	feed := app.NewFeed()
	progression := app.NewProgressionService(catalog, progressionStore, achievementStore, feed)
	progress := app.NewProgressService(progressionStore, userStore)
	catalogSvc := app.NewCatalogService(catalogStore, achievementStore)
	users := app.NewUserService(userStore, feedbackStore)

	handler := transport.NewHandler(authSvc, users, progression, progress, catalogSvc, feed)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting eduquiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
