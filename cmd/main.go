package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"project_armada/internal/config"
	"project_armada/internal/entities"
	"project_armada/internal/infrastructure"
	"project_armada/internal/interfaces"
	transport "project_armada/internal/interfaces/http"
	"project_armada/internal/logger"
	"project_armada/internal/repository"
	"project_armada/internal/usecases"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := infrastructure.NewMetrics(reg)

	// Postgres is optional: usage stats and the postgres row source need it
	var pgClient *infrastructure.PostgresClient
	if cfg.DatabaseURL != "" {
		pgClient, err = infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to database, usage stats disabled", zap.Error(err))
			pgClient = nil
		} else {
			defer pgClient.Close()
		}
	}

	states, closeStates, err := openStateStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open state store", zap.String("backend", cfg.StateBackend), zap.Error(err))
	}
	defer closeStates()

	rows := openRowSource(ctx, cfg, pgClient, log)
	engine := usecases.NewDialogueEngine(rows, states, metrics, log.Named("dialogue"))

	limiter := infrastructure.NewMessageRateLimiter(cfg.RateLimit, cfg.RateBurst)
	go limiter.RunCleanup(ctx, 5*time.Minute)

	deps := transport.Dependencies{
		Engine:   engine,
		Limiter:  limiter,
		Metrics:  metrics,
		Gatherer: reg,
		Status: transport.Status{
			RowsConfigured: engine.RowsConfigured(),
			StateBackend:   cfg.StateBackend,
		},
		Logger: log.Named("http"),
	}
	if sessions, ok := states.(*infrastructure.SessionManager); ok {
		deps.Sessions = sessions
	}
	if pgClient != nil {
		deps.Usage = repository.NewUsageRepository(pgClient.Pool)
	}

	var telegramClient *infrastructure.TelegramClient
	if cfg.BotConfigured() {
		telegramClient, err = infrastructure.NewTelegramClient(cfg.BotToken, log.Named("telegram"))
		if err != nil {
			log.Error("telegram disabled", zap.Error(err))
			telegramClient = nil
		} else {
			log.Info("telegram bot connected", zap.String("bot", telegramClient.Bot.Self.UserName))
			deps.Messenger = telegramClient
			deps.Status.BotConfigured = true
		}
	} else {
		log.Warn("BOT_TOKEN is not set, webhook will answer 500 until it is configured")
	}

	handler := transport.NewHandler(deps)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	transport.SetupRoutes(r, handler, cfg.WebhookSecret)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("mode", cfg.BotMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	if telegramClient != nil {
		switch cfg.BotMode {
		case config.ModePolling:
			if err := telegramClient.DeleteWebhook(); err != nil {
				log.Warn("failed to delete webhook", zap.Error(err))
			}
			go telegramClient.StartPolling(ctx, func(ctx context.Context, update tgbotapi.Update) {
				// errors are logged by the handler; polling has no response to fail
				_ = handler.HandleUpdate(ctx, update)
			})
		default:
			if cfg.WebhookURL != "" {
				if err := telegramClient.SetWebhook(cfg.WebhookURL, cfg.WebhookSecret); err != nil {
					log.Error("failed to register webhook", zap.Error(err))
				}
			}
		}
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("stopped")
}

// openStateStore builds the configured conversation state backend and its closer
func openStateStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (interfaces.StateStore, func(), error) {
	switch cfg.StateBackend {
	case config.StateRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return repository.NewRedisStateStore(rdb, cfg.SessionTTL), func() { rdb.Close() }, nil

	case config.StateBolt:
		if err := ensureDir(cfg.BoltPath); err != nil {
			return nil, nil, err
		}
		store, err := repository.NewBoltStateStore(cfg.BoltPath, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	case config.StateSQLite:
		if err := ensureDir(cfg.SQLitePath); err != nil {
			return nil, nil, err
		}
		store, err := repository.NewSQLiteStateStore(cfg.SQLitePath, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		go func() {
			ticker := time.NewTicker(30 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n, err := store.Purge(ctx); err != nil {
						log.Warn("failed to purge sessions", zap.Error(err))
					} else if n > 0 {
						log.Debug("purged idle sessions", zap.Int64("count", n))
					}
				}
			}
		}()
		return store, func() { store.Close() }, nil

	default:
		sessions := infrastructure.NewSessionManager(cfg.SessionTTL)
		go sessions.RunCleanup(ctx, 10*time.Minute)
		return sessions, func() {}, nil
	}
}

// openRowSource returns nil when the source is not configured or cannot be built,
// which makes lookups answer with the not-configured reply.
func openRowSource(ctx context.Context, cfg *config.Config, pgClient *infrastructure.PostgresClient, log *zap.Logger) interfaces.RowSource {
	var pool *pgxpool.Pool
	if pgClient != nil {
		pool = pgClient.Pool
	}

	rows, err := repository.NewRowSource(ctx, cfg, pool)
	if entities.IsKind(err, entities.KindConfigurationMissing) {
		log.Warn("row source not configured, lookups disabled",
			zap.String("source", cfg.RowSource),
			zap.String("missing", strings.Join(cfg.MissingRowSettings(), ", ")),
			zap.Error(err),
		)
		return nil
	}
	if err != nil {
		log.Error("failed to create row source, lookups disabled", zap.String("source", cfg.RowSource), zap.Error(err))
		return nil
	}
	log.Info("row source ready", zap.String("source", cfg.RowSource))
	return rows
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
