// Package newsletterservice собирает сервис рассылки: хранилище, миграции,
// redis для сессий, SMTP-транспорт, очередь отчетов и HTTP-сервер.
package newsletterservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/letterpost/newsletter-service/internal/cache"
	"github.com/letterpost/newsletter-service/internal/config"
	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	"github.com/letterpost/newsletter-service/internal/lib/password"
	"github.com/letterpost/newsletter-service/internal/lib/rabbitmq"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/lib/smtp"
	"github.com/letterpost/newsletter-service/internal/migrations"
	authservice "github.com/letterpost/newsletter-service/internal/services/auth"
	"github.com/letterpost/newsletter-service/internal/services/dispatch"
	senderservice "github.com/letterpost/newsletter-service/internal/services/sender"
	subscriptionservice "github.com/letterpost/newsletter-service/internal/services/subscription"
	"github.com/letterpost/newsletter-service/internal/session"
	"github.com/letterpost/newsletter-service/internal/storage/repository"
)

// App держит собранный сервис и его закрываемые ресурсы.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
}

// New собирает все зависимости сервиса по конфигу.
//
// Очередь отчетов о неудачных отправках опциональна: при пустом rabbit_url
// сервис работает без нее, неудачи остаются в логе и метриках.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}
	if err = bootstrapAdmin(ctx, db, cfg.AdminBootstrap, logger); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	sessions := session.NewRedisStore(cacheRedis, cfg.SessionTTL)
	maker := cookietoken.NewMaker(cfg.CookieSecretKey, cfg.SessionTTL)

	transport := smtp.NewTransport(cfg.SMTPConnection, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	var rabbitConn *amqp.Connection
	var reporter dispatch.FailureReporter
	if cfg.RabbitURL != "" {
		conn, ch, err := rabbitmq.Connect(cfg.RabbitURL)
		if err != nil {
			return nil, err
		}
		publisher, err := rabbitmq.NewPublisher(ch, cfg.SendFailureQueue)
		if err != nil {
			conn.Close()
			return nil, err
		}
		rabbitConn = conn
		reporter = publisher
	} else {
		logger.Warn("rabbit_url is empty, send-failure reports are disabled")
	}

	authService := authservice.NewService(db, logger)
	subscriptionService := subscriptionservice.NewService(db, senderService, cfg.BaseURL, logger)
	dispatcher := dispatch.NewDispatcher(db, senderService, reporter, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Subscription: subscriptionService,
		Dispatcher:   dispatcher,
		Users:        db,
		Sessions:     sessions,
		Maker:        maker,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

// bootstrapAdmin создает стартового оператора, если его еще нет.
// Пустое имя в конфиге отключает создание.
func bootstrapAdmin(ctx context.Context, db *repository.Storage, cfg config.AdminBootstrap, logger *slog.Logger) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	_, err := db.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		return err
	}
	uid, err := db.CreateUser(ctx, cfg.AdminUsername, hash)
	if err != nil {
		return err
	}
	logger.Info("bootstrap admin created",
		slog.String("username", cfg.AdminUsername),
		slog.String("uid", uid))
	return nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if a.rabbitConn != nil {
			if closeErr := a.rabbitConn.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
