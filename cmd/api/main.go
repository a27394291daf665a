package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/auth"
	"github.com/xavierca1/leasing-crm/internal/config"
	"github.com/xavierca1/leasing-crm/internal/infra/database"
	"github.com/xavierca1/leasing-crm/internal/infra/http/handlers"
	"github.com/xavierca1/leasing-crm/internal/infra/http/middleware"
	"github.com/xavierca1/leasing-crm/internal/infra/lock"
	"github.com/xavierca1/leasing-crm/internal/infra/mail"
	"github.com/xavierca1/leasing-crm/internal/infra/queue"
	"github.com/xavierca1/leasing-crm/internal/logger"
	"github.com/xavierca1/leasing-crm/internal/usecase"
)

const (
	serviceName = "leasing-crm"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	// 1. Repositories
	prospectRepo := database.NewProspectRepository(db, log)
	leadRepo := database.NewLeadRepository(db, log)
	claimStore := database.NewClaimStore(db, log)
	directory := database.NewEmployeeDirectory(db, log)
	commentRepo := database.NewCommentRepository(db, log)
	fileRepo := database.NewFileRepository(db, log)
	planRepo := database.NewSpacePlanRepository(db, log)
	mafRepo := database.NewMAFRepository(db, log)
	roleRepo := database.NewRoleRepository(db, log)
	catalogRepo := database.NewCatalogRepository(db, log)

	// 2. Claim lock
	var (
		locker      usecase.Locker = lock.NewKeyedMutex()
		redisPinger handlers.Pinger
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer client.Close()

		redisLocker := lock.NewRedisLocker(client, cfg.ClaimLockTTL, log)
		locker, redisPinger = redisLocker, redisLocker
		log.Info("claim lock backed by redis")
	} else {
		log.Warn("REDIS_URL not set, claim lock is process-local")
	}

	// 3. Realtime broker and mail worker
	var (
		notifier usecase.Notifier
		broker   handlers.Broker
	)
	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Warn("rabbitmq unavailable, realtime events disabled", zap.Error(err))
	} else {
		defer rabbitMQ.Close()
		notifier = queue.NewProducer(rabbitMQ.Ch, log)
		broker = rabbitMQ

		if cfg.MailEnabled() {
			workerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				return err
			}
			if err := queue.DeclareMailQueue(workerCh); err != nil {
				return fmt.Errorf("declare claim mail queue: %w", err)
			}
			sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom)
			worker := queue.NewWorker(workerCh, sender, log)
			go func() {
				if err := worker.Start(ctx, queue.ClaimMailQueue); err != nil {
					log.Error("claim mail worker stopped", zap.Error(err))
				}
			}()
		}
	}

	// 4. Use cases
	claimUC := usecase.NewClaimLeadUseCase(claimStore, directory, locker, notifier, middleware.ClaimMetrics{}, log, cfg.ClaimTimeout)
	removeUC := usecase.NewRemoveLeadUseCase(prospectRepo, log)
	visitingUC := usecase.NewVisitingLeadsUseCase(prospectRepo)
	prospectUC := usecase.NewProspectUseCase(leadRepo, commentRepo, fileRepo, log)
	clientUC := usecase.NewClientUseCase(leadRepo, fileRepo, log)
	proposalUC := usecase.NewProposalUseCase(leadRepo, catalogRepo, log)
	planUC := usecase.NewSpacePlanUseCase(planRepo, log)
	mafUC := usecase.NewMAFUseCase(leadRepo, mafRepo)
	roleUC := usecase.NewRoleUseCase(roleRepo, log)

	// 5. Handlers
	limiter := handlers.NewRateLimiter(cfg.ClaimRateLimit, cfg.ClaimRateWindow)
	defer limiter.Stop()

	router := newRouter(routes{
		Health:       handlers.NewHealthHandler(db, broker, redisPinger, version),
		VisitingLead: handlers.NewVisitingLeadHandler(claimUC, removeUC, visitingUC, limiter, log),
		Prospect:     handlers.NewProspectHandler(prospectUC, log),
		Client:       handlers.NewClientHandler(clientUC, log),
		Proposal:     handlers.NewProposalHandler(proposalUC, log),
		SpacePlan:    handlers.NewSpacePlanHandler(planUC, log),
		Account:      handlers.NewAccountHandler(mafUC, roleUC, log),
	}, auth.NewAuthenticator(cfg.JWTSecret), cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
