package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"genomics-annotation-service/internal/config"
	awsinfra "genomics-annotation-service/internal/infra/aws"
	pg "genomics-annotation-service/internal/infra/db/postgres"
	"genomics-annotation-service/internal/infra/engine"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"
	red "genomics-annotation-service/internal/infra/redis"
	"genomics-annotation-service/internal/infra/sched"
	"genomics-annotation-service/internal/infra/web"
	"genomics-annotation-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, dev login)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- AWS clients ----
	clients, err := awsinfra.NewClients(ctx, cfg.AWS.Region)
	if err != nil {
		log.Fatalf("aws: %v", err)
	}

	// ---- Postgres (accounts) ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	// ---- Repositories ----
	jobRepo := awsinfra.NewDynamoJobRepo(clients.DynamoDB, cfg.Table.Name, cfg.Table.UserIndex)
	profileRepo := pg.NewProfileRepoCacheDecorator(pg.NewPostgresProfileRepo(pool), redisClient, cfg.Redis.TTL)

	// ---- Storage ----
	hot := awsinfra.NewS3Store(clients.S3)
	cold := awsinfra.NewGlacierStore(clients.Glacier, cfg.Glacier.Vault, cfg.Topics.ThawARN)

	// ---- Queues and topics ----
	submissionsQ := awsinfra.NewSQSChannel(clients.SQS, cfg.Queues.SubmissionsURL, cfg.Queues.WaitSeconds)
	archiveQ := awsinfra.NewSQSChannel(clients.SQS, cfg.Queues.ArchiveURL, cfg.Queues.WaitSeconds)
	restoreQ := awsinfra.NewSQSChannel(clients.SQS, cfg.Queues.RestoreURL, cfg.Queues.WaitSeconds)
	thawQ := awsinfra.NewSQSChannel(clients.SQS, cfg.Queues.ThawURL, cfg.Queues.WaitSeconds)
	quarantineQ := awsinfra.NewSQSChannel(clients.SQS, cfg.Queues.QuarantineURL, cfg.Queues.WaitSeconds)

	requestsBus := awsinfra.NewSNSBus(clients.SNS, cfg.Topics.JobRequestsARN)
	restoreStartBus := awsinfra.NewSNSBus(clients.SNS, cfg.Topics.RestoreStartARN)

	// ---- Annotator ----
	launcher := engine.NewProcessLauncher(cfg.Engine.Wrapper, logger)

	// ---- Use cases ----
	ingestUC := usecase.NewIngestUseCase(jobRepo, hot, launcher, cfg.Storage.ScratchDir, logger)
	archiveUC := usecase.NewArchiveUseCase(jobRepo, profileRepo, hot, cold, logger)
	restoreUC := usecase.NewRestoreUseCase(jobRepo, cold, logger)
	thawUC := usecase.NewThawUseCase(jobRepo, hot, cold, logger)
	submitUC := usecase.NewSubmitUseCase(jobRepo, requestsBus, cfg.Storage.InputsBucket, cfg.Storage.InputsPrefix, logger)
	upgradeUC := usecase.NewUpgradeUseCase(profileRepo, restoreStartBus, logger)

	// ---- Workers ----
	maxReceive := cfg.Queues.MaxReceive
	workers := []*sched.Consumer{
		sched.NewIngestWorker(submissionsQ, quarantineQ, maxReceive, ingestUC, logger),
		sched.NewArchivalWorker(archiveQ, quarantineQ, maxReceive, archiveUC, logger),
		sched.NewRestoreInitiator(restoreQ, quarantineQ, maxReceive, restoreUC, logger),
		sched.NewThawWorker(thawQ, quarantineQ, maxReceive, thawUC, logger),
	}
	for _, w := range workers {
		w := w
		go func() { _ = w.Run(ctx) }()
	}

	// ---- Web API ----
	auth := web.NewAuthManager(cfg.Web.JWTSecret, cfg.Web.SecureCookie, cfg.Web.SessionTTL)
	srv := web.NewServer(submitUC, upgradeUC, profileRepo, auth, cfg.Runtime.Dev, logger)
	webServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", webServer.Addr).Msg("web API listening")
		if err := webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("web server error")
		}
	}()

	// ---- Admin (metrics) ----
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminMux}
	go func() {
		logger.Info().Str("addr", adminServer.Addr).Msg("admin listening")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = webServer.Shutdown(shutdownCtx)
	_ = adminServer.Shutdown(shutdownCtx)
}
