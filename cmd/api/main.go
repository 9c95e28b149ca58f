package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/BruksfildServices01/turnos/internal/audit"
	"github.com/BruksfildServices01/turnos/internal/billing"
	"github.com/BruksfildServices01/turnos/internal/config"
	dbpkg "github.com/BruksfildServices01/turnos/internal/db"
	"github.com/BruksfildServices01/turnos/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/turnos/internal/infra/repository"
	"github.com/BruksfildServices01/turnos/internal/infra/storage"
	"github.com/BruksfildServices01/turnos/internal/logging"
	"github.com/BruksfildServices01/turnos/internal/metrics"
	"github.com/BruksfildServices01/turnos/internal/notify"
	"github.com/BruksfildServices01/turnos/internal/routes"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		log.Error("redis unavailable", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	auditDispatcher := audit.NewDispatcher(audit.New(db), cfg.AuditQueueSize, log)
	defer auditDispatcher.Close()

	sender := notify.NewSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, log)
	notifyDispatcher := notify.NewDispatcher(sender, cfg.NotifyQueueSize, log)
	defer notifyDispatcher.Close()

	var logos *storage.Store
	if cfg.StorageEnabled() {
		logos = storage.NewStore(storage.NewS3Client(cfg), cfg.StorageBucket, cfg.StoragePublicURL, log)
	} else {
		log.Warn("object storage disabled, logo uploads return 503")
	}

	billingService, err := billing.NewMercadoPago(
		cfg.MercadoPagoAccessToken,
		infraRepo.NewBusinessGormRepository(db),
		billing.URLs{
			Success:      cfg.BillingSuccessURL,
			Failure:      cfg.BillingFailureURL,
			Notification: cfg.BillingNotificationURL,
		},
		log,
	)
	if err != nil {
		log.Error("mercado pago setup failed", "error", err)
		os.Exit(1)
	}
	if billingService == nil {
		log.Warn("billing disabled, checkout returns 503")
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Redis:   rdb,
		Config:  cfg,
		Logger:  log,
		Metrics: m,
		Audit:   auditDispatcher,
		Notify:  notifyDispatcher,
		Logos:   logos,
		Billing: billingService,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
