package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/savf/gatekeeper-bot/internal/config"
	"github.com/savf/gatekeeper-bot/internal/database"
	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
	"github.com/savf/gatekeeper-bot/internal/handlers"
	"github.com/savf/gatekeeper-bot/internal/logger"
	"github.com/savf/gatekeeper-bot/internal/metrics"
	"github.com/savf/gatekeeper-bot/internal/middleware"
	"github.com/savf/gatekeeper-bot/internal/services"
	"github.com/savf/gatekeeper-bot/internal/telegram"
	"github.com/savf/gatekeeper-bot/internal/ws"

	_ "github.com/savf/gatekeeper-bot/docs"
)

const shutdownTimeout = 10 * time.Second

// @title           Gatekeeper Bot API
// @version         1.0
// @description     Admin API of the chat gatekeeper: pending challenges, outcome audit log and live events
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log, closer := logger.New(logger.Options{
		Service:   "gatekeeper-bot",
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
	})
	defer closer.Close()

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("gatekeeper stopped")
		closer.Close()
		os.Exit(1)
	}
	log.Info("gatekeeper stopped")
}

func run(cfg *config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	var db *gorm.DB
	if cfg.AuditEnabled() {
		var err error
		if db, err = database.Connect(cfg, log); err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	} else {
		log.Info("DB_HOST not set, outcome audit log disabled")
	}

	client := telegram.NewClient(cfg.Token)
	me, err := client.GetMe(ctx)
	if err != nil {
		return err
	}
	log = log.WithField("bot", me.Username)

	clk := clock.New()
	store, err := gatekeeper.NewStore(cfg.RecentOutcomes, clk.Now)
	if err != nil {
		return err
	}
	machine, err := gatekeeper.NewMachine(gatekeeper.Config{
		Timeout:  cfg.Timeout,
		ChatName: cfg.ChatName,
		Clock:    clk,
	}, metrics.InstrumentGateway(telegram.NewGateway(client), m), store, gatekeeper.NewTimerRegistry(clk), log)
	if err != nil {
		return err
	}
	defer machine.Stop()

	hub := ws.NewHub(log)
	defer hub.Close()
	outcomeService := services.NewOutcomeService(db, log)

	machine.AddListener(m)
	machine.AddListener(hub)
	machine.AddListener(outcomeService)

	updates := telegram.NewUpdateHandler(client, machine, cfg.ChatID, log)
	updates.SetSelfID(me.ID)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", handlers.NewHealthHandler(machine).Health)
	r.GET("/metrics", metrics.Handler(reg))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var receive func(context.Context) error
	if cfg.WebhookBaseURL != "" {
		receiver := telegram.NewWebhookReceiver(client, updates, cfg.WebhookBaseURL, cfg.WebhookSecret, log)
		r.POST(receiver.Path(), receiver.HandleWebhook)
		receive = receiver.Run
		log.Info("receiving updates via webhook")
	} else {
		receive = telegram.NewPoller(client, updates, cfg.PollTimeout, log).Run
		log.Info("WEBHOOK_BASE_URL not set, long polling for updates")
	}

	if cfg.AdminEnabled() {
		authService := services.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret)
		authHandler := handlers.NewAuthHandler(authService)
		challengeHandler := handlers.NewChallengeHandler(store, clk.Now)
		outcomeHandler := handlers.NewOutcomeHandler(outcomeService)
		wsHandler := handlers.NewWSHandler(hub, log)

		r.GET("/ws/events", middleware.JWTAuth(authService), wsHandler.HandleWebSocket)

		api := r.Group("/api/v1")
		{
			api.POST("/auth/login", authHandler.Login)

			admin := api.Group("")
			admin.Use(middleware.JWTAuth(authService))
			{
				admin.GET("/challenges", challengeHandler.ListChallenges)
				admin.GET("/challenges/:member_id", challengeHandler.GetChallenge)
				admin.GET("/outcomes", outcomeHandler.ListOutcomes)
			}
		}
	} else {
		log.Info("ADMIN_USERNAME or JWT_SECRET not set, admin API disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return receive(gctx)
	})
	g.Go(func() error {
		return outcomeService.Run(gctx)
	})

	log.WithFields(logrus.Fields{
		"chat_id": cfg.ChatID,
		"timeout": cfg.Timeout.String(),
	}).Info("gatekeeper running")

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
