package main // Entry point package

import (
	"log"  // Logging library
	"time" // durations for the processor timeout

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/talentolocal/backend/internal/config"     // Internal config loader
	"github.com/talentolocal/backend/internal/database"   // MySQL pool
	"github.com/talentolocal/backend/internal/handler"    // HTTP handlers
	"github.com/talentolocal/backend/internal/mailer"     // SMTP confirmation mail
	"github.com/talentolocal/backend/internal/middleware" // rate limit + cache middleware
	"github.com/talentolocal/backend/internal/processor"  // payments API client
	"github.com/talentolocal/backend/internal/queue"      // approval events + notification consumer
	"github.com/talentolocal/backend/internal/repository" // persistence layer
	"github.com/talentolocal/backend/internal/router"     // route registration
	"github.com/talentolocal/backend/internal/service"    // reconciliation core
)

func main() {
	_ = godotenv.Load() // load .env when present; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	// Repositories over the shared pool.
	reservations := repository.NewReservationRepo(db)
	reviews := repository.NewReviewRepo(db)
	talents := repository.NewTalentRepo(db)
	users := repository.NewUserRepo(db)

	// External collaborators are constructed here and injected, never at
	// package load, so tests can substitute in-memory fakes.
	mp := processor.New(cfg.MPBaseURL, cfg.MPAccessToken, time.Duration(cfg.MPTimeoutSec)*time.Second)
	publisher := queue.NewPublisher(cfg.AMQPURL)
	smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)

	payments := service.NewPaymentService(mp, reservations)
	webhooks := service.NewWebhookService(mp, reservations, publisher)
	reviewSvc := service.NewReviewService(reviews, talents)

	// Background notification consumer, owned by this process and started
	// explicitly (no hidden global loop state).
	consumer := &queue.NotificationConsumer{
		URL:     cfg.AMQPURL,
		Talents: talents,
		Users:   users,
		Sender:  smtp,
	}
	go func() {
		if err := consumer.Start(); err != nil {
			log.Printf("notification-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPayments(e,
		handler.NewPaymentHandler(payments),
		handler.NewWebhookHandler(webhooks),
		handler.NewReviewHandler(reviewSvc),
		rateLimit,
	)
	router.RegisterTalents(e, handler.NewTalentHandler(talents), cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
