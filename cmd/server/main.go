package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/config"
	"github.com/iliyamo/meeting-room-reservation/internal/database"
	"github.com/iliyamo/meeting-room-reservation/internal/handler"
	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/policy"
	"github.com/iliyamo/meeting-room-reservation/internal/queue"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
	"github.com/iliyamo/meeting-room-reservation/internal/router"
	"github.com/iliyamo/meeting-room-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: without it the response cache and rate limiter
	// disable themselves and the invalidator becomes a no-op.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	bookings := repository.NewBookingRepo(db)
	rooms := repository.NewRoomRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	reviews := repository.NewReviewRepo(db)

	gate := policy.NewRoleGate()

	// Keep the interface nil when publishing is disabled so the service's
	// nil check works.
	var notifier service.Notifier
	if n := service.NewQueueNotifier(cfg.RabbitURL); n != nil {
		notifier = n
	} else {
		log.Printf("rabbitmq url not set, booking events disabled")
	}
	svc := service.NewBookingService(bookings, rooms, users, gate, notifier)

	inv := middleware.NewInvalidator(cacheCfg, rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	bookingH := handler.NewBookingHandler(svc, inv)
	roomH := handler.NewRoomHandler(rooms, inv)
	reviewH := handler.NewReviewHandler(reviews, rooms, gate, inv)
	opsH := handler.NewOpsHandler(svc, cfg.BookingLogPath)

	if cfg.RabbitURL != "" {
		go queue.StartBookingConsumer(cfg.RabbitURL, cfg.BookingLogPath)
	}

	e := echo.New()
	e.Use(middleware.RequestAudit())
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, roomH, bookingH, reviewH, middleware.NewRedisCache(cacheCfg, rdb))
	router.RegisterBookings(e, bookingH, reviewH, cfg.JWTSecret)
	router.RegisterOps(e, roomH, reviewH, opsH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
