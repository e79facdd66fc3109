package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/tourio/travel-reservation-api/internal/cache"
	"github.com/tourio/travel-reservation-api/internal/clock"
	"github.com/tourio/travel-reservation-api/internal/config"
	"github.com/tourio/travel-reservation-api/internal/database"
	"github.com/tourio/travel-reservation-api/internal/handler"
	"github.com/tourio/travel-reservation-api/internal/queue"
	"github.com/tourio/travel-reservation-api/internal/repository"
	"github.com/tourio/travel-reservation-api/internal/router"
	"github.com/tourio/travel-reservation-api/internal/service"
)

func main() {
	// .env is optional; real deployments set environment variables.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional; a nil client disables the tour listing cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, tour cache disabled")
	}
	tourCache := cache.NewTourCache(rdb, cfg.CachePrefix, cfg.CacheTTL)

	tourRepo := repository.NewTourRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	destinationRepo := repository.NewDestinationRepo(db)
	userRepo := repository.NewUserRepo(db)

	clk := clock.NewSystem()
	publisher := queue.NewPublisher(cfg.RabbitURL)

	ledger := service.NewCapacityLedger(tourRepo, tourCache)
	tourSvc := service.NewTourService(tourRepo, ledger, tourCache, clk)
	reservationSvc := service.NewReservationService(reservationRepo, userRepo, tourRepo, ledger, publisher, clk)
	destinationSvc := service.NewDestinationService(destinationRepo, clk)
	revenue := service.NewRevenueAggregator(reservationRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo)
	tourHandler := handler.NewTourHandler(tourSvc)
	reservationHandler := handler.NewReservationHandler(reservationSvc, revenue)
	destinationHandler := handler.NewDestinationHandler(destinationSvc)

	// The confirmation consumer writes confirmed bookings to the audit
	// log; it reconnects on its own if the broker goes away.
	go queue.StartConfirmationConsumer(cfg.RabbitURL)

	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, config.LoadRateLimitConfig())
	router.RegisterPublic(e, tourHandler, destinationHandler)
	router.RegisterAdmin(e, tourHandler, destinationHandler, reservationHandler, cfg.JWTSecret)
	router.RegisterReservations(e, reservationHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
