package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/booking"
	"github.com/roamstay/spot-booking/internal/config"
	"github.com/roamstay/spot-booking/internal/database"
	"github.com/roamstay/spot-booking/internal/handler"
	"github.com/roamstay/spot-booking/internal/jobs"
	appmw "github.com/roamstay/spot-booking/internal/middleware"
	"github.com/roamstay/spot-booking/internal/queue"
	"github.com/roamstay/spot-booking/internal/repository"
	"github.com/roamstay/spot-booking/internal/router"
	"github.com/roamstay/spot-booking/internal/validator"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; cache and limiter degrade to no-ops

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	spots := repository.NewSpotRepo(db)
	spotImages := repository.NewSpotImageRepo(db)
	reviews := repository.NewReviewRepo(db)
	reviewImages := repository.NewReviewImageRepo(db)
	bookings := repository.NewBookingRepo(db)

	guard := booking.NewGuard(bookings)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	spotH := handler.NewSpotHandler(spots)
	spotImageH := handler.NewSpotImageHandler(spots, spotImages)
	reviewH := handler.NewReviewHandler(spots, reviews)
	reviewImageH := handler.NewReviewImageHandler(reviews, reviewImages)
	bookingH := handler.NewBookingHandler(guard, bookings, spots, users)
	publicH := handler.NewPublicHandler(spots, reviews)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.Use(appmw.RequestLogger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, config.LoadCacheConfig(), rdb)
	router.RegisterSpots(e, spotH, spotImageH, cfg.JWTSecret)
	router.RegisterReviews(e, reviewH, reviewImageH, cfg.JWTSecret)
	router.RegisterBookings(e, bookingH, config.LoadRateLimitConfig(), rdb, cfg.JWTSecret)

	// Background consumer for booking events (audit log + emails).
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// Nightly refresh-token purge.
	cronJobs := jobs.StartTokenCleanup(tokens)
	defer cronJobs.Stop()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
