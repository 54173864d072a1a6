package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/homestay-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/homestay-booking/internal/database"   // MySQL connection setup
	"github.com/iliyamo/homestay-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/homestay-booking/internal/middleware" // rate limiting and response cache
	"github.com/iliyamo/homestay-booking/internal/queue"      // event consumer
	"github.com/iliyamo/homestay-booking/internal/repository" // data access layer
	"github.com/iliyamo/homestay-booking/internal/router"     // Internal router setup
	"github.com/iliyamo/homestay-booking/internal/service"    // mailer
	"github.com/iliyamo/homestay-booking/internal/storage"    // object storage
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}
	if store == nil {
		log.Println("object storage not configured; upload endpoints disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	listings := repository.NewListingRepo(db)
	bookings := repository.NewBookingRepo(db)
	payouts := repository.NewPayoutRepo(db, bookings)
	notifications := repository.NewNotificationRepo(db)
	conversations := repository.NewConversationRepo(db)
	reviews := repository.NewReviewRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	verifications := repository.NewVerificationRepo(db)

	// Event consumer: folds broker events into notifications and email.
	mailer := service.NewMailer(cfg.Mail)
	consumer := &queue.Consumer{Notifications: notifications, Users: users, Mail: mailer}
	go consumer.Start()

	e := echo.New()
	e.Validator = handler.NewValidator()

	// Redis backs both the token-bucket rate limiter and the browse cache.
	var browseCache echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		browseCache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	} else {
		log.Println("redis unavailable; rate limiting and browse cache disabled")
	}

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens, store)
	publicH := handler.NewPublicHandler(listings, bookings, reviews)
	guestH := handler.NewGuestHandler(listings, bookings)
	reviewH := handler.NewReviewHandler(reviews, bookings)
	favH := handler.NewFavoriteHandler(favorites, listings)
	hostListingH := handler.NewHostListingHandler(listings, store)
	hostBookingH := handler.NewHostBookingHandler(listings, bookings)
	hostPayoutH := handler.NewHostPayoutHandler(bookings, payouts)
	adminH := handler.NewAdminHandler(db, payouts, verifications, users, listings, bookings, store)
	notifH := handler.NewNotificationHandler(notifications)
	verifH := handler.NewVerificationHandler(verifications, store)
	chatH := handler.NewChatHandler(conversations, listings)

	// Routes.
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, browseCache)
	router.RegisterGuest(e, guestH, reviewH, favH, cfg.JWTSecret)
	router.RegisterBookingDetail(e, guestH, cfg.JWTSecret)
	router.RegisterHost(e, hostListingH, hostBookingH, hostPayoutH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterShared(e, notifH, verifH, chatH, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
