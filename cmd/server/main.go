package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/config"
	"github.com/travellyhq/travelly-server/internal/database"
	"github.com/travellyhq/travelly-server/internal/handler"
	appmw "github.com/travellyhq/travelly-server/internal/middleware"
	"github.com/travellyhq/travelly-server/internal/queue"
	"github.com/travellyhq/travelly-server/internal/repository"
	"github.com/travellyhq/travelly-server/internal/router"
	"github.com/travellyhq/travelly-server/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	members := repository.NewMemberRepo(db)
	tokens := repository.NewTokenRepo(db)
	products := repository.NewProductRepo(db)
	tickets := repository.NewTicketRepo(db)
	reservations := repository.NewReservationRepo(db)
	reviews := repository.NewReviewRepo(db)

	engine := service.NewSQLReservationService(db, members, products, tickets, reservations)

	authH := handler.NewAuthHandler(cfg, members, tokens)
	memberH := handler.NewMemberHandler(cfg, members)
	productH := handler.NewProductHandler(products)
	publicH := handler.NewPublicHandler(products)
	reviewH := handler.NewReviewHandler(reviews, products)
	reservationH := handler.NewReservationHandler(engine)
	sellerResH := handler.NewSellerReservationHandler(engine)

	e := echo.New()

	// Redis-backed middleware degrades to pass-through when the client is
	// unavailable.
	rdb := config.NewRedisClient()
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, memberH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, reviewH, cacheMW)
	router.RegisterTraveller(e, reservationH, reviewH, cfg.JWTSecret)
	router.RegisterSeller(e, productH, sellerResH, cfg.JWTSecret)

	// Tail of the event pipeline: consumes reservation events and appends
	// them to logs/reservation.log, reconnecting on broker failures.
	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
