// Package main library management API.
//
// @title           Library Management API
// @version         1.0
// @description     Library service (catalog, rentals, recommendations, purchase suggestions).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/SilaSerdar/library-systeem/app/echoServer"
	authctrl "github.com/SilaSerdar/library-systeem/app/echoServer/controller/auth"
	bookctrl "github.com/SilaSerdar/library-systeem/app/echoServer/controller/book"
	cardctrl "github.com/SilaSerdar/library-systeem/app/echoServer/controller/card"
	recctrl "github.com/SilaSerdar/library-systeem/app/echoServer/controller/recommendation"
	rentalctrl "github.com/SilaSerdar/library-systeem/app/echoServer/controller/rental"
	suggestionctrl "github.com/SilaSerdar/library-systeem/app/echoServer/controller/suggestion"
	"github.com/SilaSerdar/library-systeem/app/echoServer/validation"
	"github.com/SilaSerdar/library-systeem/config"
	authrepo "github.com/SilaSerdar/library-systeem/repository/auth"
	bibliorepo "github.com/SilaSerdar/library-systeem/repository/biblio"
	bookrepo "github.com/SilaSerdar/library-systeem/repository/book"
	recrepo "github.com/SilaSerdar/library-systeem/repository/recommendation"
	rentalrepo "github.com/SilaSerdar/library-systeem/repository/rental"
	suggestionrepo "github.com/SilaSerdar/library-systeem/repository/suggestion"
	authsvc "github.com/SilaSerdar/library-systeem/service/auth"
	booksvc "github.com/SilaSerdar/library-systeem/service/book"
	cardsvc "github.com/SilaSerdar/library-systeem/service/card"
	recsvc "github.com/SilaSerdar/library-systeem/service/recommendation"
	rentalsvc "github.com/SilaSerdar/library-systeem/service/rental"
	suggestionsvc "github.com/SilaSerdar/library-systeem/service/suggestion"
	"github.com/SilaSerdar/library-systeem/util/database"
	"github.com/SilaSerdar/library-systeem/util/httpx"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	br := bookrepo.New(db)
	rr := rentalrepo.New(db)
	rcr := recrepo.New(db)
	sr := suggestionrepo.New(db)
	bib := bibliorepo.NewHTTP(httpx.Client(), log)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	bs := booksvc.New(db, br)
	rs := rentalsvc.New(db, rr)
	rcs := recsvc.New(rcr, log)
	ss := suggestionsvc.New(sr)
	cs := cardsvc.New()

	// background overdue sweep; the read paths reconcile as well, this
	// just keeps the ledger honest between reads
	interval, err := time.ParseDuration(cfg.SweepInterval)
	if err != nil {
		log.Warn("bad sweep interval, using 1h", "value", cfg.SweepInterval)
		interval = time.Hour
	}
	rentalsvc.NewSweeper(rs, log, interval).Start(ctx)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, Biblio: bib, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}
	recC := &recctrl.Controller{Svc: rcs, Log: log}
	suggestionC := &suggestionctrl.Controller{Svc: ss, V: v, Log: log}
	cardC := &cardctrl.Controller{Svc: cs, Users: as, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:           authC,
		Book:           bookC,
		Rental:         rentalC,
		Recommendation: recC,
		Suggestion:     suggestionC,
		Card:           cardC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
