package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/matheusvidal/stockman/internal/auth"
	"github.com/matheusvidal/stockman/internal/config"
	"github.com/matheusvidal/stockman/internal/database"
	"github.com/matheusvidal/stockman/internal/handler"
	"github.com/matheusvidal/stockman/internal/queue"
	"github.com/matheusvidal/stockman/internal/repository"
	"github.com/matheusvidal/stockman/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable, response cache disabled")
	}

	users := repository.NewUserRepo(db)
	calls := repository.NewCallRepo(db)
	sectors := repository.NewSectorRepo(db)

	authSvc := auth.New(auth.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTTLMin:       cfg.AccessTTLMin,
		RefreshValidityMin: cfg.RefreshValidityMin,
	}, users)

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc, users),
		Users:   handler.NewUserHandler(users),
		Calls:   handler.NewCallHandler(calls, users, sectors),
		Sectors: handler.NewSectorHandler(sectors),
	}, cfg, rdb)

	go func() {
		if err := queue.StartCallConsumer(); err != nil {
			log.Printf("call consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
