package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-quest/internal/config"
	"github.com/iliyamo/habit-quest/internal/database"
	"github.com/iliyamo/habit-quest/internal/handler"
	"github.com/iliyamo/habit-quest/internal/queue"
	"github.com/iliyamo/habit-quest/internal/repository"
	"github.com/iliyamo/habit-quest/internal/router"
	"github.com/iliyamo/habit-quest/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil client disables caching and rate limiting gracefully
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	stats := repository.NewStatsRepo(db)
	habits := repository.NewHabitRepo(db)
	logs := repository.NewHabitLogRepo(db)
	achievements := repository.NewAchievementRepo(db)
	missions := repository.NewMissionRepo(db)

	prog := service.NewProgressionService(
		db, profiles, stats, habits, logs, achievements, missions,
		nil, service.DefaultSpecials(),
	)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, profiles), cfg.JWTSecret)
	router.RegisterAPI(e, router.APIDeps{
		JWTSecret:    cfg.JWTSecret,
		Redis:        rdb,
		CacheCfg:     config.LoadCacheConfig(),
		RateCfg:      config.LoadRateLimitConfig(),
		Habits:       handler.NewHabitHandler(habits, prog),
		Achievements: handler.NewAchievementHandler(achievements, prog),
		Missions:     handler.NewMissionHandler(missions, nil),
		Profile:      handler.NewProfileHandler(profiles, stats, habits, logs, achievements, missions, tokens, users),
	})

	// Background consumer writing progression events to logs/.
	go func() {
		if err := queue.StartProgressionConsumer(); err != nil {
			log.Printf("progression consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
