package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharpPicks/business/generator"
	"sharpPicks/domain"
	"sharpPicks/internal/llm"
	psqlRepo "sharpPicks/internal/repository/postgres"
	redisRepo "sharpPicks/internal/repository/redis"
	"sharpPicks/pkg/config"
	"sharpPicks/pkg/database"
	redisdb "sharpPicks/pkg/database/redis"
	"sharpPicks/pkg/logger"
)

func main() {
	var (
		date       string
		category   string
		target     int
		override   int
		eventsPath string
	)
	flag.StringVar(&date, "date", domain.FormatRunDate(time.Now().UTC()), "run date (YYYY-MM-DD)")
	flag.StringVar(&category, "category", "all", "team, player_prop or all")
	flag.IntVar(&target, "target", 0, "target pool size (0 uses GENERATION_TARGET_POOL_SIZE)")
	flag.IntVar(&override, "override", 0, "explicit picks override, wins over -target")
	flag.StringVar(&eventsPath, "events", "", "optional JSON file with the eligible events")
	flag.Parse()

	if err := run(date, category, target, override, eventsPath); err != nil {
		fmt.Fprintf(os.Stderr, "pick-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(date, category string, target, override int, eventsPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()

	categories := domain.Categories
	if category != "all" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return err
		}
		categories = []domain.Category{c}
	}

	events, err := loadEvents(eventsPath)
	if err != nil {
		return err
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.ClosePostgres(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return err
	}

	pickRepo := psqlRepo.NewPickRepository(db)

	var (
		invalidator generator.PoolInvalidator
		publisher   generator.RunPublisher
	)
	if cfg.Redis.RedisEnabled {
		rdb, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, pool cache will expire on its own", "error", err)
		} else {
			defer redisdb.CloseRedisClient(rdb)
			invalidator = redisRepo.NewPoolCache(rdb, pickRepo, cfg.Retrieval.PoolCacheTTL)
			publisher = redisRepo.NewRunPublisher(rdb)
		}
	}

	gen := generator.NewGenerator(
		llmClient,
		pickRepo,
		psqlRepo.NewGenerationRunRepository(db),
		invalidator,
		publisher,
		generator.ConfigFrom(cfg),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := generator.RunRequest{
		Date:           date,
		TargetPoolSize: target,
		PicksOverride:  override,
		Events:         events,
	}

	results, runErr := gen.RunAll(ctx, req, categories)
	for _, res := range results {
		if res == nil {
			continue
		}
		logger.Info("generation run finished",
			"run_id", res.Run.ID,
			"date", res.Run.RunDate,
			"category", res.Run.Category,
			"status", res.Run.Status,
			"attempts", res.Run.Attempts,
			"accepted", len(res.Picks),
			"dropped", res.Run.Dropped,
		)
		for _, share := range res.Distribution {
			logger.Info("risk share",
				"category", res.Run.Category,
				"risk_level", share.Level,
				"count", share.Count,
				"target_pct", share.TargetPct,
			)
		}
	}

	return runErr
}

func loadEvents(path string) ([]domain.Event, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode events %s: %w", path, err)
	}
	return events, nil
}
