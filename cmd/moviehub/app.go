package main

import (
	"github.com/moviehub/review/internal/cache"
	"github.com/moviehub/review/internal/config"
	"github.com/moviehub/review/internal/database"
	"github.com/moviehub/review/internal/handlers"
	"github.com/moviehub/review/internal/services"
	"github.com/moviehub/review/pkg/logger"
)

var (
	Logger           logger.Logger
	Config           *config.Config
	DB               database.Database
	tmdbMemoryCache  *cache.LRUCache
	handler          *handlers.Handler
	serviceContainer *services.Container
)

func InitializeLogger() {
	Logger = logger.New()
}

func InitializeConfig() {
	var err error
	Config, err = config.Load()
	if err != nil {
		Logger.Fatalf("failed to load configuration: %v", err)
	}

	if !Config.SyncEnabled() {
		Logger.Warnf("[App] TMDB API key not configured, catalog sync will be disabled")
	}
}

func InitializeDatabase() {
	var err error
	DB, err = database.NewBolt(Config.DatabasePath)
	if err != nil {
		Logger.Fatalf("failed to initialize database: %v", err)
	}

	Logger.Infof("[App] BoltHold database initialized at %s", Config.DatabasePath)
}

func InitializeServices() {
	tmdbMemoryCache = cache.New(Config.CacheSize, Config.CacheTTL)

	tmdbClient := services.NewTMDB(Config.TMDBAPIKey, Config.TMDBBaseURL, tmdbMemoryCache)
	tmdbClient.SetFilter(Config.Language, Config.Region)

	syncService := services.NewSync(DB, tmdbClient, Config.SyncEnabled())
	syncService.SetStartYear(Config.SyncStartYear)
	syncService.SetInterval(Config.SyncInterval)

	serviceContainer = &services.Container{
		Catalog: tmdbClient,
		Sync:    syncService,
		Movies:  services.NewMovieService(DB),
		Reviews: services.NewReviewService(DB),
		Cache:   tmdbMemoryCache,
		DB:      DB,
		Logger:  logger.New(),
	}

	handler = handlers.New(serviceContainer)

	Logger.Infof("[App] services initialized successfully")
}
