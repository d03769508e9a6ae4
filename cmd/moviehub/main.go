package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moviehub/review/internal/middleware"
)

func main() {
	InitializeLogger()
	InitializeConfig()
	InitializeDatabase()
	defer DB.Close()

	InitializeServices()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(Logger))
	r.Use(middleware.CORS())

	handler.RegisterRoutes(r)

	// Expired cache entries are swept hourly; the sync service runs on its
	// own daily schedule.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			tmdbMemoryCache.CleanExpired()
		}
	}()

	ctx := context.Background()
	if err := serviceContainer.Sync.Start(ctx); err != nil {
		Logger.Errorf("[App] failed to start sync service: %v", err)
	}
	defer serviceContainer.Sync.Stop()

	Logger.Infof("[App] starting HTTP server on port %s", Config.Port)
	log.Fatal(http.ListenAndServe(":"+Config.Port, r))
}
