// Package services provides the application services and their dependency
// injection container.
package services

import (
	"github.com/moviehub/review/internal/cache"
	"github.com/moviehub/review/internal/database"
	"github.com/moviehub/review/pkg/logger"
)

// Container holds all application services for dependency injection.
// It is constructed once at startup and reused across requests and sync runs.
type Container struct {
	Catalog CatalogClient
	Sync    *SyncService
	Movies  *MovieService
	Reviews *ReviewService
	Cache   *cache.LRUCache
	DB      database.Database
	Logger  logger.Logger
}
