// Package constants defines timeout values and retry limits used throughout the application.
package constants

import "time"

const (
	// Request timeouts for TMDB calls
	DiscoverPageTimeout = 10 * time.Second
	MovieDetailsTimeout = 15 * time.Second

	// Retry policy for transient TMDB failures
	MaxFetchAttempts = 3
	RetryBaseDelay   = 2 * time.Second

	// Pacing delays inside a sync run
	PageFetchDelay = 100 * time.Millisecond
	YearSyncDelay  = 250 * time.Millisecond

	// Background sync schedule
	DefaultSyncInterval = 24 * time.Hour
)

// Sync range and batching
const (
	// DefaultSyncStartYear is the first year covered by a full catalog sync.
	DefaultSyncStartYear = 1990

	// FutureYearWindow extends the sync range past the current year so
	// announced but unreleased titles are picked up.
	FutureYearWindow = 15

	// YearBatchSize is the number of years processed per batch.
	YearBatchSize = 5
)

// Review constraints
const (
	MinRating = 1
	MaxRating = 5
)

// Cast mapping limits
const (
	// MaxCastMembers caps how many cast entries are kept per movie.
	MaxCastMembers = 20

	// LeadOrderCutoff and SupportingOrderCutoff split cast entries into
	// role tiers by provider-assigned billing order.
	LeadOrderCutoff       = 2
	SupportingOrderCutoff = 10
)
