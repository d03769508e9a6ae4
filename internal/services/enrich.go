package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/moviehub/review/internal/constants"
	apperrors "github.com/moviehub/review/internal/errors"
	"github.com/moviehub/review/internal/models"
	"github.com/moviehub/review/pkg/logger"
)

// CastRolePolicy assigns a role tier to a cast entry from its billing order
// and provider gender code. The default policy encodes a provider-specific
// heuristic (top-billed male lead = Hero, female lead = Heroine) that is
// debatable, so it stays replaceable rather than inlined.
type CastRolePolicy interface {
	RoleFor(order, gender int) string
}

// Role tier labels assigned to cast entries.
const (
	RoleHero       = "Hero"
	RoleHeroine    = "Heroine"
	RoleSupporting = "Supporting"
	RoleOther      = "Other"
)

// TMDB gender codes.
const (
	genderFemale = 1
	genderMale   = 2
)

// OrderGenderRolePolicy is the default CastRolePolicy, matching the catalog
// provider's ordering and gender coding.
type OrderGenderRolePolicy struct{}

// RoleFor buckets a cast entry: the top two billed entries become lead roles
// by gender code, the next tier is supporting, the rest other.
func (OrderGenderRolePolicy) RoleFor(order, gender int) string {
	switch {
	case order <= constants.LeadOrderCutoff:
		switch gender {
		case genderMale:
			return RoleHero
		case genderFemale:
			return RoleHeroine
		default:
			return RoleSupporting
		}
	case order <= constants.SupportingOrderCutoff:
		return RoleSupporting
	default:
		return RoleOther
	}
}

// Enricher turns a confirmed-new candidate into a fully mapped Movie by
// fetching the detail record and translating the provider schema.
type Enricher struct {
	client     CatalogClient
	retry      *retryPolicy
	rolePolicy CastRolePolicy
	logger     logger.Logger
}

// NewEnricher creates an Enricher. A nil rolePolicy selects the default
// order/gender heuristic.
func NewEnricher(client CatalogClient, retry *retryPolicy, rolePolicy CastRolePolicy) *Enricher {
	if rolePolicy == nil {
		rolePolicy = OrderGenderRolePolicy{}
	}
	return &Enricher{
		client:     client,
		retry:      retry,
		rolePolicy: rolePolicy,
		logger:     logger.New(),
	}
}

// Enrich fetches the full detail record for tmdbID and maps it into a Movie.
func (e *Enricher) Enrich(ctx context.Context, tmdbID string) (*models.Movie, error) {
	details, err := fetchWithRetry(ctx, e.retry, func(ctx context.Context) (*models.TMDBMovieDetails, error) {
		return e.client.FetchMovieDetails(ctx, tmdbID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch details for movie %s: %w", tmdbID, err)
	}

	movie := e.mapDetails(details)
	movie.TmdbID = tmdbID

	if movie.Title == "" {
		return nil, apperrors.NewFatalRecordError(
			fmt.Sprintf("detail record %s has no usable title", tmdbID), nil)
	}

	return movie, nil
}

// mapDetails translates the provider detail schema into the local Movie
// schema. Missing nested structures become empty collections, never nil.
func (e *Enricher) mapDetails(details *models.TMDBMovieDetails) *models.Movie {
	movie := &models.Movie{
		Title:         details.OriginalTitle,
		Overview:      details.Overview,
		ImdbID:        details.ImdbID,
		Runtime:       details.Runtime,
		Genre:         append([]string{}, constants.DefaultImportGenres...),
		AverageRating: 0.0,
	}
	if movie.Title == "" {
		movie.Title = details.Title
	}

	if details.PosterPath != "" {
		movie.PosterURL = imageURL(constants.PosterSize, details.PosterPath)
	}
	if details.BackdropPath != "" {
		movie.BackdropURL = imageURL(constants.BackdropSize, details.BackdropPath)
	}

	e.applyReleaseDate(movie, details.ReleaseDate)

	if details.Credits != nil {
		movie.Cast = e.mapCast(details.Credits.Cast)
		movie.Crew = mapCrew(details.Credits.Crew)
	}
	if details.WatchProviders != nil {
		movie.OttPlatforms = mapWatchProviders(details.WatchProviders)
	}

	movie.EnsureCollections()
	return movie
}

// applyReleaseDate parses the provider date string and freezes the released
// flag against today. A malformed date is a warning, never a record failure.
func (e *Enricher) applyReleaseDate(movie *models.Movie, releaseDate string) {
	if releaseDate == "" {
		return
	}

	parsed, err := time.Parse("2006-01-02", releaseDate)
	if err != nil {
		e.logger.Warnf("[Enricher] error parsing release date %q: %v", releaseDate, err)
		return
	}

	now := time.Now()
	movie.ReleaseDate = &parsed
	movie.ReleaseYear = parsed.Year()
	movie.Released = !parsed.After(now)
}

// mapCast ranks cast entries by provider billing order and assigns role
// tiers through the configured policy.
func (e *Enricher) mapCast(cast []models.TMDBCastCredit) []models.CastMember {
	if len(cast) == 0 {
		return []models.CastMember{}
	}

	sorted := append([]models.TMDBCastCredit{}, cast...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	if len(sorted) > constants.MaxCastMembers {
		sorted = sorted[:constants.MaxCastMembers]
	}

	members := make([]models.CastMember, 0, len(sorted))
	for _, credit := range sorted {
		member := models.CastMember{
			Name:      credit.Name,
			Character: credit.Character,
			Order:     credit.Order,
			Role:      e.rolePolicy.RoleFor(credit.Order, credit.Gender),
		}
		if credit.ProfilePath != "" {
			member.ProfileURL = imageURL(constants.ProfileSize, credit.ProfilePath)
		}
		members = append(members, member)
	}

	return members
}

// mapCrew groups crew credits by department into the named crew lists.
func mapCrew(crew []models.TMDBCrewCredit) models.CrewInfo {
	byDepartment := make(map[string][]models.TMDBCrewCredit)
	for _, credit := range crew {
		byDepartment[credit.Department] = append(byDepartment[credit.Department], credit)
	}

	info := models.CrewInfo{
		Directors:        crewByJob(byDepartment["Directing"], "Director"),
		Producers:        crewByJob(byDepartment["Production"], "Producer"),
		Writers:          crewByJob(byDepartment["Writing"], ""),
		MusicDirectors:   crewByJob(byDepartment["Sound"], "Music"),
		Cinematographers: crewByJob(byDepartment["Camera"], "Director of Photography"),
		Editors:          crewByJob(byDepartment["Editing"], "Editor"),
	}

	return info
}

// crewByJob filters one department's credits by job substring. An empty
// filter keeps the whole department.
func crewByJob(credits []models.TMDBCrewCredit, jobFilter string) []models.CrewMember {
	members := []models.CrewMember{}
	for _, credit := range credits {
		if jobFilter != "" && !strings.Contains(credit.Job, jobFilter) {
			continue
		}

		member := models.CrewMember{
			Name:       credit.Name,
			Job:        credit.Job,
			Department: credit.Department,
		}
		if credit.ProfilePath != "" {
			member.ProfileURL = imageURL(constants.ProfileSize, credit.ProfilePath)
		}
		members = append(members, member)
	}

	return members
}

// Offer type labels for watch-provider entries.
const (
	offerPremium = "Premium"
	offerRent    = "Rent"
	offerBuy     = "Buy"
)

// mapWatchProviders flattens region/offer-type groupings into a single
// platform list for the configured regions.
func mapWatchProviders(providers *models.TMDBWatchProviders) []models.OttPlatform {
	platforms := []models.OttPlatform{}
	if providers.Results == nil {
		return platforms
	}

	now := time.Now()
	for _, region := range constants.WatchProviderRegions {
		offers, ok := providers.Results[region]
		if !ok {
			continue
		}
		platforms = append(platforms, regionPlatforms(offers.Flatrate, region, offerPremium, now)...)
		platforms = append(platforms, regionPlatforms(offers.Rent, region, offerRent, now)...)
		platforms = append(platforms, regionPlatforms(offers.Buy, region, offerBuy, now)...)
	}

	return platforms
}

func regionPlatforms(offers []models.TMDBWatchOffer, region, offerType string, availableFrom time.Time) []models.OttPlatform {
	platforms := make([]models.OttPlatform, 0, len(offers))
	for _, offer := range offers {
		platforms = append(platforms, models.OttPlatform{
			PlatformName:       offer.ProviderName,
			AvailabilityRegion: region,
			SubscriptionType:   offerType,
			AvailableFrom:      &availableFrom,
		})
	}
	return platforms
}

func imageURL(size, path string) string {
	return constants.ImageBaseURL + "/" + size + path
}
