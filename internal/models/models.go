// Package models defines the persisted entities of the movie-review catalog.
package models

import (
	"strings"
	"time"
)

// Movie is the persisted catalog entity. AverageRating is a denormalized
// aggregate maintained by the review service; Released is computed once at
// write time and deliberately never re-evaluated on read.
type Movie struct {
	ID              string        `json:"movieId"`
	TmdbID          string        `json:"tmdbId,omitempty"`
	ImdbID          string        `json:"imdbId,omitempty"`
	Title           string        `json:"title"`
	TitleNormalized string        `json:"-"`
	Overview        string        `json:"overview,omitempty"`
	Genre           []string      `json:"genre"`
	ReleaseDate     *time.Time    `json:"releaseDate,omitempty"`
	ReleaseYear     int           `json:"releaseYear,omitempty"`
	Released        bool          `json:"released"`
	Runtime         int           `json:"runtime,omitempty"`
	AverageRating   float64       `json:"averageRating"`
	PosterURL       string        `json:"posterUrl,omitempty"`
	BackdropURL     string        `json:"backdropUrl,omitempty"`
	Cast            []CastMember  `json:"cast"`
	Crew            CrewInfo      `json:"crew"`
	OttPlatforms    []OttPlatform `json:"ottPlatforms"`
	CreatedAt       time.Time     `json:"createdAt,omitempty"`
	UpdatedAt       time.Time     `json:"updatedAt,omitempty"`
}

// CastMember is one billed cast entry, bucketed into a role tier at import.
type CastMember struct {
	Name       string `json:"name"`
	Character  string `json:"character,omitempty"`
	Order      int    `json:"order"`
	Role       string `json:"role"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

// CrewInfo groups crew members by department.
type CrewInfo struct {
	Directors        []CrewMember `json:"directors"`
	Producers        []CrewMember `json:"producers"`
	Writers          []CrewMember `json:"writers"`
	MusicDirectors   []CrewMember `json:"musicDirectors"`
	Cinematographers []CrewMember `json:"cinematographers"`
	Editors          []CrewMember `json:"editors"`
}

// CrewMember is one crew credit.
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job,omitempty"`
	Department string `json:"department,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

// OttPlatform is one streaming availability entry.
type OttPlatform struct {
	PlatformName       string     `json:"platformName"`
	AvailabilityRegion string     `json:"availabilityRegion"`
	SubscriptionType   string     `json:"subscriptionType"`
	AvailableFrom      *time.Time `json:"availableFrom,omitempty"`
}

// Review is a user review of a movie. MovieID always holds a resolved movie
// id, never a raw title.
type Review struct {
	ID        string    `json:"reviewId"`
	MovieID   string    `json:"movieId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeTitle derives the dedup lookup key from a title. Plain
// case-folding and trimming only; no diacritic normalization.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// EnsureCollections replaces nil sub-structures with empty ones. Records
// stored before a schema field existed must never surface nulls, so every
// read and write path funnels through this.
func (m *Movie) EnsureCollections() {
	if m.Genre == nil {
		m.Genre = []string{}
	}
	if m.Cast == nil {
		m.Cast = []CastMember{}
	}
	if m.OttPlatforms == nil {
		m.OttPlatforms = []OttPlatform{}
	}
	m.Crew.EnsureCollections()
}

// EnsureCollections replaces nil crew lists with empty ones.
func (c *CrewInfo) EnsureCollections() {
	if c.Directors == nil {
		c.Directors = []CrewMember{}
	}
	if c.Producers == nil {
		c.Producers = []CrewMember{}
	}
	if c.Writers == nil {
		c.Writers = []CrewMember{}
	}
	if c.MusicDirectors == nil {
		c.MusicDirectors = []CrewMember{}
	}
	if c.Cinematographers == nil {
		c.Cinematographers = []CrewMember{}
	}
	if c.Editors == nil {
		c.Editors = []CrewMember{}
	}
}
