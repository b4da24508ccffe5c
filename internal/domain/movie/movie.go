package movie

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain/tags"
)

// Field limits.
const (
	MaxTitleLen     = 255
	MaxGenreLen     = 20
	MaxLanguageLen  = 20
	MaxYouTubeIDLen = 20
	recentWindow    = 7 * 24 * time.Hour
)

// Movie is the catalog aggregate (immutable value object).
type Movie struct {
	id          int64
	title       string
	description string
	genres      []string
	language    string
	youtubeID   string
	duration    int
	tags        string
	totalViews  int64
	totalLikes  int64
	createdAt   time.Time
	updatedAt   time.Time
}

// Input holds the editable fields of a movie.
type Input struct {
	Title       string
	Description string
	Genres      []string
	Language    string
	YouTubeID   string
	Duration    int // minutes
}

// New validates input and creates a Movie with freshly built tags.
// The ID is assigned by the repository.
func New(in Input, now time.Time) (Movie, error) {
	if err := validate(&in); err != nil {
		return Movie{}, err
	}
	genres := normalizeGenres(in.Genres)
	return Movie{
		title:       strings.TrimSpace(in.Title),
		description: in.Description,
		genres:      genres,
		language:    strings.TrimSpace(in.Language),
		youtubeID:   strings.TrimSpace(in.YouTubeID),
		duration:    in.Duration,
		tags:        tags.Build(in.Description, genres, strings.TrimSpace(in.Language)),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct creates a Movie without validation (storage hydration).
func Reconstruct(
	id int64, title, description string, genres []string, language, youtubeID string,
	duration int, tagStr string, totalViews, totalLikes int64, createdAt, updatedAt time.Time,
) Movie {
	return Movie{
		id: id, title: title, description: description, genres: genres,
		language: language, youtubeID: youtubeID, duration: duration, tags: tagStr,
		totalViews: totalViews, totalLikes: totalLikes,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// Update returns a copy with edited fields and rebuilt tags.
// Identity, counters and creation time are kept.
func (m Movie) Update(in Input, now time.Time) (Movie, error) {
	next, err := New(in, now)
	if err != nil {
		return Movie{}, err
	}
	next.id = m.id
	next.totalViews = m.totalViews
	next.totalLikes = m.totalLikes
	next.createdAt = m.createdAt
	return next, nil
}

// WithID returns a copy carrying the given identifier.
func (m Movie) WithID(id int64) Movie {
	c := m
	c.id = id
	return c
}

// ID returns the movie identifier.
func (m Movie) ID() int64 { return m.id }

// Title returns the display title.
func (m Movie) Title() string { return m.title }

// Description returns the free-text description.
func (m Movie) Description() string { return m.description }

// Genres returns the genre names.
func (m Movie) Genres() []string { return m.genres }

// Language returns the language name.
func (m Movie) Language() string { return m.language }

// YouTubeID returns the trailer/video identifier.
func (m Movie) YouTubeID() string { return m.youtubeID }

// Duration returns the running time in minutes.
func (m Movie) Duration() int { return m.duration }

// Tags returns the normalized tag string.
func (m Movie) Tags() string { return m.tags }

// TotalViews returns the view counter.
func (m Movie) TotalViews() int64 { return m.totalViews }

// TotalLikes returns the like counter.
func (m Movie) TotalLikes() int64 { return m.totalLikes }

// CreatedAt returns the creation time.
func (m Movie) CreatedAt() time.Time { return m.createdAt }

// UpdatedAt returns the last update time.
func (m Movie) UpdatedAt() time.Time { return m.updatedAt }

// DurationFormatted renders the running time as "1h 5m".
func (m Movie) DurationFormatted() string {
	return fmt.Sprintf("%dh %dm", m.duration/60, m.duration%60)
}

// PublishedRecently reports whether the movie was created within the last 7 days.
func (m Movie) PublishedRecently(now time.Time) bool {
	return !m.createdAt.After(now) && now.Sub(m.createdAt) <= recentWindow
}

// HasGenre reports whether the movie carries genre (case-insensitive).
func (m Movie) HasGenre(genre string) bool {
	for _, g := range m.genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

func validate(in *Input) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title too long (max %d)", MaxTitleLen)
	}
	yt := strings.TrimSpace(in.YouTubeID)
	if yt == "" {
		return fmt.Errorf("youtube id is required")
	}
	if len(yt) > MaxYouTubeIDLen {
		return fmt.Errorf("youtube id too long (max %d)", MaxYouTubeIDLen)
	}
	if in.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	lang := strings.TrimSpace(in.Language)
	if lang == "" {
		return fmt.Errorf("language is required")
	}
	if len(lang) > MaxLanguageLen {
		return fmt.Errorf("language too long (max %d)", MaxLanguageLen)
	}
	for _, g := range in.Genres {
		g = strings.TrimSpace(g)
		if g == "" {
			return fmt.Errorf("genre name must not be empty")
		}
		if len(g) > MaxGenreLen {
			return fmt.Errorf("genre %q too long (max %d)", g, MaxGenreLen)
		}
	}
	return nil
}

// normalizeGenres trims names and drops case-insensitive duplicates, keeping first spelling.
func normalizeGenres(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, g := range in {
		g = strings.TrimSpace(g)
		key := strings.ToLower(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}
	return out
}

// GenreCount is a genre with the number of movies carrying it.
type GenreCount struct {
	Name  string
	Count int64
}
