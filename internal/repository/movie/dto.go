package movie

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	dommovie "github.com/kailas-cloud/movierec/internal/domain/movie"
)

const (
	fieldID          = "id"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldGenres      = "genres_json"
	fieldLanguage    = "language"
	fieldYouTubeID   = "youtube_id"
	fieldDuration    = "duration"
	fieldTags        = "tags"
	fieldTotalViews  = "total_views"
	fieldTotalLikes  = "total_likes"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// movieToHash converts the editable part of a movie to HSET fields.
// Counters are excluded: they only change through HINCRBY.
func movieToHash(m dommovie.Movie) (map[string]string, error) {
	genres := m.Genres()
	if genres == nil {
		genres = []string{}
	}
	genresJSON, err := json.Marshal(genres)
	if err != nil {
		return nil, fmt.Errorf("marshal genres: %w", err)
	}
	return map[string]string{
		fieldID:          strconv.FormatInt(m.ID(), 10),
		fieldTitle:       m.Title(),
		fieldDescription: m.Description(),
		fieldGenres:      string(genresJSON),
		fieldLanguage:    m.Language(),
		fieldYouTubeID:   m.YouTubeID(),
		fieldDuration:    strconv.Itoa(m.Duration()),
		fieldTags:        m.Tags(),
		fieldCreatedAt:   strconv.FormatInt(m.CreatedAt().UnixMilli(), 10),
		fieldUpdatedAt:   strconv.FormatInt(m.UpdatedAt().UnixMilli(), 10),
	}, nil
}

// movieFromHash hydrates a movie from an HGETALL result map.
func movieFromHash(h map[string]string) (dommovie.Movie, error) {
	id, err := strconv.ParseInt(h[fieldID], 10, 64)
	if err != nil {
		return dommovie.Movie{}, fmt.Errorf("invalid id: %w", err)
	}

	var genres []string
	if raw := h[fieldGenres]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &genres); err != nil {
			return dommovie.Movie{}, fmt.Errorf("unmarshal genres: %w", err)
		}
	}

	duration, err := strconv.Atoi(h[fieldDuration])
	if err != nil {
		return dommovie.Movie{}, fmt.Errorf("invalid duration: %w", err)
	}

	return dommovie.Reconstruct(
		id, h[fieldTitle], h[fieldDescription], genres, h[fieldLanguage], h[fieldYouTubeID],
		duration, h[fieldTags],
		parseCounter(h[fieldTotalViews]), parseCounter(h[fieldTotalLikes]),
		parseMillis(h[fieldCreatedAt]), parseMillis(h[fieldUpdatedAt]),
	), nil
}

func parseCounter(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
