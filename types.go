package movierec

import (
	"time"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// MovieInput holds the editable fields of a movie.
type MovieInput struct {
	Title       string
	Description string
	Genres      []string
	Language    string
	YouTubeID   string
	Duration    int // minutes
}

// Movie is a catalog entry.
type Movie struct {
	ID          int64
	Title       string
	Description string
	Genres      []string
	Language    string
	YouTubeID   string
	Duration    int
	Tags        string
	TotalViews  int64
	TotalLikes  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recommendation is a recommended movie with its cosine similarity in [0, 1].
// Random fallback picks carry a score of 0.
type Recommendation struct {
	Movie Movie
	Score float64
}

func (in MovieInput) toDomain() movie.Input {
	return movie.Input{
		Title:       in.Title,
		Description: in.Description,
		Genres:      in.Genres,
		Language:    in.Language,
		YouTubeID:   in.YouTubeID,
		Duration:    in.Duration,
	}
}

func movieFromDomain(m movie.Movie) Movie {
	return Movie{
		ID:          m.ID(),
		Title:       m.Title(),
		Description: m.Description(),
		Genres:      m.Genres(),
		Language:    m.Language(),
		YouTubeID:   m.YouTubeID(),
		Duration:    m.Duration(),
		Tags:        m.Tags(),
		TotalViews:  m.TotalViews(),
		TotalLikes:  m.TotalLikes(),
		CreatedAt:   m.CreatedAt(),
		UpdatedAt:   m.UpdatedAt(),
	}
}

func recommendationsFromDomain(recs []recommenduc.Recommendation) []Recommendation {
	if len(recs) == 0 {
		return nil
	}
	out := make([]Recommendation, len(recs))
	for i, r := range recs {
		out[i] = Recommendation{Movie: movieFromDomain(r.Movie), Score: r.Score}
	}
	return out
}
