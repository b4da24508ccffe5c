package chi

import (
	"time"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
	activityuc "github.com/kailas-cloud/movierec/internal/usecase/activity"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// MovieRequest is the body of movie create and update.
type MovieRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Genres      []string `json:"genres" validate:"dive,required,max=20"`
	Language    string   `json:"language" validate:"required,max=20"`
	YouTubeID   string   `json:"youtube_id" validate:"required,max=20"`
	Duration    int      `json:"duration" validate:"required,gt=0"`
}

func (r MovieRequest) input() movie.Input {
	return movie.Input{
		Title:       r.Title,
		Description: r.Description,
		Genres:      r.Genres,
		Language:    r.Language,
		YouTubeID:   r.YouTubeID,
		Duration:    r.Duration,
	}
}

// MovieRef is the body of the activity endpoints.
type MovieRef struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// Movie is the API representation of a movie.
type Movie struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Genres            []string  `json:"genres"`
	Language          string    `json:"language"`
	YouTubeID         string    `json:"youtube_id"`
	Duration          int       `json:"duration"`
	DurationFormatted string    `json:"duration_formatted"`
	Tags              string    `json:"tags"`
	TotalViews        int64     `json:"total_views"`
	TotalLikes        int64     `json:"total_likes"`
	PublishedRecently bool      `json:"published_recently"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MovieListResponse wraps a movie list.
type MovieListResponse struct {
	Items []Movie `json:"items"`
	Total int     `json:"total"`
}

// Genre is a genre with its movie count.
type Genre struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// GenreListResponse wraps the genre list.
type GenreListResponse struct {
	Items []Genre `json:"items"`
}

// PopularMovie is a movie with its recent popularity.
type PopularMovie struct {
	Movie
	Score       float64 `json:"score"`
	RecentLikes int64   `json:"recent_likes"`
	RecentViews int64   `json:"recent_views"`
}

// PopularListResponse wraps the popular list.
type PopularListResponse struct {
	Items []PopularMovie `json:"items"`
}

// Recommendation is a recommended movie with its similarity score.
type Recommendation struct {
	Movie Movie   `json:"movie"`
	Score float64 `json:"score"`
}

// RecommendationListResponse wraps recommendations.
type RecommendationListResponse struct {
	Items []Recommendation `json:"items"`
	K     int              `json:"k"`
}

// WatchResponse is the watch page payload.
type WatchResponse struct {
	Movie   Movie            `json:"movie"`
	Watched bool             `json:"watched"`
	Liked   bool             `json:"liked"`
	InList  bool             `json:"in_list"`
	Similar []Recommendation `json:"similar"`
}

// WatchRecordedResponse reports whether a watch counted.
type WatchRecordedResponse struct {
	Recorded bool `json:"recorded"`
}

// ToggleResponse reports the state after a toggle.
type ToggleResponse struct {
	ID     int64 `json:"id"`
	Active bool  `json:"active"`
}

// HealthResponse is the health report body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func movieToAPI(m movie.Movie, now time.Time) Movie {
	genres := m.Genres()
	if genres == nil {
		genres = []string{}
	}
	return Movie{
		ID:                m.ID(),
		Title:             m.Title(),
		Description:       m.Description(),
		Genres:            genres,
		Language:          m.Language(),
		YouTubeID:         m.YouTubeID(),
		Duration:          m.Duration(),
		DurationFormatted: m.DurationFormatted(),
		Tags:              m.Tags(),
		TotalViews:        m.TotalViews(),
		TotalLikes:        m.TotalLikes(),
		PublishedRecently: m.PublishedRecently(now),
		CreatedAt:         m.CreatedAt(),
		UpdatedAt:         m.UpdatedAt(),
	}
}

func moviesToAPI(ms []movie.Movie, now time.Time) MovieListResponse {
	items := make([]Movie, len(ms))
	for i, m := range ms {
		items[i] = movieToAPI(m, now)
	}
	return MovieListResponse{Items: items, Total: len(items)}
}

func genresToAPI(gs []movie.GenreCount) GenreListResponse {
	items := make([]Genre, len(gs))
	for i, g := range gs {
		items[i] = Genre{Name: g.Name, Count: g.Count}
	}
	return GenreListResponse{Items: items}
}

func popularToAPI(ps []cataloguc.Popular, now time.Time) PopularListResponse {
	items := make([]PopularMovie, len(ps))
	for i, p := range ps {
		items[i] = PopularMovie{
			Movie:       movieToAPI(p.Movie, now),
			Score:       p.Score,
			RecentLikes: p.RecentLikes,
			RecentViews: p.RecentViews,
		}
	}
	return PopularListResponse{Items: items}
}

func recommendationsToAPI(rs []recommenduc.Recommendation, now time.Time) []Recommendation {
	items := make([]Recommendation, len(rs))
	for i, r := range rs {
		items[i] = Recommendation{Movie: movieToAPI(r.Movie, now), Score: r.Score}
	}
	return items
}

func watchToAPI(m movie.Movie, st activityuc.Status, similar []recommenduc.Recommendation, now time.Time) WatchResponse {
	return WatchResponse{
		Movie:   movieToAPI(m, now),
		Watched: st.Watched,
		Liked:   st.Liked,
		InList:  st.InList,
		Similar: recommendationsToAPI(similar, now),
	}
}
