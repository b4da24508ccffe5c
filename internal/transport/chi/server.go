package chi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
	activityuc "github.com/kailas-cloud/movierec/internal/usecase/activity"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// Server exposes the catalog, activity and recommendation services over HTTP.
type Server struct {
	catalog       *cataloguc.Service
	activity      *activityuc.Service
	recommend     *recommenduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	now           func() time.Time
	maxK          int // 0 accepts any k
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	activity *activityuc.Service,
	recommend *recommenduc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		catalog:       catalog,
		activity:      activity,
		recommend:     recommend,
		health:        health,
		logger:        logger,
		now:           time.Now,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithClock overrides the clock used for derived fields such as published_recently.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// WithMaxK rejects recommendation requests asking for more than k results.
func (s *Server) WithMaxK(k int) *Server {
	s.maxK = k
	return s
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r gochi.Router) {
		r.Get("/movies", s.ListMovies)
		r.Post("/movies", s.CreateMovie)
		r.Get("/movies/new-releases", s.NewReleases)
		r.Get("/movies/popular", s.PopularMovies)
		r.Get("/movies/{id}", s.GetMovie)
		r.Put("/movies/{id}", s.UpdateMovie)
		r.Delete("/movies/{id}", s.DeleteMovie)
		r.Get("/movies/{id}/similar", s.SimilarToMovie)

		r.Get("/genres", s.ListGenres)
		r.Get("/genres/{genre}/movies", s.MoviesByGenre)

		r.Get("/recommendations/similar", s.SimilarByTitle)

		r.Route("/users/{user}", func(r gochi.Router) {
			r.Get("/recommendations", s.ForUser)
			r.Get("/watch/{id}", s.Watch)
			r.Get("/history", s.WatchHistory)
			r.Post("/history", s.RecordWatch)
			r.Post("/likes", s.ToggleLike)
			r.Get("/my-list", s.MyList)
			r.Post("/my-list", s.ToggleMyList)
		})
	})
}

// ListMovies handles GET /movies, optionally filtered by ?search=.
func (s *Server) ListMovies(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam[string](r, "search")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	var ms []movie.Movie
	if q != nil {
		ms, err = s.catalog.Search(r.Context(), *q)
	} else {
		ms, err = s.catalog.List(r.Context())
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moviesToAPI(ms, s.now()))
}

// CreateMovie handles POST /movies.
func (s *Server) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req MovieRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	m, err := s.catalog.Create(r.Context(), req.input())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/movies/%d", m.ID()))
	writeJSON(w, http.StatusCreated, movieToAPI(m, s.now()))
}

// GetMovie handles GET /movies/{id}.
func (s *Server) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam[int64](r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	m, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movieToAPI(m, s.now()))
}

// UpdateMovie handles PUT /movies/{id}.
func (s *Server) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam[int64](r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	var req MovieRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	m, err := s.catalog.Update(r.Context(), id, req.input())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movieToAPI(m, s.now()))
}

// DeleteMovie handles DELETE /movies/{id}.
func (s *Server) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam[int64](r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NewReleases handles GET /movies/new-releases.
func (s *Server) NewReleases(w http.ResponseWriter, r *http.Request) {
	limit, err := queryParam[int](r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	ms, err := s.catalog.NewReleases(r.Context(), derefInt(limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moviesToAPI(ms, s.now()))
}

// PopularMovies handles GET /movies/popular.
func (s *Server) PopularMovies(w http.ResponseWriter, r *http.Request) {
	ps, err := s.catalog.Popular(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, popularToAPI(ps, s.now()))
}

// ListGenres handles GET /genres.
func (s *Server) ListGenres(w http.ResponseWriter, r *http.Request) {
	gs, err := s.catalog.Genres(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genresToAPI(gs))
}

// MoviesByGenre handles GET /genres/{genre}/movies.
func (s *Server) MoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := pathParam[string](r, "genre")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	ms, err := s.catalog.ByGenre(r.Context(), genre)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moviesToAPI(ms, s.now()))
}

// SimilarToMovie handles GET /movies/{id}/similar.
func (s *Server) SimilarToMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam[int64](r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	k, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	m, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.writeSimilar(w, r, m.Title(), k)
}

// SimilarByTitle handles GET /recommendations/similar?title=.
func (s *Server) SimilarByTitle(w http.ResponseWriter, r *http.Request) {
	title, err := queryParam[string](r, "title")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if derefString(title) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "title is required")
		return
	}
	k, ok := s.limitParam(w, r)
	if !ok {
		return
	}
	s.writeSimilar(w, r, *title, k)
}

// limitParam binds the optional ?k= and enforces the configured maximum.
func (s *Server) limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	k, err := queryParam[int](r, "k")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return 0, false
	}
	if s.maxK > 0 && derefInt(k) > s.maxK {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf("k must be at most %d", s.maxK))
		return 0, false
	}
	return derefInt(k), true
}

func (s *Server) writeSimilar(w http.ResponseWriter, r *http.Request, title string, k int) {
	recs, err := s.recommend.Similar(r.Context(), title, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecommendationListResponse{
		Items: recommendationsToAPI(recs, s.now()),
		K:     s.recommend.ClampK(k),
	})
}

// ForUser handles GET /users/{user}/recommendations.
func (s *Server) ForUser(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam[string](r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	k, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	recs, err := s.recommend.ForUser(r.Context(), user, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecommendationListResponse{
		Items: recommendationsToAPI(recs, s.now()),
		K:     s.recommend.ClampK(k),
	})
}

// Watch handles GET /users/{user}/watch/{id}: the movie, the user's
// like and list state, and similar titles.
func (s *Server) Watch(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam[string](r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	id, err := pathParam[int64](r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	m, err := s.catalog.Get(ctx, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	st, err := s.activity.Status(ctx, user, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	similar, err := s.recommend.Similar(ctx, m.Title(), 0)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, watchToAPI(m, st, similar, s.now()))
}

// RecordWatch handles POST /users/{user}/history.
func (s *Server) RecordWatch(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam[string](r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	var req MovieRef
	if !decodeRequest(w, r, &req) {
		return
	}

	recorded, err := s.activity.RecordWatch(r.Context(), user, req.ID, clientIP(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	status := http.StatusOK
	if recorded {
		status = http.StatusCreated
	}
	writeJSON(w, status, WatchRecordedResponse{Recorded: recorded})
}

// WatchHistory handles GET /users/{user}/history.
func (s *Server) WatchHistory(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam[string](r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	ms, err := s.activity.WatchHistory(r.Context(), user)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moviesToAPI(ms, s.now()))
}

// ToggleLike handles POST /users/{user}/likes.
func (s *Server) ToggleLike(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, s.activity.ToggleLike)
}

// ToggleMyList handles POST /users/{user}/my-list.
func (s *Server) ToggleMyList(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, s.activity.ToggleMyList)
}

func (s *Server) toggle(
	w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, userID string, movieID int64) (bool, error),
) {
	user, err := pathParam[string](r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	var req MovieRef
	if !decodeRequest(w, r, &req) {
		return
	}

	active, err := fn(r.Context(), user, req.ID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{ID: req.ID, Active: active})
}

// MyList handles GET /users/{user}/my-list.
func (s *Server) MyList(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam[string](r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	ms, err := s.activity.MyList(r.Context(), user)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moviesToAPI(ms, s.now()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
