package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/movierec/internal/db/memory"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	actrepo "github.com/kailas-cloud/movierec/internal/repository/activity"
	movierepo "github.com/kailas-cloud/movierec/internal/repository/movie"
	activityuc "github.com/kailas-cloud/movierec/internal/usecase/activity"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// CatalogFile is a YAML catalog with optional per-user watch history.
//
//	movies:
//	  - title: Heat
//	    description: A heist in the city
//	    genres: [Crime]
//	    language: English
//	    youtube_id: abc
//	    duration: 170
//	history:
//	  alice: [Heat]
type CatalogFile struct {
	Movies  []MovieEntry        `yaml:"movies"`
	History map[string][]string `yaml:"history"`
}

// MovieEntry is one movie of a catalog file.
type MovieEntry struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Genres      []string `yaml:"genres"`
	Language    string   `yaml:"language"`
	YouTubeID   string   `yaml:"youtube_id"`
	Duration    int      `yaml:"duration"`
}

// Input converts the entry to a movie input.
func (e MovieEntry) Input() movie.Input {
	return movie.Input{
		Title:       e.Title,
		Description: e.Description,
		Genres:      e.Genres,
		Language:    e.Language,
		YouTubeID:   e.YouTubeID,
		Duration:    e.Duration,
	}
}

// LoadCatalogFile reads and parses a catalog file.
func LoadCatalogFile(path string) (CatalogFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return CatalogFile{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return CatalogFile{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return f, nil
}

// Seed creates every movie of f through svc, in file order.
func Seed(ctx context.Context, svc *cataloguc.Service, f CatalogFile) ([]movie.Movie, error) {
	out := make([]movie.Movie, 0, len(f.Movies))
	for i, e := range f.Movies {
		m, err := svc.Create(ctx, e.Input())
		if err != nil {
			return out, fmt.Errorf("movie #%d %q: %w", i+1, e.Title, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Offline is an in-memory catalog loaded from a file.
type Offline struct {
	Catalog   *cataloguc.Service
	Activity  *activityuc.Service
	Recommend *recommenduc.Service
}

// NewOffline loads f into an in-memory store and replays its history.
func NewOffline(ctx context.Context, f CatalogFile, opts ...recommenduc.Option) (*Offline, error) {
	store := memory.New()
	movies := movierepo.New(store, "")
	activity := actrepo.New(store, "")

	o := &Offline{
		Catalog:   cataloguc.New(movies, activity),
		Activity:  activityuc.New(movies, activity),
		Recommend: recommenduc.New(movies, activity, opts...),
	}

	created, err := Seed(ctx, o.Catalog, f)
	if err != nil {
		return nil, err
	}
	byTitle := make(map[string]int64, len(created))
	for _, m := range created {
		if _, dup := byTitle[m.Title()]; !dup {
			byTitle[m.Title()] = m.ID()
		}
	}

	for user, titles := range f.History {
		for _, title := range titles {
			id, ok := byTitle[title]
			if !ok {
				return nil, fmt.Errorf("history of %s: unknown title %q", user, title)
			}
			if _, err := o.Activity.RecordWatch(ctx, user, id, ""); err != nil {
				return nil, fmt.Errorf("history of %s: %w", user, err)
			}
		}
	}
	return o, nil
}
