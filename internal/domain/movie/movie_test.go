package movie

import (
	"strings"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validInput() Input {
	return Input{
		Title:       "The Long Night",
		Description: "A soldier fights through the war",
		Genres:      []string{"Action", "Drama"},
		Language:    "English",
		YouTubeID:   "abc123",
		Duration:    125,
	}
}

func TestNew_Valid(t *testing.T) {
	m, err := New(validInput(), t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title() != "The Long Night" {
		t.Errorf("Title() = %q", m.Title())
	}
	if m.ID() != 0 {
		t.Errorf("ID() = %d, want 0 before persistence", m.ID())
	}
	if m.Tags() == "" {
		t.Error("Tags() should be built on creation")
	}
	if strings.Contains(m.Tags(), "the") {
		t.Errorf("Tags() contains stopword: %q", m.Tags())
	}
	if !m.CreatedAt().Equal(t0) || !m.UpdatedAt().Equal(t0) {
		t.Errorf("timestamps = %v / %v", m.CreatedAt(), m.UpdatedAt())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"empty title", func(in *Input) { in.Title = "  " }},
		{"long title", func(in *Input) { in.Title = strings.Repeat("x", MaxTitleLen+1) }},
		{"empty youtube", func(in *Input) { in.YouTubeID = "" }},
		{"long youtube", func(in *Input) { in.YouTubeID = strings.Repeat("y", MaxYouTubeIDLen+1) }},
		{"zero duration", func(in *Input) { in.Duration = 0 }},
		{"empty language", func(in *Input) { in.Language = "" }},
		{"long language", func(in *Input) { in.Language = strings.Repeat("l", MaxLanguageLen+1) }},
		{"empty genre", func(in *Input) { in.Genres = []string{"Action", ""} }},
		{"long genre", func(in *Input) { in.Genres = []string{strings.Repeat("g", MaxGenreLen+1)} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := New(in, t0); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_DedupesGenres(t *testing.T) {
	in := validInput()
	in.Genres = []string{"Action", " action ", "Drama"}
	m, err := New(in, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Genres()) != 2 || m.Genres()[0] != "Action" || m.Genres()[1] != "Drama" {
		t.Errorf("Genres() = %v", m.Genres())
	}
}

func TestUpdate_KeepsIdentityAndCounters(t *testing.T) {
	orig := Reconstruct(7, "Old", "old text", []string{"Drama"}, "French", "yt1", 90, "old",
		42, 5, t0, t0)

	in := validInput()
	in.Description = "robots in space"
	later := t0.Add(time.Hour)
	got, err := orig.Update(in, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != 7 || got.TotalViews() != 42 || got.TotalLikes() != 5 {
		t.Errorf("identity/counters lost: id=%d views=%d likes=%d", got.ID(), got.TotalViews(), got.TotalLikes())
	}
	if !got.CreatedAt().Equal(t0) {
		t.Errorf("CreatedAt() = %v", got.CreatedAt())
	}
	if !got.UpdatedAt().Equal(later) {
		t.Errorf("UpdatedAt() = %v", got.UpdatedAt())
	}
	if got.Tags() == "old" {
		t.Error("tags were not rebuilt")
	}
}

func TestDurationFormatted(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{125, "2h 5m"},
		{60, "1h 0m"},
		{45, "0h 45m"},
	}
	for _, tc := range tests {
		m := Reconstruct(1, "t", "", nil, "en", "y", tc.mins, "", 0, 0, t0, t0)
		if got := m.DurationFormatted(); got != tc.want {
			t.Errorf("DurationFormatted(%d) = %q, want %q", tc.mins, got, tc.want)
		}
	}
}

func TestPublishedRecently(t *testing.T) {
	m := Reconstruct(1, "t", "", nil, "en", "y", 90, "", 0, 0, t0, t0)

	if !m.PublishedRecently(t0.Add(24 * time.Hour)) {
		t.Error("one day old should be recent")
	}
	if m.PublishedRecently(t0.Add(8 * 24 * time.Hour)) {
		t.Error("eight days old should not be recent")
	}
	if m.PublishedRecently(t0.Add(-time.Hour)) {
		t.Error("future creation should not be recent")
	}
}

func TestHasGenre(t *testing.T) {
	m := Reconstruct(1, "t", "", []string{"Sci-Fi"}, "en", "y", 90, "", 0, 0, t0, t0)
	if !m.HasGenre("sci-fi") {
		t.Error("expected case-insensitive match")
	}
	if m.HasGenre("drama") {
		t.Error("unexpected match")
	}
}
