package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	genreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	mutedStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
)

const maxTitleWidth = 40

func renderRecommendations(w io.Writer, heading string, recs []recommenduc.Recommendation) {
	fmt.Fprintln(w, headerStyle.Render(heading))
	if len(recs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no recommendations"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(" %-4s  %-6s  %-40s  %s", "ID", "SCORE", "TITLE", "GENRES")))
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, r := range recs {
		title := r.Movie.Title()
		if len(title) > maxTitleWidth {
			title = title[:maxTitleWidth-3] + "..."
		}
		fmt.Fprintf(w, " %s  %s  %-40s  %s\n",
			idStyle.Render(fmt.Sprintf("%-4d", r.Movie.ID())),
			scoreStyle.Render(fmt.Sprintf("%-6.3f", r.Score)),
			title,
			genreStyle.Render(strings.Join(r.Movie.Genres(), ", ")),
		)
	}
}

type jsonRecommendation struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
	Score  float64  `json:"score"`
}

func writeRecommendationsJSON(w io.Writer, recs []recommenduc.Recommendation) error {
	out := make([]jsonRecommendation, len(recs))
	for i, r := range recs {
		out[i] = jsonRecommendation{
			ID:     r.Movie.ID(),
			Title:  r.Movie.Title(),
			Genres: r.Movie.Genres(),
			Score:  r.Score,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	return nil
}
