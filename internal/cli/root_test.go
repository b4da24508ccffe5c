package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/tags"
)

const testCatalog = `
movies:
  - title: Strike
    description: hero fights robots
    genres: [Action]
    language: English
    youtube_id: yt1
    duration: 100
  - title: Strike Again
    description: hero fights robots
    genres: [Action]
    language: English
    youtube_id: yt2
    duration: 110
  - title: Paris
    description: romantic love story
    genres: [Romance]
    language: French
    youtube_id: yt3
    duration: 95
history:
  alice: [Strike]
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTagsCmd(t *testing.T) {
	out, err := run(t, "tags", "-d", "The hero is running", "-g", "Action,Drama", "-l", "English")
	require.NoError(t, err)
	assert.Equal(t, tags.Build("The hero is running", []string{"Action", "Drama"}, "English"), strings.TrimSpace(out))
}

func TestSimilarCmd_JSON(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := run(t, "similar", "-c", path, "-t", "strike", "-k", "1", "--json")
	require.NoError(t, err)

	var got []jsonRecommendation
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Strike Again", got[0].Title)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
}

func TestSimilarCmd_Table(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := run(t, "similar", "-c", path, "-t", "Strike")
	require.NoError(t, err)
	assert.Contains(t, out, "Strike Again")
	assert.Contains(t, out, "Paris")
}

func TestSimilarCmd_UnknownTitle(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := run(t, "similar", "-c", path, "-t", "Nope")
	require.NoError(t, err)
	assert.Contains(t, out, "no recommendations")
}

func TestForYouCmd(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := run(t, "foryou", "-c", path, "-u", "alice", "--json")
	require.NoError(t, err)

	var got []jsonRecommendation
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Strike Again", got[0].Title)
	for _, r := range got {
		assert.NotEqual(t, "Strike", r.Title, "watched movie recommended")
	}
}

func TestForYouCmd_NoHistory(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := run(t, "foryou", "-c", path, "-u", "bob", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestPolicyCmd_RequiresCatalog(t *testing.T) {
	_, err := run(t, "similar", "-t", "x")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "movierecctl dev"), out)
}

func TestLoadCatalogFile_Errors(t *testing.T) {
	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadCatalogFile(writeCatalog(t, "movies: [oops"))
	assert.Error(t, err)
}

func TestNewOffline_UnknownHistoryTitle(t *testing.T) {
	f, err := LoadCatalogFile(writeCatalog(t, testCatalog+"  bob: [Missing]\n"))
	require.NoError(t, err)

	_, err = NewOffline(context.Background(), f)
	assert.ErrorContains(t, err, "Missing")
}

func TestNewOffline_InvalidMovie(t *testing.T) {
	f := CatalogFile{Movies: []MovieEntry{
		{Title: "Good", Language: "English", YouTubeID: "a", Duration: 90},
		{Title: "Bad", Language: "English", YouTubeID: "b"},
	}}

	_, err := NewOffline(context.Background(), f)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMovie)
	assert.ErrorContains(t, err, "movie #2")
}
