package olympics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

func TestEmbeddedGames(t *testing.T) {
	games, err := parseGames(embeddedGames)
	require.NoError(t, err)
	require.Len(t, games, 4)

	assert.Equal(t, types.SeasonWinter, games[0].Season)
	assert.Equal(t, date(2026, 2, 6), games[0].Opening)
	assert.Equal(t, date(2026, 2, 22), games[0].Closing)
	assert.Equal(t, "Brisbane", games[3].Location)
	assert.Equal(t, date(2032, 8, 8), games[3].Closing)

	for i := 1; i < len(games); i++ {
		assert.True(t, games[i].Opening.After(games[i-1].Closing), "table must be chronological")
	}
}

func TestReadGamesErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "games: []", "empty"},
		{"bad season", "games:\n  - {name: X, season: spring, opening: 2026-02-06, closing: 2026-02-22}", "unknown season"},
		{"bad date", "games:\n  - {name: X, season: winter, opening: 2026-02-30, closing: 2026-03-22}", "opening date"},
		{"reversed", "games:\n  - {name: X, season: winter, opening: 2026-02-22, closing: 2026-02-06}", "before opening"},
		{"not yaml", "games: [", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGames(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadGamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	content := `
games:
  - season: Summer
    location: Los Angeles
    opening: 2028-07-14
    closing: 2028-07-30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	games, err := LoadGames(path)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Los Angeles 2028", games[0].Name)
	assert.Equal(t, types.SeasonSummer, games[0].Season)

	games, err = LoadGames("")
	require.NoError(t, err)
	assert.Len(t, games, 4)

	_, err = LoadGames(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
