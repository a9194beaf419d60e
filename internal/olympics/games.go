// Package olympics holds the table of Olympic Games and picks the event the
// countdown is about on a given date.
package olympics

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

const dateLayout = "2006-01-02"

//go:embed games.yaml
var embeddedGames []byte

type gameEntry struct {
	Name     string `yaml:"name"`
	Season   string `yaml:"season"`
	Location string `yaml:"location"`
	Opening  string `yaml:"opening"`
	Closing  string `yaml:"closing"`
}

type gamesFile struct {
	Games []gameEntry `yaml:"games"`
}

// Games returns the built-in table. The embedded file is validated by the
// package tests, so a decode failure here is a build defect.
func Games() []types.OlympicEvent {
	games, err := parseGames(embeddedGames)
	if err != nil {
		panic(fmt.Sprintf("olympics: embedded games table: %v", err))
	}
	return games
}

// LoadGames reads a games table from a YAML file. An empty path returns the
// built-in table.
func LoadGames(path string) ([]types.OlympicEvent, error) {
	if path == "" {
		return Games(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open games table: %w", err)
	}
	defer f.Close()
	return ReadGames(f)
}

// ReadGames decodes and validates a games table
func ReadGames(r io.Reader) ([]types.OlympicEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read games table: %w", err)
	}
	return parseGames(data)
}

func parseGames(data []byte) ([]types.OlympicEvent, error) {
	var file gamesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode games table: %w", err)
	}
	if len(file.Games) == 0 {
		return nil, fmt.Errorf("games table is empty")
	}

	games := make([]types.OlympicEvent, 0, len(file.Games))
	for i, entry := range file.Games {
		event, err := entry.event()
		if err != nil {
			return nil, fmt.Errorf("games[%d] %q: %w", i, entry.Name, err)
		}
		games = append(games, event)
	}
	return games, nil
}

func (g gameEntry) event() (types.OlympicEvent, error) {
	season, err := types.ParseSeason(g.Season)
	if err != nil {
		return types.OlympicEvent{}, err
	}
	opening, err := time.Parse(dateLayout, g.Opening)
	if err != nil {
		return types.OlympicEvent{}, fmt.Errorf("opening date: %w", err)
	}
	closing, err := time.Parse(dateLayout, g.Closing)
	if err != nil {
		return types.OlympicEvent{}, fmt.Errorf("closing date: %w", err)
	}
	if closing.Before(opening) {
		return types.OlympicEvent{}, fmt.Errorf("closing %s is before opening %s", g.Closing, g.Opening)
	}
	name := g.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", g.Location, opening.Year())
	}
	return types.OlympicEvent{
		Name:     name,
		Season:   season,
		Location: g.Location,
		Opening:  opening,
		Closing:  closing,
	}, nil
}
