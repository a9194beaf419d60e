package types

import (
	"fmt"
	"strings"
	"time"
)

// Season identifies summer or winter games
type Season string

const (
	// Possible seasons
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
)

// ParseSeason parses a season name, ignoring case and surrounding space
func ParseSeason(s string) (Season, error) {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case SeasonSummer:
		return SeasonSummer, nil
	case SeasonWinter:
		return SeasonWinter, nil
	}
	return "", fmt.Errorf("unknown season %q", s)
}

// Upper returns the season as it is shown on the display
func (s Season) Upper() string {
	return strings.ToUpper(string(s))
}

// Phase is the stage of the countdown relative to an event's opening and closing dates
type Phase int

const (
	PhaseBefore Phase = iota
	PhaseOpeningDay
	PhaseDuring
	PhaseClosingDay
	PhaseAfter
)

func (p Phase) String() string {
	switch p {
	case PhaseBefore:
		return "BEFORE"
	case PhaseOpeningDay:
		return "OPENING_DAY"
	case PhaseDuring:
		return "DURING"
	case PhaseClosingDay:
		return "CLOSING_DAY"
	case PhaseAfter:
		return "AFTER"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText renders the phase name in JSON payloads
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// OlympicEvent is one Olympic Games instance. Opening and Closing are
// calendar dates held at midnight UTC.
type OlympicEvent struct {
	Name     string    `json:"name"`
	Season   Season    `json:"season"`
	Location string    `json:"location"`
	Opening  time.Time `json:"opening"`
	Closing  time.Time `json:"closing"`
}

// PhaseOn returns the phase of the event on the given date together with
// the day count relevant to that phase: days until opening for PhaseBefore,
// days until closing for PhaseDuring, zero otherwise.
func (e OlympicEvent) PhaseOn(today time.Time) (Phase, int) {
	switch {
	case today.Before(e.Opening):
		return PhaseBefore, DaysBetween(today, e.Opening)
	case today.Equal(e.Opening):
		return PhaseOpeningDay, 0
	case today.Before(e.Closing):
		return PhaseDuring, DaysBetween(today, e.Closing)
	case today.Equal(e.Closing):
		return PhaseClosingDay, 0
	}
	return PhaseAfter, 0
}

// DaysBetween returns the number of whole calendar days from a to b.
// Both arguments are expected to be dates at midnight UTC.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// DisplayState is the countdown state computed for a single date
type DisplayState struct {
	Event OlympicEvent
	Phase Phase
	Days  int
	Date  time.Time
}

// Lines returns the text lines drawn next to the logo
func (s DisplayState) Lines() []string {
	switch s.Phase {
	case PhaseBefore:
		return []string{
			fmt.Sprintf("%d DAYS UNTIL", s.Days),
			s.Event.Season.Upper() + " OLYMPICS",
		}
	case PhaseOpeningDay:
		return []string{"OLYMPICS", "OPENING TODAY"}
	case PhaseDuring:
		return []string{
			fmt.Sprintf("%d DAYS UNTIL", s.Days),
			"CLOSING",
		}
	case PhaseClosingDay:
		return []string{"OLYMPICS", "CLOSING TODAY"}
	}
	return nil
}

// Message returns the display text as a single line
func (s DisplayState) Message() string {
	return strings.Join(s.Lines(), " ")
}
