package olympics

import (
	"errors"
	"fmt"
	"time"

	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

// ErrNoUpcomingEvent is returned when every event in the table has closed.
// The table needs new entries when this shows up.
var ErrNoUpcomingEvent = errors.New("no upcoming olympic event")

// Today returns the calendar date of now in loc, as midnight UTC so it can
// be compared with table dates. A nil loc means time.Local.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Select picks the event whose closing date is on or after today and whose
// opening date is earliest, ties going to the first entry in the table.
func Select(today time.Time, games []types.OlympicEvent) (types.DisplayState, error) {
	var (
		best  types.OlympicEvent
		found bool
	)
	for _, event := range games {
		if event.Closing.Before(today) {
			continue
		}
		if !found || event.Opening.Before(best.Opening) {
			best = event
			found = true
		}
	}
	if !found {
		return types.DisplayState{}, fmt.Errorf("%w on %s", ErrNoUpcomingEvent, today.Format(dateLayout))
	}

	phase, days := best.PhaseOn(today)
	return types.DisplayState{
		Event: best,
		Phase: phase,
		Days:  days,
		Date:  today,
	}, nil
}
