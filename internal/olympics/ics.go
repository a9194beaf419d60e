package olympics

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

// uidNamespace keeps event UIDs stable across exports
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fkcurrie/olympics-countdown-led"))

// CalendarICS exports the games table as all-day iCalendar events
func CalendarICS(games []types.OlympicEvent) string {
	cal := ics.NewCalendar()
	cal.SetProductId("-//olympics-countdown-led//EN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetName("Olympic Games")

	for _, g := range games {
		uid := uuid.NewSHA1(uidNamespace, []byte(g.Name+g.Opening.Format(dateLayout)))
		e := cal.AddEvent(uid.String())
		e.SetDtStampTime(g.Opening)
		e.SetSummary(g.Name)
		e.SetLocation(g.Location)
		e.SetDescription(g.Season.Upper() + " OLYMPICS")
		e.SetAllDayStartAt(g.Opening)
		// DTEND is exclusive for all-day events.
		e.SetAllDayEndAt(g.Closing.Add(24 * time.Hour))
		e.AddProperty(ics.ComponentPropertyCategories, string(g.Season))
	}
	return cal.Serialize()
}
