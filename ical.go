package openhours

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ExportICS renders the open and unknown intervals of [from, to) as an
// iCalendar document, one VEVENT per interval. Open intervals are marked
// CONFIRMED, unknown ones TENTATIVE; closed stretches produce no event.
func (oh *OpeningHours) ExportICS(ctx *Context, from, to time.Time, summary string) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//openhours//schedule export//EN")

	now := time.Now().UTC()
	n := 0
	for iv := range oh.Intervals(ctx, from, to) {
		if iv.State == Closed {
			continue
		}
		n++
		ev := cal.AddEvent(fmt.Sprintf("%d-%d@openhours", iv.Start.Unix(), n))
		ev.SetDtStampTime(now)
		ev.SetStartAt(iv.Start)
		ev.SetEndAt(iv.End)

		text := summary
		if len(iv.Comments) > 0 {
			text = fmt.Sprintf("%s (%s)", summary, strings.Join(iv.Comments, "; "))
		}
		ev.SetSummary(text)

		if iv.State == Unknown {
			ev.SetStatus(ics.ObjectStatusTentative)
		} else {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	return cal.Serialize()
}
