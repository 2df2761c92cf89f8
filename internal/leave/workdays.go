package leave

import (
	"sort"
	"strings"
	"time"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/teambition/rrule-go"
)

const dateLayout = "2006-01-02"

// weekdayRule enumerates the days a range request consumes.
const weekdayRule = "FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR"

// period is the normalised date input of a request.
type period struct {
	Start time.Time
	End   time.Time
	// Explicit holds the sorted unique dates of a list request, nil for a range.
	Explicit []string
	Days     int
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func resolvePeriod(startRaw, endRaw string, dates []string) (period, error) {
	var p period

	if len(dates) > 0 {
		seen := make(map[string]bool, len(dates))
		for _, raw := range dates {
			d, err := parseDate(raw)
			if err != nil {
				return period{}, err
			}
			key := d.Format(dateLayout)
			if !seen[key] {
				seen[key] = true
				p.Explicit = append(p.Explicit, key)
			}
		}
		sort.Strings(p.Explicit)
		p.Start, _ = parseDate(p.Explicit[0])
		p.End, _ = parseDate(p.Explicit[len(p.Explicit)-1])
		p.Days = len(p.Explicit)
	} else {
		start, err := parseDate(startRaw)
		if err != nil {
			return period{}, err
		}
		end, err := parseDate(endRaw)
		if err != nil {
			return period{}, err
		}
		if start.After(end) {
			return period{}, leaveerrors.ErrInvalidDateRange
		}
		p.Start, p.End = start, end
	}

	if p.Start.Year() != p.End.Year() {
		return period{}, leaveerrors.ErrCrossYearRequest
	}

	if p.Explicit == nil {
		days, err := workingDays(p.Start, p.End)
		if err != nil {
			return period{}, err
		}
		p.Days = len(days)
	}
	if p.Days == 0 {
		return period{}, leaveerrors.ErrNoWorkingDays
	}
	return p, nil
}

// workingDays lists the Monday to Friday dates in [start, end].
func workingDays(start, end time.Time) ([]time.Time, error) {
	opt, err := rrule.StrToROption(weekdayRule)
	if err != nil {
		return nil, err
	}
	opt.Dtstart = start

	rr, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, err
	}
	set := rrule.Set{}
	set.RRule(rr)
	return set.Between(start, end, true), nil
}

// coveredDates is the calendar footprint of a request, used by the overlap guard.
func coveredDates(start, end time.Time, explicit []string) map[string]bool {
	out := make(map[string]bool)
	if len(explicit) > 0 {
		for _, d := range explicit {
			out[d] = true
		}
		return out
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out[d.Format(dateLayout)] = true
	}
	return out
}

func intersects(a, b map[string]bool) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for d := range a {
		if b[d] {
			return true
		}
	}
	return false
}
