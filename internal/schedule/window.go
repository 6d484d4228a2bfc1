package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrBadTimeRange marks schedule strings that do not parse as a
// meridiem time range like "3:55PM-6:19PM".
var ErrBadTimeRange = errors.New("unparseable time range")

const (
	shortBufferMinutes = 5
	longBufferMinutes  = 10
)

var rangePattern = regexp.MustCompile(`(?i)^(\d+):(\d+)(am|pm)-(\d+):(\d+)(am|pm)$`)

// windowBase is the reference day windows are anchored on. Only the
// clock component matters; a window whose end clock reads earlier than
// its start clock spills onto the following day.
var windowBase = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Window is a resolved schedule slot, already widened by its buffer.
type Window struct {
	Start time.Time
	End   time.Time
}

// ResolveWindow parses a raw range such as "4:00pm - 6:19pm" into a
// buffered window. Whitespace anywhere in the string is ignored. The
// buffer is 5 minutes when shortBuffer is set, 10 otherwise, subtracted
// from the start and added to the end.
func ResolveWindow(raw string, shortBuffer bool) (Window, error) {
	compact := strings.Join(strings.Fields(raw), "")
	m := rangePattern.FindStringSubmatch(compact)
	if m == nil {
		return Window{}, fmt.Errorf("%w: %q", ErrBadTimeRange, raw)
	}

	start, err := clockOnBase(m[1], m[2], m[3])
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrBadTimeRange, raw)
	}
	end, err := clockOnBase(m[4], m[5], m[6])
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrBadTimeRange, raw)
	}
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}

	buffer := time.Duration(longBufferMinutes) * time.Minute
	if shortBuffer {
		buffer = time.Duration(shortBufferMinutes) * time.Minute
	}
	return Window{Start: start.Add(-buffer), End: end.Add(buffer)}, nil
}

// Contains reports whether the clock component of t falls inside the
// window. The probe is projected onto the reference day and retried a
// day either side so windows that cross midnight still match.
func (w Window) Contains(t time.Time) bool {
	probe := windowBase.Add(clockDuration(t))
	for _, cand := range []time.Time{probe.Add(-24 * time.Hour), probe, probe.Add(24 * time.Hour)} {
		if !cand.Before(w.Start) && !cand.After(w.End) {
			return true
		}
	}
	return false
}

func clockOnBase(hourText, minuteText, meridiem string) (time.Time, error) {
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 1 || hour > 12 {
		return time.Time{}, fmt.Errorf("hour out of range: %s", hourText)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute > 59 {
		return time.Time{}, fmt.Errorf("minute out of range: %s", minuteText)
	}

	if strings.EqualFold(meridiem, "pm") {
		if hour != 12 {
			hour += 12
		}
	} else if hour == 12 {
		hour = 0
	}
	return windowBase.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

func clockDuration(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
