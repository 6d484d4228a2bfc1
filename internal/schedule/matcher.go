package schedule

import (
	"log/slog"
	"strings"
	"time"
)

// Course maps one class to its weekly slots and its archive folder.
// Schedule keys are English weekday names; each value lists raw
// meridiem ranges in the order they should be tried.
type Course struct {
	Name     string
	Schedule map[string][]string
	Folder   string
}

// Table is an ordered course list. Earlier entries win ties.
type Table []Course

// Matcher resolves a localized meeting timestamp to a course folder.
type Matcher struct {
	table Table
}

func NewMatcher(table Table) *Matcher {
	return &Matcher{table: table}
}

// Match returns the folder of the first course whose buffered window
// for the timestamp's weekday contains its clock time. Saturday slots
// use the short buffer because they are packed back to back. When no
// window matches, the first course whose name appears in the meeting
// topic wins. ok is false when neither strategy matches; callers
// substitute their default bucket.
func (m *Matcher) Match(ts time.Time, topic string) (folder string, ok bool) {
	weekday := ts.Weekday().String()
	shortBuffer := weekday == time.Saturday.String()

	for _, course := range m.table {
		ranges, scheduled := course.Schedule[weekday]
		if !scheduled {
			continue
		}
		for _, raw := range ranges {
			window, err := ResolveWindow(raw, shortBuffer)
			if err != nil {
				slog.Warn("skipping course with unparseable schedule", "course", course.Name, "range", raw, "error", err)
				break
			}
			if window.Contains(ts) {
				return course.Folder, true
			}
		}
	}

	for _, course := range m.table {
		if strings.Contains(topic, course.Name) {
			return course.Folder, true
		}
	}
	return "", false
}
