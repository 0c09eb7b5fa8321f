// Package availability expands weekly recurring availability into concrete,
// fixed-length booking windows.
package availability

import (
	"errors"
	"sort"
	"time"

	"github.com/templui/lifeos/internal/model"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidWeekday = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidRange   = errors.New("start must be before end within one day")
)

// Window is one generated slot candidate.
type Window struct {
	Start time.Time `json:"start_at"`
	End   time.Time `json:"end_at"`
}

// ValidateBlock checks the bounds of a weekly block.
func ValidateBlock(weekday, startMinute, endMinute int) error {
	if weekday < 0 || weekday > 6 {
		return ErrInvalidWeekday
	}
	if startMinute < 0 || endMinute > minutesPerDay || startMinute >= endMinute {
		return ErrInvalidRange
	}
	return nil
}

type span struct{ start, end int }

// merge unions overlapping or touching spans of a single weekday.
func merge(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	out := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.start <= last.end {
			last.end = max(last.end, s.end)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Generate walks the calendar days [from, from+days) in loc and emits
// back-to-back windows of exactly duration inside each day's merged blocks.
// Windows starting before from are dropped, so passing time.Now() never
// yields past slots. The result is sorted and free of overlaps.
func Generate(blocks []*model.AvailabilityBlock, from time.Time, days int, duration time.Duration, loc *time.Location) []Window {
	if days <= 0 || duration <= 0 || len(blocks) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	byWeekday := make(map[time.Weekday][]span)
	for _, b := range blocks {
		if ValidateBlock(b.Weekday, b.StartMinute, b.EndMinute) != nil {
			continue
		}
		wd := time.Weekday(b.Weekday)
		byWeekday[wd] = append(byWeekday[wd], span{start: b.StartMinute, end: b.EndMinute})
	}
	for wd, spans := range byWeekday {
		byWeekday[wd] = merge(spans)
	}

	local := from.In(loc)
	first := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var windows []Window
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		for _, s := range byWeekday[day.Weekday()] {
			// Wall-clock arithmetic keeps slots stable across DST changes.
			blockEnd := time.Date(day.Year(), day.Month(), day.Day(), 0, s.end, 0, 0, loc)
			start := time.Date(day.Year(), day.Month(), day.Day(), 0, s.start, 0, 0, loc)
			for end := start.Add(duration); !end.After(blockEnd); end = start.Add(duration) {
				if !start.Before(from) {
					windows = append(windows, Window{Start: start, End: end})
				}
				start = end
			}
		}
	}

	return windows
}
