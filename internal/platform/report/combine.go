package report

import (
	"math"
	"sort"
	"time"
)

// DayEntry pairs one day's payload with its calendar date so that ordering
// corrections can be applied after summation.
type DayEntry struct {
	Date time.Time
	Data *Data
}

// CombineOptions control the corrections applied after the raw sum.
type CombineOptions struct {
	// HeadcountSnapshot replaces the summed start/end headcounts with the
	// first available day's start and the last available day's end. Headcounts
	// are point-in-time figures and must not be added across days.
	HeadcountSnapshot bool
	// StampObservations prefixes each day's narrative text with its dd/MM
	// date so that multiple days stay individually attributable.
	StampObservations bool
}

// Combine deep-sums the given days into a single payload. Entries are
// processed in date order regardless of the order they were fetched in.
func Combine(entries []DayEntry, opts CombineOptions) *Data {
	sorted := make([]DayEntry, 0, len(entries))
	for _, e := range entries {
		if e.Data != nil {
			sorted = append(sorted, e)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	total := &Data{}
	for _, e := range sorted {
		day := e.Data
		if opts.StampObservations {
			day = stampObservations(day, e.Date)
		}
		Sum(total, day)
	}

	if opts.HeadcountSnapshot {
		applyHeadcountSnapshot(total, sorted)
	}
	return total
}

// applyHeadcountSnapshot overrides the summed headcounts with the first
// available day's effectifDebut and the last available day's effectifFin.
func applyHeadcountSnapshot(total *Data, sorted []DayEntry) {
	if total.Movements == nil {
		return
	}
	for _, e := range sorted {
		if e.Data.Movements != nil {
			total.Movements.EffectifDebut = e.Data.Movements.EffectifDebut
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Data.Movements != nil {
			total.Movements.EffectifFin = sorted[i].Data.Movements.EffectifFin
			break
		}
	}
}

// stampObservations returns a copy of day with each non-blank narrative field
// prefixed by the day's dd/MM date.
func stampObservations(day *Data, date time.Time) *Data {
	stamped := *day
	prefix := date.Format("02/01")
	stamped.Observations = Observations{
		Pannes:  stampText(day.Observations.Pannes, prefix),
		General: stampText(day.Observations.General, prefix),
	}
	return &stamped
}

func stampText(text, prefix string) string {
	if trimText(text) == "" {
		return ""
	}
	return prefix + " - " + trimText(text)
}

func trimText(s string) string {
	return JoinText(s, "")
}

// Occupancy computes the occupancy percentage from the mean of start and end
// headcounts against the service's bed capacity. Returns nil when the service
// has no bed capacity or the payload has no hospitalization figures.
func Occupancy(data *Data, bedCapacity int) *int {
	if bedCapacity <= 0 || data == nil || data.Movements == nil {
		return nil
	}
	mean := float64(data.Movements.EffectifDebut+data.Movements.EffectifFin) / 2
	pct := int(math.Round(mean / float64(bedCapacity) * 100))
	return &pct
}

// WeekBounds returns the Monday and Sunday of the ISO week containing d.
func WeekBounds(d time.Time) (start, end time.Time) {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	start = d.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// MonthBounds returns the first and last day of the given calendar month.
func MonthBounds(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}
