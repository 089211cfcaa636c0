package core

import (
	"time"

	"godwithyou.app/server/internal/store"
)

// TrendThreshold is the minimum change in a window average before a metric is
// classified as moving rather than stable.
const TrendThreshold = 0.3

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// NullPolicy controls how missing numeric fields enter an average.
type NullPolicy int

const (
	// NullAsZero counts a missing value as 0 and keeps it in the denominator.
	NullAsZero NullPolicy = iota
	// NullExcluded drops missing values from both numerator and denominator.
	NullExcluded
)

// Streak counts consecutive calendar days with a log, ending at the most
// recent one. Logs must be sorted by date descending. The streak is 0 when
// the most recent log is more than one day before today.
func Streak(logs []store.DailyLog, today time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	mostRecent, err := time.Parse("2006-01-02", logs[0].LogDate)
	if err != nil {
		return 0
	}

	todayDay := today.Truncate(24 * time.Hour)
	daysSince := int(todayDay.Sub(mostRecent.Truncate(24*time.Hour)).Hours() / 24)
	if daysSince > 1 {
		return 0
	}

	streak := 1
	prev := mostRecent
	for _, logEntry := range logs[1:] {
		d, err := time.Parse("2006-01-02", logEntry.LogDate)
		if err != nil {
			break
		}
		if int(prev.Sub(d).Hours()/24) != 1 {
			break
		}
		streak++
		prev = d
	}
	return streak
}

// Average computes the arithmetic mean of a window of nullable values under
// the given null policy. Returns 0 for an empty window.
func Average(values []*float64, policy NullPolicy) float64 {
	var sum float64
	var count int
	for _, v := range values {
		switch {
		case v != nil:
			sum += *v
			count++
		case policy == NullAsZero:
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Trend classifies the movement of a window average against the preceding
// window of equal length.
func Trend(current, previous float64) string {
	diff := current - previous
	switch {
	case diff > TrendThreshold:
		return TrendUp
	case diff < -TrendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// MetricSummary is the derived view of one numeric check-in field.
type MetricSummary struct {
	Average float64 `json:"average"`
	Trend   string  `json:"trend"`
}

// StatsSummary aggregates the dashboard numbers for one window size.
type StatsSummary struct {
	WindowDays int           `json:"window_days"`
	Streak     int           `json:"streak"`
	Mood       MetricSummary `json:"mood"`
	Energy     MetricSummary `json:"energy"`
	Sleep      MetricSummary `json:"sleep"`
	Focus      MetricSummary `json:"focus"`
}

// Summarize derives streak, per-field window averages, and trends versus the
// immediately preceding window of equal length. Logs must be sorted by date
// descending and should cover at least 2*windowDays entries for trends to be
// meaningful.
func Summarize(logs []store.DailyLog, today time.Time, windowDays int, policy NullPolicy) StatsSummary {
	current := windowLogs(logs, today, 0, windowDays)
	previous := windowLogs(logs, today, windowDays, windowDays)

	summary := StatsSummary{
		WindowDays: windowDays,
		Streak:     Streak(logs, today),
	}
	summary.Mood = summarizeField(current, previous, moodValue, policy)
	summary.Energy = summarizeField(current, previous, energyValue, policy)
	summary.Sleep = summarizeField(current, previous, sleepValue, policy)
	summary.Focus = summarizeField(current, previous, focusValue, policy)
	return summary
}

func summarizeField(current, previous []store.DailyLog, field func(store.DailyLog) *float64, policy NullPolicy) MetricSummary {
	curAvg := Average(collect(current, field), policy)
	prevAvg := Average(collect(previous, field), policy)
	return MetricSummary{
		Average: curAvg,
		Trend:   Trend(curAvg, prevAvg),
	}
}

// windowLogs selects logs whose date falls in the half-open range
// (today - offset - days, today - offset].
func windowLogs(logs []store.DailyLog, today time.Time, offsetDays, days int) []store.DailyLog {
	end := today.Truncate(24 * time.Hour).AddDate(0, 0, -offsetDays)
	start := end.AddDate(0, 0, -days)

	var window []store.DailyLog
	for _, logEntry := range logs {
		d, err := time.Parse("2006-01-02", logEntry.LogDate)
		if err != nil {
			continue
		}
		if d.After(start) && !d.After(end) {
			window = append(window, logEntry)
		}
	}
	return window
}

func collect(logs []store.DailyLog, field func(store.DailyLog) *float64) []*float64 {
	values := make([]*float64, 0, len(logs))
	for _, logEntry := range logs {
		values = append(values, field(logEntry))
	}
	return values
}

func moodValue(l store.DailyLog) *float64   { return intField(l.Mood) }
func energyValue(l store.DailyLog) *float64 { return intField(l.Energy) }
func sleepValue(l store.DailyLog) *float64  { return l.SleepHours }
func focusValue(l store.DailyLog) *float64  { return l.FocusHours }

func intField(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
