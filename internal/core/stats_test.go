package core

import (
	"testing"
	"time"

	"godwithyou.app/server/internal/store"
)

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func logsForDates(dates ...string) []store.DailyLog {
	logs := make([]store.DailyLog, 0, len(dates))
	for _, d := range dates {
		logs = append(logs, store.DailyLog{LogDate: d})
	}
	return logs
}

func TestStreak(t *testing.T) {
	today := mustDate("2026-08-30")

	tests := []struct {
		name     string
		logs     []store.DailyLog
		expected int
	}{
		{
			name:     "no logs",
			logs:     nil,
			expected: 0,
		},
		{
			name:     "single log today",
			logs:     logsForDates("2026-08-30"),
			expected: 1,
		},
		{
			name:     "single log yesterday",
			logs:     logsForDates("2026-08-29"),
			expected: 1,
		},
		{
			name:     "most recent log two days ago",
			logs:     logsForDates("2026-08-28", "2026-08-27"),
			expected: 0,
		},
		{
			name:     "five contiguous days",
			logs:     logsForDates("2026-08-30", "2026-08-29", "2026-08-28", "2026-08-27", "2026-08-26"),
			expected: 5,
		},
		{
			name:     "gap breaks the streak",
			logs:     logsForDates("2026-08-30", "2026-08-29", "2026-08-26", "2026-08-25"),
			expected: 2,
		},
		{
			name:     "streak ending yesterday",
			logs:     logsForDates("2026-08-29", "2026-08-28", "2026-08-27"),
			expected: 3,
		},
		{
			name:     "unparseable date stops the walk",
			logs:     logsForDates("2026-08-30", "not-a-date", "2026-08-28"),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.logs, today); got != tt.expected {
				t.Errorf("Streak() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestStreakLongContiguousRun(t *testing.T) {
	today := mustDate("2026-08-30")

	// 30 back-to-back days ending today.
	var logs []store.DailyLog
	for i := 0; i < 30; i++ {
		logs = append(logs, store.DailyLog{LogDate: today.AddDate(0, 0, -i).Format("2006-01-02")})
	}

	if got := Streak(logs, today); got != 30 {
		t.Errorf("Streak() = %d, want 30", got)
	}
}

func f(v float64) *float64 { return &v }

func TestAverage(t *testing.T) {
	tests := []struct {
		name     string
		values   []*float64
		policy   NullPolicy
		expected float64
	}{
		{
			name:     "empty window",
			values:   nil,
			policy:   NullAsZero,
			expected: 0,
		},
		{
			name:     "all present",
			values:   []*float64{f(2), f(4), f(6)},
			policy:   NullAsZero,
			expected: 4,
		},
		{
			name:     "null counted as zero drags the average down",
			values:   []*float64{f(6), nil, f(6)},
			policy:   NullAsZero,
			expected: 4,
		},
		{
			name:     "null excluded from denominator",
			values:   []*float64{f(6), nil, f(6)},
			policy:   NullExcluded,
			expected: 6,
		},
		{
			name:     "all null excluded",
			values:   []*float64{nil, nil},
			policy:   NullExcluded,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Average(tt.values, tt.policy); got != tt.expected {
				t.Errorf("Average() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected string
	}{
		{name: "difference of +0.31 is up", current: 5.31, previous: 5.0, expected: TrendUp},
		{name: "difference of +0.29 is stable", current: 5.29, previous: 5.0, expected: TrendStable},
		{name: "difference of -0.31 is down", current: 4.69, previous: 5.0, expected: TrendDown},
		{name: "difference of -0.29 is stable", current: 4.71, previous: 5.0, expected: TrendStable},
		{name: "no change is stable", current: 5.0, previous: 5.0, expected: TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Trend(tt.current, tt.previous); got != tt.expected {
				t.Errorf("Trend(%v, %v) = %q, want %q", tt.current, tt.previous, got, tt.expected)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	today := mustDate("2026-08-30")
	mood := func(v int) *int { return &v }

	// Current 7-day window averages mood 8, previous window mood 4.
	var logs []store.DailyLog
	for i := 0; i < 7; i++ {
		logs = append(logs, store.DailyLog{
			LogDate: today.AddDate(0, 0, -i).Format("2006-01-02"),
			Mood:    mood(8),
		})
	}
	for i := 7; i < 14; i++ {
		logs = append(logs, store.DailyLog{
			LogDate: today.AddDate(0, 0, -i).Format("2006-01-02"),
			Mood:    mood(4),
		})
	}

	summary := Summarize(logs, today, 7, NullAsZero)

	if summary.Streak != 14 {
		t.Errorf("Streak = %d, want 14", summary.Streak)
	}
	if summary.Mood.Average != 8 {
		t.Errorf("Mood.Average = %v, want 8", summary.Mood.Average)
	}
	if summary.Mood.Trend != TrendUp {
		t.Errorf("Mood.Trend = %q, want %q", summary.Mood.Trend, TrendUp)
	}
	// No sleep data anywhere: both windows average 0, trend stable.
	if summary.Sleep.Trend != TrendStable {
		t.Errorf("Sleep.Trend = %q, want %q", summary.Sleep.Trend, TrendStable)
	}
}
