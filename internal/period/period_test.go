package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestISOWeekOf(t *testing.T) {
	tests := []struct {
		date     time.Time
		wantYear int
		wantWeek int
	}{
		// Jan 1 2025 is a Wednesday, before the Thursday of its week.
		{date(2025, time.January, 1), 2025, 1},
		// Dec 31 2024 already belongs to ISO 2025.
		{date(2024, time.December, 31), 2025, 1},
		// Dec 29 2024 is a Sunday, still in the last week of 2024.
		{date(2024, time.December, 29), 2024, 52},
		// Jan 1 2021 is a Friday of the 53rd week of 2020.
		{date(2021, time.January, 1), 2020, 53},
		{date(2020, time.December, 31), 2020, 53},
		// Dec 30 2019 is the Monday opening ISO 2020.
		{date(2019, time.December, 30), 2020, 1},
		{date(2025, time.June, 27), 2025, 26},
	}

	for _, tt := range tests {
		y, w := ISOWeekOf(tt.date)
		assert.Equal(t, tt.wantYear, y, "year of %s", tt.date.Format("2006-01-02"))
		assert.Equal(t, tt.wantWeek, w, "week of %s", tt.date.Format("2006-01-02"))
	}
}

func TestWeeksInYear(t *testing.T) {
	assert.Equal(t, 53, WeeksInYear(2020))
	assert.Equal(t, 52, WeeksInYear(2021))
	assert.Equal(t, 53, WeeksInYear(2015))
	assert.Equal(t, 52, WeeksInYear(2025))
}

func TestWeekRange(t *testing.T) {
	mon, sun := WeekRange(2025, 1)
	assert.Equal(t, date(2024, time.December, 30), mon)
	assert.Equal(t, date(2025, time.January, 5), sun)

	mon, sun = WeekRange(2025, 27)
	assert.Equal(t, date(2025, time.June, 30), mon)
	assert.Equal(t, date(2025, time.July, 6), sun)

	mon, sun = WeekRange(2020, 53)
	assert.Equal(t, date(2020, time.December, 28), mon)
	assert.Equal(t, date(2021, time.January, 3), sun)

	// Every range starts on Monday and spans seven days.
	for week := 1; week <= 52; week++ {
		mon, sun = WeekRange(2024, week)
		assert.Equal(t, time.Monday, mon.Weekday())
		assert.Equal(t, time.Sunday, sun.Weekday())
		assert.Equal(t, 6*24*time.Hour, sun.Sub(mon))
	}
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(2025, time.June)
	assert.Equal(t, date(2025, time.June, 1), first)
	assert.Equal(t, date(2025, time.June, 30), last)

	_, last = MonthRange(2024, time.February)
	assert.Equal(t, 29, last.Day(), "2024 is a leap year")

	_, last = MonthRange(2025, time.February)
	assert.Equal(t, 28, last.Day())

	_, last = MonthRange(2025, time.December)
	assert.Equal(t, 31, last.Day())
}

func TestCurrent(t *testing.T) {
	now := time.Date(2025, time.June, 27, 15, 30, 0, 0, time.UTC)

	week := Current(TypeWeekly, now)
	assert.Equal(t, "2025-W26", week.Key)
	assert.Equal(t, date(2025, time.June, 23), week.Start)
	assert.Equal(t, date(2025, time.June, 29), week.End)
	assert.True(t, week.Contains(now))

	month := Current(TypeMonthly, now)
	assert.Equal(t, "2025-06", month.Key)
	assert.Equal(t, date(2025, time.June, 1), month.Start)
	assert.Equal(t, date(2025, time.June, 30), month.End)
	assert.True(t, month.Contains(now))
}

func TestParse(t *testing.T) {
	p, err := Parse(TypeWeekly, "2025-W27")
	require.NoError(t, err)
	assert.Equal(t, "2025-W27", p.Key)
	assert.Equal(t, date(2025, time.June, 30), p.Start)

	p, err = Parse(TypeMonthly, "2024-02")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), p.End)

	_, err = Parse(TypeWeekly, "2021-W53")
	assert.ErrorIs(t, err, ErrNoSuchPeriod, "2021 has only 52 ISO weeks")

	_, err = Parse(TypeWeekly, "2020-W53")
	assert.NoError(t, err, "2020 has 53 ISO weeks")

	_, err = Parse(TypeMonthly, "2025-13")
	assert.ErrorIs(t, err, ErrNoSuchPeriod)

	for _, key := range []string{"2025-6", "garbage", "2025W27", "2025-06-01", ""} {
		_, err = Parse(TypeMonthly, key)
		assert.ErrorIs(t, err, ErrMalformedKey, "key %q", key)
	}
	_, err = Parse(TypeWeekly, "2025-06")
	assert.ErrorIs(t, err, ErrMalformedKey)
}

func TestCompare(t *testing.T) {
	early, err := Parse(TypeWeekly, "2025-W02")
	require.NoError(t, err)
	late, err := Parse(TypeWeekly, "2025-W10")
	require.NoError(t, err)

	assert.Negative(t, Compare(early, late))
	assert.Positive(t, Compare(late, early))
	assert.Zero(t, Compare(early, early))

	// Zero-padding keeps lexicographic order chronological across years.
	prev, err := Parse(TypeWeekly, "2024-W52")
	require.NoError(t, err)
	assert.Negative(t, Compare(prev, early))
}

func TestLabel(t *testing.T) {
	month, err := Parse(TypeMonthly, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, "Июнь 2025", month.Label("ru"))
	assert.Equal(t, "June 2025", month.Label("en"))
	assert.Equal(t, "June 2025", month.Label("xx"), "unknown locale falls back to English")

	week, err := Parse(TypeWeekly, "2025-W27")
	require.NoError(t, err)
	assert.Equal(t, "Неделя 27, 2025 (30.06 – 06.07)", week.Label("ru"))
	assert.Equal(t, "Week 27, 2025 (30.06 – 06.07)", week.Label("en"))
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"weekly", "monthly"} {
		typ, err := ParseType(s)
		require.NoError(t, err)
		assert.Equal(t, Type(s), typ)
	}
	_, err := ParseType("daily")
	assert.Error(t, err)
}
