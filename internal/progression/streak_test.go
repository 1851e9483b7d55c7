package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = Date{Year: 2025, Month: time.March, Day: 10}

func TestAdvanceStreakContinuation(t *testing.T) {
	yesterday := today.AddDays(-1)
	up := AdvanceStreak(5, 12, &yesterday, today)
	assert.Equal(t, uint32(6), up.Current)
	assert.Equal(t, uint32(12), up.Longest)
	assert.Equal(t, today, up.LastActionDate)
}

func TestAdvanceStreakSameDayIsNoOp(t *testing.T) {
	d := today
	up := AdvanceStreak(5, 12, &d, today)
	assert.Equal(t, uint32(5), up.Current)
	assert.Equal(t, uint32(12), up.Longest)
	// last action date still moves to today
	assert.Equal(t, today, up.LastActionDate)
}

func TestAdvanceStreakResetAfterGap(t *testing.T) {
	threeDaysAgo := today.AddDays(-3)
	up := AdvanceStreak(5, 12, &threeDaysAgo, today)
	assert.Equal(t, uint32(1), up.Current)
	assert.Equal(t, uint32(12), up.Longest)
	assert.Equal(t, today, up.LastActionDate)
}

func TestAdvanceStreakFirstAction(t *testing.T) {
	up := AdvanceStreak(0, 0, nil, today)
	assert.Equal(t, uint32(1), up.Current)
	assert.Equal(t, uint32(1), up.Longest)
	assert.Equal(t, today, up.LastActionDate)
}

func TestAdvanceStreakNewLongest(t *testing.T) {
	yesterday := today.AddDays(-1)
	up := AdvanceStreak(12, 12, &yesterday, today)
	assert.Equal(t, uint32(13), up.Current)
	assert.Equal(t, uint32(13), up.Longest)
}

func TestAdvanceStreakAcrossMonthBoundary(t *testing.T) {
	// Feb 28 -> Mar 1 in a non-leap year is consecutive
	first := Date{Year: 2025, Month: time.March, Day: 1}
	feb28 := Date{Year: 2025, Month: time.February, Day: 28}
	up := AdvanceStreak(3, 3, &feb28, first)
	assert.Equal(t, uint32(4), up.Current)
}

func TestDateArithmetic(t *testing.T) {
	d := Date{Year: 2024, Month: time.March, Day: 1}
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d.AddDays(-1), "2024 is a leap year")
	assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 1}, Date{Year: 2023, Month: time.December, Day: 31}.AddDays(1))
	assert.Equal(t, "2024-03-01", d.String())
	assert.Equal(t, d, DateOf(time.Date(2024, time.March, 1, 23, 59, 59, 0, time.UTC)))
}

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func TestTodayUsesUTC(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC; the streak
	// convention follows the UTC day.
	loc := time.FixedZone("UTC-5", -5*3600)
	clk := fixedClock{t: time.Date(2025, time.June, 1, 23, 30, 0, 0, loc)}
	assert.Equal(t, Date{Year: 2025, Month: time.June, Day: 2}, Today(clk))
}
