package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pventura/congregation-admin/pkg/core/catalog"
)

func TestCivilDate_ISO(t *testing.T) {
	d := CivilDate{Year: 2025, Month: time.March, Day: 7}
	assert.Equal(t, "2025-03-07", d.ISO())
}

func TestParseCivilDate_RoundTrip(t *testing.T) {
	d, err := ParseCivilDate("2025-11-30")
	require.NoError(t, err)
	assert.Equal(t, CivilDate{Year: 2025, Month: time.November, Day: 30}, d)
	assert.Equal(t, "2025-11-30", d.ISO())
}

func TestParseCivilDate_Invalid(t *testing.T) {
	_, err := ParseCivilDate("30/11/2025")
	assert.Error(t, err)
}

func TestCivilDate_Weekday_IndependentOfLocalZone(t *testing.T) {
	// 2025-06-01 is a Sunday everywhere on the wall calendar.
	d := CivilDate{Year: 2025, Month: time.June, Day: 1}

	original := time.Local
	defer func() { time.Local = original }()

	for _, name := range []string{"UTC", "Pacific/Kiritimati", "Pacific/Pago_Pago"} {
		loc, err := time.LoadLocation(name)
		require.NoError(t, err)
		time.Local = loc
		assert.Equal(t, time.Sunday, d.Weekday(), "zone %s", name)
	}
}

func TestCivilDate_WeekKey(t *testing.T) {
	// Thursday 2025-06-05 belongs to the week of Sunday 2025-06-01.
	thu := CivilDate{Year: 2025, Month: time.June, Day: 5}
	assert.Equal(t, "2025-06-01", thu.WeekKey().ISO())

	// A Sunday is its own week key.
	sun := CivilDate{Year: 2025, Month: time.June, Day: 1}
	assert.Equal(t, "2025-06-01", sun.WeekKey().ISO())
}

func TestCivilDate_Before(t *testing.T) {
	a := CivilDate{Year: 2025, Month: time.January, Day: 31}
	b := CivilDate{Year: 2025, Month: time.February, Day: 1}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-03", MonthKey(time.March, 2025))
	assert.Equal(t, "2024-12", MonthKey(time.December, 2024))
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver("FREQ=WEEKLY;BYDAY=TH", "FREQ=WEEKLY;BYDAY=SU")
	require.NoError(t, err)
	return r
}

func TestNewResolver_RejectsBadRule(t *testing.T) {
	_, err := NewResolver("FREQ=SOMETIMES", "FREQ=WEEKLY;BYDAY=SU")
	assert.Error(t, err)
}

func TestResolveMonth_OnlyConfiguredWeekdays(t *testing.T) {
	r := newTestResolver(t)

	dates, err := r.ResolveMonth(time.June, 2025)
	require.NoError(t, err)
	require.NotEmpty(t, dates)

	for _, md := range dates {
		wd := md.Date.Weekday()
		switch md.Meeting {
		case catalog.MeetingMidweek:
			assert.Equal(t, time.Thursday, wd)
		case catalog.MeetingWeekend:
			assert.Equal(t, time.Sunday, wd)
		default:
			t.Fatalf("unexpected meeting type %q", md.Meeting)
		}
	}
}

func TestResolveMonth_OrderedWithoutDuplicates(t *testing.T) {
	r := newTestResolver(t)

	dates, err := r.ResolveMonth(time.June, 2025)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i, md := range dates {
		assert.False(t, seen[md.Date.ISO()], "duplicate date %s", md.Date.ISO())
		seen[md.Date.ISO()] = true
		if i > 0 {
			assert.True(t, dates[i-1].Date.Before(md.Date))
		}
	}
}

func TestResolveMonth_June2025Exact(t *testing.T) {
	// June 2025: Sundays 1, 8, 15, 22, 29; Thursdays 5, 12, 19, 26.
	r := newTestResolver(t)

	dates, err := r.ResolveMonth(time.June, 2025)
	require.NoError(t, err)
	require.Len(t, dates, 9)

	assert.Equal(t, "2025-06-01", dates[0].Date.ISO())
	assert.Equal(t, catalog.MeetingWeekend, dates[0].Meeting)
	assert.Equal(t, "2025-06-05", dates[1].Date.ISO())
	assert.Equal(t, catalog.MeetingMidweek, dates[1].Meeting)
	assert.Equal(t, "2025-06-29", dates[8].Date.ISO())
}

func TestResolveMonth_StaysInsideMonth(t *testing.T) {
	r := newTestResolver(t)

	for month := time.January; month <= time.December; month++ {
		dates, err := r.ResolveMonth(month, 2025)
		require.NoError(t, err)
		for _, md := range dates {
			assert.Equal(t, month, md.Date.Month)
			assert.Equal(t, 2025, md.Date.Year)
		}
	}
}

func TestResolveMonth_OverlappingRulesRejected(t *testing.T) {
	r, err := NewResolver("FREQ=WEEKLY;BYDAY=SU", "FREQ=WEEKLY;BYDAY=SU")
	require.NoError(t, err)

	_, err = r.ResolveMonth(time.June, 2025)
	assert.ErrorContains(t, err, "overlap")
}
