package deadline

import "time"

// holidaysForYear returns the gazetted South African public holidays for
// a year, per the Public Holidays Act: the fixed statutory days, the
// Easter-derived Good Friday and Family Day, and the Monday observance
// of any holiday falling on a Sunday.
func holidaysForYear(year int) []time.Time {
	easter := easterSunday(year)
	days := []time.Time{
		date(year, time.January, 1),    // New Year's Day
		date(year, time.March, 21),     // Human Rights Day
		easter.AddDate(0, 0, -2),       // Good Friday
		easter.AddDate(0, 0, 1),        // Family Day
		date(year, time.April, 27),     // Freedom Day
		date(year, time.May, 1),        // Workers' Day
		date(year, time.June, 16),      // Youth Day
		date(year, time.August, 9),     // National Women's Day
		date(year, time.September, 24), // Heritage Day
		date(year, time.December, 16),  // Day of Reconciliation
		date(year, time.December, 25),  // Christmas Day
		date(year, time.December, 26),  // Day of Goodwill
	}
	var all []time.Time
	for _, d := range days {
		all = append(all, d)
		if d.Weekday() == time.Sunday {
			all = append(all, d.AddDate(0, 0, 1))
		}
	}
	return all
}

// easterSunday computes Easter for a Gregorian year (anonymous
// Gregorian computus).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return date(year, time.Month(month), day)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
