// Package deadline computes business-day-aware taxation deadlines that
// respect weekends, gazetted public holidays and the annual 16 December
// to 15 January court recess. Pure date arithmetic, no I/O.
package deadline

import (
	"fmt"
	"time"

	"lexbill/internal/domain"
)

// Result is the outcome of a deadline calculation.
type Result struct {
	AdjustedDate time.Time `json:"adjusted_date"`
	WasAdjusted  bool      `json:"was_adjusted"`
	Reason       string    `json:"reason,omitempty"`
}

// Calculator answers business-day and recess questions. It caches
// holiday lists per year and is safe for concurrent use after
// construction.
type Calculator struct {
	holidays map[int][]time.Time
}

// NewCalculator creates a Calculator with holidays precomputed for the
// given year range (inclusive).
func NewCalculator(fromYear, toYear int) *Calculator {
	c := &Calculator{holidays: make(map[int][]time.Time)}
	for y := fromYear; y <= toYear; y++ {
		c.holidays[y] = holidaysForYear(y)
	}
	return c
}

// IsPublicHoliday reports whether the date is a gazetted holiday
// (including Monday observance of a Sunday holiday).
func (c *Calculator) IsPublicHoliday(d time.Time) bool {
	days, ok := c.holidays[d.Year()]
	if !ok {
		days = holidaysForYear(d.Year())
	}
	for _, h := range days {
		if sameDay(h, d) {
			return true
		}
	}
	return false
}

// IsBusinessDay reports whether the date is a weekday that is not a
// public holiday.
func (c *Calculator) IsBusinessDay(d time.Time) bool {
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.IsPublicHoliday(d)
}

// IsInBlackout reports whether the date falls inside the annual court
// recess, 16 December through 15 January inclusive. January dates
// belong to the previous year's window.
func (c *Calculator) IsInBlackout(d time.Time) bool {
	switch d.Month() {
	case time.December:
		return d.Day() >= 16
	case time.January:
		return d.Day() <= 15
	default:
		return false
	}
}

// BlackoutEnd returns the day the recess containing (or following) the
// date's window ends: 15 January of the applicable year.
func (c *Calculator) BlackoutEnd(d time.Time) time.Time {
	year := d.Year()
	if d.Month() == time.December {
		year++
	}
	return date(year, time.January, 15)
}

// NextBusinessDay returns the first business day strictly after d.
func (c *Calculator) NextBusinessDay(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	for !c.IsBusinessDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// AddBusinessDays adds n business days to d, skipping weekends and
// public holidays. n must be non-negative.
func (c *Calculator) AddBusinessDays(d time.Time, n int) time.Time {
	out := d
	for added := 0; added < n; {
		out = out.AddDate(0, 0, 1)
		if c.IsBusinessDay(out) {
			added++
		}
	}
	return out
}

// CalculateDeadline adds the requested business days to the base date
// and applies the recess rule to the landing date.
//
// Urgent, criminal and appeal matters are exempt: their statutory
// deadlines run through the recess and the unadjusted date is returned
// with an explanatory reason. For ordinary matters a landing date
// inside the recess is pushed to the first business day after the
// recess ends.
func (c *Calculator) CalculateDeadline(base time.Time, businessDays int, matterType domain.MatterType) Result {
	landing := c.AddBusinessDays(base, businessDays)

	if !c.IsInBlackout(landing) {
		return Result{AdjustedDate: landing}
	}

	if domain.BlackoutExemptMatters[matterType] {
		return Result{
			AdjustedDate: landing,
			Reason: fmt.Sprintf(
				"%s matter: the statutory deadline runs through the court recess and cannot be extended",
				matterType),
		}
	}

	end := c.BlackoutEnd(landing)
	adjusted := end.AddDate(0, 0, 1)
	if !c.IsBusinessDay(adjusted) {
		adjusted = c.NextBusinessDay(adjusted)
	}
	return Result{
		AdjustedDate: adjusted,
		WasAdjusted:  true,
		Reason: fmt.Sprintf(
			"deadline of %s falls within the court recess (16 Dec to 15 Jan); moved to the first business day after the recess",
			landing.Format("2006-01-02")),
	}
}
