// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/property-forecast/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// AddYears offsets a settlement date by whole years, e.g. to find the sale
// date at the end of a holding period.
func AddYears(date string, years int) (string, error) {
	return OffsetDate(date, DateTimeLayout, years*constants.MonthsPerYear)
}

// Year returns the calendar year of a settlement date.
func Year(date string) (int, error) {
	t, err := time.Parse(DateTimeLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q, expected YYYY-MM: %w", date, err)
	}
	return t.Year(), nil
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateTimeLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateTimeLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}
