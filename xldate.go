package oosheet

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// epoch is serial day 0 of the spreadsheet calendar.
var epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// DateToSerial converts t to a serial day count. The fractional part holds
// the time of day. The wall clock of t is used and its location ignored.
func DateToSerial(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	secs := wall.Unix() - epoch.Unix()
	serial := float64(secs) / secondsPerDay
	if ns := wall.Nanosecond(); ns != 0 {
		serial += float64(ns) / 1e9 / secondsPerDay
	}
	return serial
}

// SerialToDate converts a serial day count to a UTC time, rounded to the
// nearest second.
func SerialToDate(serial float64) time.Time {
	days := math.Floor(serial)
	secs := math.Round((serial - days) * secondsPerDay)
	return epoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)
}

var (
	dateChars     = "yYmMdDhHsS"
	numberChars   = "0#?"
	skipChars     = "$-+/():, "
	bracketed     = regexp.MustCompile(`\[.*?\]`)
	nonDateFormat = map[string]bool{
		"0.00E+00": true,
		"##0.0E+0": true,
		"general":  true,
		"@":        true,
	}
)

// IsDateFormat reports whether a number format code displays dates or
// times. Quoted literals, escaped characters and bracketed sections are
// ignored. A code is date-like when it contains y, m, d, h or s and no
// digit placeholders.
func IsDateFormat(code string) bool {
	var b strings.Builder
	const (
		plain = iota
		quoted
		escaped
	)
	state := plain
	for _, c := range code {
		switch state {
		case quoted:
			if c == '"' {
				state = plain
			}
		case escaped:
			state = plain
		default:
			switch {
			case c == '"':
				state = quoted
			case c == '\\' || c == '_' || c == '*':
				state = escaped
			case strings.ContainsRune(skipChars, c):
			default:
				b.WriteRune(c)
			}
		}
	}

	reduced := bracketed.ReplaceAllString(b.String(), "")
	if reduced == "" || nonDateFormat[strings.ToLower(reduced)] || nonDateFormat[reduced] {
		return false
	}
	// Only the first section decides; later ones format negatives and text.
	reduced, _, _ = strings.Cut(reduced, ";")

	var dates, numbers int
	for _, c := range reduced {
		switch {
		case strings.ContainsRune(dateChars, c):
			dates++
		case strings.ContainsRune(numberChars, c):
			numbers++
		}
	}
	return dates > 0 && numbers == 0
}
