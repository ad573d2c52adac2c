package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// annotationRe matches parenthesized footnotes such as "(01)" in "28,4(01)".
var annotationRe = regexp.MustCompile(`\(.*?\)`)

// spanishMonths maps AEMET three-letter month abbreviations to month numbers.
var spanishMonths = map[string]int{
	"ene": 1, "feb": 2, "mar": 3, "abr": 4, "may": 5, "jun": 6,
	"jul": 7, "ago": 8, "sep": 9, "oct": 10, "nov": 11, "dic": 12,
}

// fullDateLayouts are tried in order by NormalizeFullDate. Slash and dash
// forms are day-first; only the unambiguous ISO forms start with the year.
var fullDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"02/01/06",
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

func invalid(kind ValueKind) Value { return Value{Kind: kind} }

// NormalizeNumeric parses a possibly annotated numeric cell.
//
//	"28/22.2(01)" → 22.2   (last reading of a slash pair, footnote dropped)
//	"28,4(01)"    → 28.4   (decimal comma)
//	"abc"         → invalid
func NormalizeNumeric(raw string) Value {
	s := strings.TrimSpace(raw)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = annotationRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(KindFloat)
	}
	return Value{Kind: KindFloat, Valid: true, Float: v}
}

// NormalizeInt parses a plain integer cell.
func NormalizeInt(raw string) Value {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return invalid(KindInt)
	}
	return Value{Kind: KindInt, Valid: true, Int: n}
}

// NormalizeMonthDate completes a year-month token ("2019-05" or "2019-5")
// with day 01. Month 13, the annual summary row, is invalid.
func NormalizeMonthDate(raw string) Value {
	t, err := time.Parse("2006-1-02", strings.TrimSpace(raw)+"-01")
	if err != nil {
		return invalid(KindDate)
	}
	return Value{Kind: KindDate, Valid: true, Date: t}
}

// NormalizeFullDate parses a date using the day-before-month convention.
func NormalizeFullDate(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return invalid(KindDate)
	}
	for _, layout := range fullDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Value{Kind: KindDate, Valid: true, Date: t}
		}
	}
	return invalid(KindDate)
}

// NormalizeHourOrPartialDate disambiguates the free-form "hora" column of the
// extremes export. Rules, first match wins:
//
//	"13-26"  → "13:26"    hour range
//	"20-ago" → "20-08"    day-month
//	"may-49" → "05-1949"  month and two-digit year, always 19YY
func NormalizeHourOrPartialDate(raw string) Value {
	s := strings.ToLower(strings.TrimSpace(raw))

	if strings.Contains(s, "-") && isDigits(head(s, 2)) && isDigits(tail(s, 2)) {
		return token(strings.ReplaceAll(s, "-", ":"))
	}

	if parts := strings.Split(s, "-"); len(parts) == 2 {
		if month, ok := spanishMonths[head(parts[1], 3)]; ok {
			if day, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
				return token(fmt.Sprintf("%02d-%02d", day, month))
			}
		}
	}

	if month, ok := spanishMonths[head(s, 3)]; ok && isDigits(tail(s, 2)) {
		return token(fmt.Sprintf("%02d-19%s", month, tail(s, 2)))
	}

	return invalid(KindToken)
}

func token(s string) Value { return Value{Kind: KindToken, Valid: true, Text: s} }

// head returns the first n bytes of s, or all of s when shorter.
func head(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// tail returns the last n bytes of s, or all of s when shorter.
func tail(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[len(s)-n:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeCell applies the normalizer selected by the column kind.
func normalizeCell(kind ColumnKind, raw string) Value {
	switch kind {
	case ColFloat:
		return NormalizeNumeric(raw)
	case ColInt:
		return NormalizeInt(raw)
	case ColMonthDate:
		return NormalizeMonthDate(raw)
	case ColFullDate:
		return NormalizeFullDate(raw)
	case ColHourToken:
		return NormalizeHourOrPartialDate(raw)
	default:
		return TextValue(raw)
	}
}
