package domain

import (
	"strconv"
	"strings"
	"time"
)

// Record is one raw source row keyed by column name.
type Record map[string]string

// Table is a parsed source file: the header in file order plus every row.
type Table struct {
	Header  []string
	Records []Record
}

// HasColumn reports whether the header contains name.
func (t Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// ValueKind identifies which field of a Value is populated.
type ValueKind int

const (
	KindText ValueKind = iota
	KindFloat
	KindInt
	KindDate
	KindToken
)

// Value is a normalized cell. Valid is false when normalization failed; the
// remaining fields are then meaningless.
type Value struct {
	Kind  ValueKind
	Valid bool
	Text  string // KindText and KindToken
	Float float64
	Int   int
	Date  time.Time
}

// TextValue wraps a pass-through cell. Text is always valid.
func TextValue(s string) Value { return Value{Kind: KindText, Valid: true, Text: s} }

// Number returns the value as float64 for range checks. Only float and int
// values are numeric.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.Float, v.Valid
	case KindInt:
		return float64(v.Int), v.Valid
	default:
		return 0, false
	}
}

// String renders the value in plain (decimal point) form.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	switch v.Kind {
	case KindFloat:
		return formatFloat(v.Float)
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindDate:
		return v.Date.Format(time.DateOnly)
	default:
		return v.Text
	}
}

// formatFloat mirrors Python's float repr for ordinary magnitudes: integral
// values keep a trailing ".0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Compare orders two values of the same kind. Invalid values sort last.
func (v Value) Compare(o Value) int {
	switch {
	case !v.Valid && !o.Valid:
		return 0
	case !v.Valid:
		return 1
	case !o.Valid:
		return -1
	}
	switch v.Kind {
	case KindFloat:
		return cmpOrdered(v.Float, o.Float)
	case KindInt:
		return cmpOrdered(v.Int, o.Int)
	case KindDate:
		return v.Date.Compare(o.Date)
	default:
		return strings.Compare(v.Text, o.Text)
	}
}

func cmpOrdered[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Row is a projected row. Values align with the owning Dataset's Columns.
type Row []Value

// Dataset is the cleaned output of one run.
type Dataset struct {
	Selector Selector
	Columns  []Column
	Rows     []Row
}

// ColumnIndex returns the position of the named output column, or -1.
func (d Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Rejection reasons.
const (
	ReasonInvalidValue = "invalid_value"
	ReasonOutOfRange   = "out_of_range"
)

// Rejection explains why a row was not admitted.
type Rejection struct {
	Column string
	Reason string
	Raw    string
}

// Report summarizes a cleaning run.
type Report struct {
	Selector Selector
	Read     int
	Admitted int
	Rejected map[string]int // by reason
}

// RejectedTotal sums rejections across reasons.
func (r Report) RejectedTotal() int {
	n := 0
	for _, c := range r.Rejected {
		n += c
	}
	return n
}
