package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedSchema is returned for selectors outside 1-4.
	ErrUnsupportedSchema = errors.New("unsupported schema")

	// ErrMissingColumn is returned when a required column is absent from the source header.
	ErrMissingColumn = errors.New("missing required column")
)

// Selector identifies one of the supported export shapes.
type Selector int

const (
	SelectorDaily Selector = iota + 1
	SelectorMonthly
	SelectorExtremes
	SelectorNormals
)

func (s Selector) String() string {
	switch s {
	case SelectorDaily:
		return "daily"
	case SelectorMonthly:
		return "monthly"
	case SelectorExtremes:
		return "extremes"
	case SelectorNormals:
		return "normals"
	default:
		return "unknown"
	}
}

// ParseSelector converts user input into a Selector.
func ParseSelector(s string) (Selector, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUnsupportedSchema, s)
	}
	sel := Selector(n)
	if _, ok := registry[sel]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedSchema, n)
	}
	return sel, nil
}

// ColumnKind selects the normalizer applied to a column.
type ColumnKind int

const (
	ColText ColumnKind = iota
	ColFloat
	ColInt
	ColMonthDate
	ColFullDate
	ColHourToken
)

// Range is an inclusive numeric bound.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Column describes one projected column.
type Column struct {
	Name   string // output header
	Source string // input header; equal to Name unless derived
	Kind   ColumnKind
	Range  *Range

	// Optional columns are dropped silently when Source is absent.
	Optional bool
	// Informational columns are normalized but never gate admission.
	Informational bool
}

// Descriptor is the static description of one export shape.
type Descriptor struct {
	Selector Selector
	Name     string
	Columns  []Column
	SortKeys []string
}

// Resolve intersects the descriptor with the columns present in header,
// preserving descriptor order.
func (d Descriptor) Resolve(header []string) ([]Column, error) {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	cols := make([]Column, 0, len(d.Columns))
	for _, c := range d.Columns {
		if present[c.Source] {
			cols = append(cols, c)
			continue
		}
		if !c.Optional {
			return nil, fmt.Errorf("%w: %q (schema %s)", ErrMissingColumn, c.Source, d.Name)
		}
	}
	return cols, nil
}

// Lookup returns the descriptor registered for sel.
func Lookup(sel Selector) (Descriptor, error) {
	d, ok := registry[sel]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnsupportedSchema, int(sel))
	}
	return d, nil
}

var (
	rangeMean      = &Range{Min: 0, Max: 150}
	rangeGust      = &Range{Min: 0, Max: 300}
	rangeDirection = &Range{Min: 0, Max: 360}
	rangeDay       = &Range{Min: 1, Max: 31}
	rangeYear      = &Range{Min: 1900, Max: 2100}
)

func text(name string) Column { return Column{Name: name, Source: name, Kind: ColText} }

func float(name string, r *Range) Column {
	return Column{Name: name, Source: name, Kind: ColFloat, Range: r}
}

var registry = map[Selector]Descriptor{
	SelectorDaily: {
		Selector: SelectorDaily,
		Name:     "daily",
		Columns: []Column{
			text("fecha"),
			text("estacion"),
			float("velmedia", rangeMean),
			float("racha", rangeGust),
			float("dir_racha", rangeDirection),
		},
	},
	SelectorMonthly: {
		Selector: SelectorMonthly,
		Name:     "monthly",
		Columns: []Column{
			{Name: "fecha", Source: "fecha", Kind: ColMonthDate},
			text("estacion"),
			float("w_racha", rangeGust),
			float("w_med", rangeMean),
			float("w_rec", rangeGust),
		},
		SortKeys: []string{"fecha"},
	},
	SelectorExtremes: {
		Selector: SelectorExtremes,
		Name:     "extremes",
		Columns: []Column{
			{Name: "fecha_ocurrencia", Source: "fecha_ocurrencia", Kind: ColFullDate},
			text("estacion"),
			float("rachMax_kmh", rangeGust),
			float("dirRachMax_grados", rangeDirection),
			{Name: "dia", Source: "dia", Kind: ColInt, Range: rangeDay},
			{Name: "anio", Source: "anio", Kind: ColInt, Range: rangeYear},
			{Name: "hora", Source: "hora", Kind: ColText, Optional: true},
			{Name: "hora_limpia", Source: "hora", Kind: ColHourToken, Optional: true, Informational: true},
		},
		SortKeys: []string{"fecha_ocurrencia", "anio", "dia"},
	},
	SelectorNormals: normalsDescriptor(),
}

var normalsCandidates = []string{
	"w_racha_max", "w_racha_min", "w_racha_q1", "w_racha_q2", "w_racha_q3", "w_racha_q4", "w_racha_cv",
	"w_med_max", "w_med_min", "w_med_q1", "w_med_q2", "w_med_q3", "w_med_q4", "w_med_cv",
}

func normalsDescriptor() Descriptor {
	cols := []Column{
		{Name: "estacion", Source: "estacion", Kind: ColText, Optional: true},
		{Name: "fecha", Source: "fecha", Kind: ColText, Optional: true},
	}
	for _, name := range normalsCandidates {
		c := float(name, normalsRange(name))
		c.Optional = true
		cols = append(cols, c)
	}
	return Descriptor{Selector: SelectorNormals, Name: "normals", Columns: cols}
}

// normalsRange intersects every bound whose pattern appears in name:
// gusts [0,300], means [0,150], coefficients of variation [0,100].
func normalsRange(name string) *Range {
	r := Range{Min: 0, Max: math.Inf(1)}
	if strings.Contains(name, "racha") {
		r.Max = min(r.Max, 300)
	}
	if strings.Contains(name, "med") {
		r.Max = min(r.Max, 150)
	}
	if strings.Contains(name, "cv") {
		r.Max = min(r.Max, 100)
	}
	return &r
}
