// Package domain models AEMET wind observation exports and the rules used to
// clean them.
//
// # Data Source
//
// Records come from the AEMET OpenData climatology exports saved as CSV. The
// files are semicolon delimited, use a decimal comma, and quote every
// non-numeric field. Four export shapes are supported, identified by a
// [Selector]:
//
//	1  daily climatology          fecha, estacion, velmedia, racha, dir_racha
//	2  monthly/annual climatology fecha, estacion, w_racha, w_med, w_rec
//	3  recorded extremes          fecha_ocurrencia, estacion, rachMax_kmh,
//	                              dirRachMax_grados, dia, anio [, hora]
//	4  normal values              estacion, fecha, w_racha_*, w_med_*
//
// All speeds are km/h in every shape. No unit conversion is performed.
//
// # Cell Encodings
//
// Numeric cells are frequently annotated:
//
//	"28,4(01)"     decimal comma plus a day-of-occurrence footnote → 28.4
//	"28/22.2(01)"  two readings separated by a slash; the last wins → 22.2
//
// Monthly exports encode the period as a year-month token ("2019-05"), which is
// completed with day 01. Extremes exports carry a free-form "hora" column that
// holds either an hour range ("13-26" → "13:26"), a day-month pair ("20-ago" →
// "20-08") or a month-year pair ("may-49" → "05-1949"). Month abbreviations are
// Spanish. Two-digit years are always read as 19YY.
//
// # Admission
//
// A row is admitted only when every gating cell normalizes and every numeric
// cell lies inside its inclusive range (see [Descriptor]). Malformed cells never
// abort a run; they exclude the row. The derived hora_limpia token is
// informational and never excludes a row.
package domain
