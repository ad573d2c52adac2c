package pipeline_test

import (
	"testing"

	"github.com/couchcryptid/wind-data-cleaner/internal/domain"
	"github.com/couchcryptid/wind-data-cleaner/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(cols []domain.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// column extracts the rendered values of one output column.
func column(t *testing.T, ds domain.Dataset, name string) []string {
	t.Helper()
	i := ds.ColumnIndex(name)
	require.GreaterOrEqual(t, i, 0, "column %s", name)
	out := make([]string, len(ds.Rows))
	for r, row := range ds.Rows {
		out[r] = row[i].String()
	}
	return out
}

func TestClean_Daily(t *testing.T) {
	table := domain.Table{
		Header: []string{"fecha", "indicativo", "estacion", "velmedia", "racha", "dir_racha"},
		Records: []domain.Record{
			{"fecha": "2020-01-01", "estacion": "A", "velmedia": "100", "racha": "120", "dir_racha": "180"},
			{"fecha": "2020-01-02", "estacion": "A", "velmedia": "200", "racha": "120", "dir_racha": "180"},
			{"fecha": "2020-01-03", "estacion": "A", "velmedia": "", "racha": "120", "dir_racha": "180"},
			{"fecha": "2019-12-31", "estacion": "A", "velmedia": "5,5", "racha": "30(02)", "dir_racha": "99"},
		},
	}

	ds, report, err := pipeline.Clean(table, domain.SelectorDaily, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"fecha", "estacion", "velmedia", "racha", "dir_racha"}, names(ds.Columns))
	// No sort for daily data: input order is kept.
	assert.Equal(t, []string{"2020-01-01", "2019-12-31"}, column(t, ds, "fecha"))
	assert.Equal(t, []string{"100.0", "5.5"}, column(t, ds, "velmedia"))

	want := domain.Report{
		Selector: domain.SelectorDaily,
		Read:     4,
		Admitted: 2,
		Rejected: map[string]int{domain.ReasonOutOfRange: 1, domain.ReasonInvalidValue: 1},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestClean_MonthlySortedByDate(t *testing.T) {
	table := domain.Table{
		Header: []string{"fecha", "estacion", "w_racha", "w_med", "w_rec"},
		Records: []domain.Record{
			{"fecha": "2019-03", "estacion": "C", "w_racha": "28/22.2(01)", "w_med": "10", "w_rec": "40"},
			{"fecha": "2019-01", "estacion": "A", "w_racha": "50,1(15)", "w_med": "12", "w_rec": "41"},
			{"fecha": "2019-13", "estacion": "annual", "w_racha": "60", "w_med": "12", "w_rec": "41"},
			{"fecha": "2019-02", "estacion": "B", "w_racha": "301", "w_med": "12", "w_rec": "41"},
			{"fecha": "2019-01", "estacion": "A2", "w_racha": "44", "w_med": "9", "w_rec": "30"},
		},
	}

	ds, report, err := pipeline.Clean(table, domain.SelectorMonthly, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"2019-01-01", "2019-01-01", "2019-03-01"}, column(t, ds, "fecha"))
	assert.Equal(t, []string{"A", "A2", "C"}, column(t, ds, "estacion"), "sort must be stable")
	assert.Equal(t, []string{"50.1", "44.0", "22.2"}, column(t, ds, "w_racha"))
	assert.Equal(t, 2, report.RejectedTotal())
}

func TestClean_ExtremesSortAndHour(t *testing.T) {
	table := domain.Table{
		Header: []string{"fecha_ocurrencia", "estacion", "rachMax_kmh", "dirRachMax_grados", "dia", "anio", "hora"},
		Records: []domain.Record{
			{"fecha_ocurrencia": "14/07/1987", "estacion": "B", "rachMax_kmh": "140", "dirRachMax_grados": "270", "dia": "14", "anio": "1987", "hora": "13-26"},
			{"fecha_ocurrencia": "03/02/1950", "estacion": "A", "rachMax_kmh": "120", "dirRachMax_grados": "90", "dia": "20", "anio": "1950", "hora": "20-ago"},
			{"fecha_ocurrencia": "03/02/1950", "estacion": "C", "rachMax_kmh": "110", "dirRachMax_grados": "90", "dia": "3", "anio": "1950", "hora": "may-49"},
			{"fecha_ocurrencia": "03/02/1950", "estacion": "D", "rachMax_kmh": "110", "dirRachMax_grados": "90", "dia": "3", "anio": "1949", "hora": "?"},
			{"fecha_ocurrencia": "nunca", "estacion": "E", "rachMax_kmh": "110", "dirRachMax_grados": "90", "dia": "3", "anio": "1950", "hora": "13-26"},
			{"fecha_ocurrencia": "01/01/2001", "estacion": "F", "rachMax_kmh": "110", "dirRachMax_grados": "90", "dia": "0", "anio": "2001", "hora": "13-26"},
		},
	}

	ds, report, err := pipeline.Clean(table, domain.SelectorExtremes, nil)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"fecha_ocurrencia", "estacion", "rachMax_kmh", "dirRachMax_grados", "dia", "anio", "hora", "hora_limpia"},
		names(ds.Columns))
	assert.Equal(t, []string{"D", "C", "A", "B"}, column(t, ds, "estacion"))
	assert.Equal(t, []string{"", "05-1949", "20-08", "13:26"}, column(t, ds, "hora_limpia"))
	assert.Equal(t, 4, report.Admitted)
	assert.Equal(t, 2, report.RejectedTotal())

	// Non-decreasing by (fecha_ocurrencia, anio, dia).
	keys := []int{ds.ColumnIndex("fecha_ocurrencia"), ds.ColumnIndex("anio"), ds.ColumnIndex("dia")}
	for i := 1; i < len(ds.Rows); i++ {
		order := 0
		for _, k := range keys {
			if order = ds.Rows[i-1][k].Compare(ds.Rows[i][k]); order != 0 {
				break
			}
		}
		assert.LessOrEqual(t, order, 0, "rows %d and %d out of order", i-1, i)
	}
}

func TestClean_ExtremesWithoutHour(t *testing.T) {
	table := domain.Table{
		Header: []string{"fecha_ocurrencia", "estacion", "rachMax_kmh", "dirRachMax_grados", "dia", "anio"},
		Records: []domain.Record{
			{"fecha_ocurrencia": "14/07/1987", "estacion": "B", "rachMax_kmh": "140", "dirRachMax_grados": "270", "dia": "14", "anio": "1987"},
		},
	}

	ds, _, err := pipeline.Clean(table, domain.SelectorExtremes, nil)
	require.NoError(t, err)
	assert.Equal(t, -1, ds.ColumnIndex("hora"))
	assert.Equal(t, -1, ds.ColumnIndex("hora_limpia"))
	assert.Len(t, ds.Rows, 1)
}

func TestClean_NormalsProjectsPresentCandidates(t *testing.T) {
	table := domain.Table{
		Header: []string{"indicativo", "estacion", "fecha", "w_racha_max", "w_racha_cv", "w_vel_q1"},
		Records: []domain.Record{
			{"estacion": "X", "fecha": "1981-2010", "w_racha_max": "250,5", "w_racha_cv": "12", "w_vel_q1": "9999"},
			{"estacion": "Y", "fecha": "1981-2010", "w_racha_max": "250,5", "w_racha_cv": "101"},
			{"estacion": "Z", "fecha": "1981-2010", "w_racha_max": "", "w_racha_cv": "12"},
		},
	}

	ds, report, err := pipeline.Clean(table, domain.SelectorNormals, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"estacion", "fecha", "w_racha_max", "w_racha_cv"}, names(ds.Columns))
	assert.Equal(t, []string{"X"}, column(t, ds, "estacion"))
	assert.Equal(t, 2, report.RejectedTotal())
}

func TestClean_Errors(t *testing.T) {
	_, _, err := pipeline.Clean(domain.Table{}, domain.Selector(5), nil)
	require.ErrorIs(t, err, domain.ErrUnsupportedSchema)

	_, _, err = pipeline.Clean(domain.Table{Header: []string{"fecha", "estacion"}}, domain.SelectorDaily, nil)
	require.ErrorIs(t, err, domain.ErrMissingColumn)
}

// Every admitted numeric value lies inside its column's inclusive range.
func TestClean_AdmittedRowsWithinRanges(t *testing.T) {
	raws := []string{"-1", "0", "1,5", "99", "100", "101", "150", "151", "300", "301", "360", "361", "abc", "28/22.2(01)", ""}

	cases := []struct {
		sel    domain.Selector
		header []string
		fixed  domain.Record
	}{
		{domain.SelectorDaily, []string{"fecha", "estacion", "velmedia", "racha", "dir_racha"}, domain.Record{"fecha": "2020-01-01"}},
		{domain.SelectorMonthly, []string{"fecha", "estacion", "w_racha", "w_med", "w_rec"}, domain.Record{"fecha": "2020-01"}},
		{domain.SelectorExtremes, []string{"fecha_ocurrencia", "estacion", "rachMax_kmh", "dirRachMax_grados", "dia", "anio"}, domain.Record{"fecha_ocurrencia": "01/01/2000", "dia": "1", "anio": "2000"}},
		{domain.SelectorNormals, []string{"estacion", "w_racha_max", "w_med_q2", "w_med_cv"}, domain.Record{}},
	}

	for _, tc := range cases {
		t.Run(tc.sel.String(), func(t *testing.T) {
			var records []domain.Record
			for i := range raws {
				for j := range raws {
					rec := domain.Record{"estacion": "S"}
					for k, v := range tc.fixed {
						rec[k] = v
					}
					// Rotate through the raw values so every column sees every value.
					n := 0
					for _, h := range tc.header {
						if _, fixed := tc.fixed[h]; fixed || h == "estacion" {
							continue
						}
						rec[h] = raws[(i+j*n)%len(raws)]
						n++
					}
					records = append(records, rec)
				}
			}

			ds, report, err := pipeline.Clean(domain.Table{Header: tc.header, Records: records}, tc.sel, nil)
			require.NoError(t, err)
			require.Equal(t, len(records), report.Admitted+report.RejectedTotal())

			for _, row := range ds.Rows {
				for i, c := range ds.Columns {
					if c.Range == nil {
						continue
					}
					n, ok := row[i].Number()
					require.True(t, ok)
					assert.True(t, c.Range.Contains(n), "%s=%v outside [%v,%v]", c.Name, n, c.Range.Min, c.Range.Max)
				}
			}
		})
	}
}
