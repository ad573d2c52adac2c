package domain

// Validate projects rec onto cols and decides admissibility. Every cell is
// normalized first; the first gating cell that fails to normalize or falls
// outside its range rejects the whole row. Informational columns are carried
// along even when invalid.
func Validate(cols []Column, rec Record) (Row, *Rejection) {
	row := make(Row, len(cols))
	for i, c := range cols {
		raw := rec[c.Source]
		v := normalizeCell(c.Kind, raw)
		row[i] = v
		if c.Informational {
			continue
		}
		if !v.Valid {
			return nil, &Rejection{Column: c.Name, Reason: ReasonInvalidValue, Raw: raw}
		}
		if c.Range == nil {
			continue
		}
		if n, ok := v.Number(); !ok || !c.Range.Contains(n) {
			return nil, &Rejection{Column: c.Name, Reason: ReasonOutOfRange, Raw: raw}
		}
	}
	return row, nil
}
