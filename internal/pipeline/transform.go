package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/wind-data-cleaner/internal/domain"
)

// Clean resolves the descriptor for sel, projects and validates every record
// of table, and applies the descriptor's stable sort. Rejected rows are
// reported to logger at debug level; pass nil to discard them.
func Clean(table domain.Table, sel domain.Selector, logger *slog.Logger) (domain.Dataset, domain.Report, error) {
	report := domain.Report{Selector: sel, Rejected: map[string]int{}}

	desc, err := domain.Lookup(sel)
	if err != nil {
		return domain.Dataset{}, report, err
	}
	cols, err := desc.Resolve(table.Header)
	if err != nil {
		return domain.Dataset{}, report, err
	}

	rows := make([]domain.Row, 0, len(table.Records))
	for i, rec := range table.Records {
		report.Read++
		row, rej := domain.Validate(cols, rec)
		if rej != nil {
			report.Rejected[rej.Reason]++
			if logger != nil {
				logger.Debug("row rejected",
					"line", i+2, // header is line 1
					"column", rej.Column,
					"reason", rej.Reason,
					"raw", rej.Raw,
				)
			}
			continue
		}
		rows = append(rows, row)
	}
	report.Admitted = len(rows)

	domain.SortRows(cols, rows, desc.SortKeys)

	return domain.Dataset{Selector: sel, Columns: cols, Rows: rows}, report, nil
}
