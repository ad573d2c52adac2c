package csvfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/wind-data-cleaner/internal/domain"
)

// OutputPath derives the destination from the source path: the extension is
// replaced by suffix plus ext, e.g. "datos.csv" → "datos_viento_limpio.csv".
func OutputPath(source, suffix, ext string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + suffix + ext
}

// Writer serializes a cleaned dataset to a single file.
// It implements pipeline.Loader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer for path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Path returns the destination path.
func (w *Writer) Path() string { return w.path }

// Load writes ds to a temporary file beside the destination and renames it
// into place, so readers never observe a partial file.
func (w *Writer) Load(_ context.Context, ds domain.Dataset) error {
	err := WriteAtomic(w.path, func(f io.Writer) error { return Encode(f, ds) })
	if err != nil {
		return err
	}
	w.logger.Info("output written", "path", w.path, "rows", len(ds.Rows))
	return nil
}

// WriteAtomic creates path through a sibling temporary file filled by fill.
func WriteAtomic(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Encode writes ds with the source conventions: ';' delimiter, decimal comma,
// non-numeric values quoted, numbers bare, invalid values empty.
func Encode(w io.Writer, ds domain.Dataset) error {
	bw := bufio.NewWriter(w)

	header := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = quote(c.Name)
	}
	writeLine(bw, header)

	cells := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		writeLine(bw, cells)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeLine(bw *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			bw.WriteByte(Delimiter)
		}
		bw.WriteString(c)
	}
	bw.WriteByte('\n')
}

func formatCell(v domain.Value) string {
	if !v.Valid {
		return ""
	}
	switch v.Kind {
	case domain.KindFloat:
		return strings.Replace(v.String(), ".", string(Decimal), 1)
	case domain.KindInt:
		return v.String()
	default:
		return quote(v.String())
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
