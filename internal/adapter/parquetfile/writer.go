package parquetfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/wind-data-cleaner/internal/adapter/csvfile"
	"github.com/couchcryptid/wind-data-cleaner/internal/domain"
	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// Writer serializes a cleaned dataset to a single Parquet file.
// It implements pipeline.Loader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Parquet writer for path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Path returns the destination path.
func (w *Writer) Path() string { return w.path }

// Load encodes ds and moves the finished file into place.
func (w *Writer) Load(_ context.Context, ds domain.Dataset) error {
	if err := csvfile.WriteAtomic(w.path, func(f io.Writer) error { return Encode(f, ds) }); err != nil {
		return err
	}
	w.logger.Info("output written", "path", w.path, "rows", len(ds.Rows), "format", "parquet")
	return nil
}

// Encode writes ds as Parquet (SNAPPY) to out.
func Encode(out io.Writer, ds domain.Dataset) error {
	pfw := writerfile.NewWriterFile(out)
	pw, err := writer.NewJSONWriter(BuildSchema(ds.Columns), pfw, 1)
	if err != nil {
		return fmt.Errorf("parquet schema: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range ds.Rows {
		line, err := json.Marshal(projectRow(ds.Columns, row))
		if err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("encode row: %w", err)
		}
		if err := pw.Write(string(line)); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("parquet write: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("parquet finish: %w", err)
	}
	return nil
}

// BuildSchema renders the JSON schema definition expected by parquet-go.
// Every column is OPTIONAL so invalid informational tokens become nulls.
func BuildSchema(cols []domain.Column) string {
	fields := make([]map[string]string, 0, len(cols))
	for _, c := range cols {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", c.Name, physicalType(c.Kind)),
		})
	}
	root := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(root)
	return string(b)
}

func physicalType(kind domain.ColumnKind) string {
	switch kind {
	case domain.ColFloat:
		return "type=DOUBLE"
	case domain.ColInt:
		return "type=INT64"
	default:
		// Dates are written as ISO strings, matching the CSV output.
		return "type=BYTE_ARRAY, convertedtype=UTF8"
	}
}

func projectRow(cols []domain.Column, row domain.Row) map[string]any {
	out := make(map[string]any, len(cols))
	for i, c := range cols {
		v := row[i]
		if !v.Valid {
			out[c.Name] = nil
			continue
		}
		switch v.Kind {
		case domain.KindFloat:
			out[c.Name] = v.Float
		case domain.KindInt:
			out[c.Name] = v.Int
		default:
			out[c.Name] = v.String()
		}
	}
	return out
}
