package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/wind-data-cleaner/internal/config"
	"github.com/couchcryptid/wind-data-cleaner/internal/domain"
	"golang.org/x/text/encoding/charmap"
)

// Delimiter and decimal separator of AEMET exports.
const (
	Delimiter = ';'
	Decimal   = ','
)

// ErrFileNotFound is returned when the source path is missing or is not a regular file.
var ErrFileNotFound = errors.New("file not found")

const utf8BOM = "\uFEFF"

// CheckSource verifies that path names an existing regular file.
func CheckSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, path)
	}
	return nil
}

// Reader loads a whole delimited source file into memory.
// It implements pipeline.Extractor.
type Reader struct {
	path     string
	encoding string
	logger   *slog.Logger
}

// NewReader creates a Reader for path using the configured input encoding.
func NewReader(path string, cfg *config.Config, logger *slog.Logger) *Reader {
	return &Reader{path: path, encoding: cfg.InputEncoding, logger: logger}
}

// Extract reads the header and every row of the source file.
func (r *Reader) Extract(_ context.Context) (domain.Table, error) {
	if err := CheckSource(r.path); err != nil {
		return domain.Table{}, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if r.encoding == config.EncodingLatin1 {
		src = charmap.ISO8859_1.NewDecoder().Reader(f)
	}

	table, err := ParseTable(src)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.logger.Debug("source parsed", "path", r.path, "encoding", r.encoding, "rows", len(table.Records))
	return table, nil
}

// ParseTable parses semicolon-delimited text with a header row. Short rows
// leave their trailing columns empty; extra cells are dropped.
func ParseTable(src io.Reader) (domain.Table, error) {
	br := bufio.NewReader(src)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, errors.New("empty file")
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := domain.Table{Header: header}
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, err
		}
		rec := make(domain.Record, len(header))
		for i, name := range header {
			if i < len(cells) {
				rec[name] = cells[i]
			} else {
				rec[name] = ""
			}
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}
