package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"pingpe-reports/utils"
)

// ErrNoData marks an export invoked with zero rows. It is a reported
// precondition, not a failure: callers log it and move on, no file is
// created.
var ErrNoData = errors.New("csv: no rows to export")

// ExportSpec describes one tabular export. When Headers is empty, columns
// are derived from the first row's keys sorted alphabetically; all rows are
// then expected to share that key set (a caller contract, not enforced —
// missing keys serialize as empty strings).
type ExportSpec struct {
	Filename string
	Headers  []string
	Rows     []map[string]any
}

// Serialize renders the spec as RFC-4180 CSV: header row first, fields
// quoted only when they contain a delimiter or quote, internal quotes
// doubled. Rows are '\n'-joined and the output ends with a trailing newline.
func Serialize(spec ExportSpec) (string, error) {
	if len(spec.Rows) == 0 {
		return "", ErrNoData
	}

	headers := spec.Headers
	if len(headers) == 0 {
		for key := range spec.Rows[0] {
			headers = append(headers, key)
		}
		sort.Strings(headers)
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("csv: write header: %w", err)
	}

	record := make([]string, len(headers))
	for _, row := range spec.Rows {
		for i, key := range headers {
			record[i] = stringify(row[key])
		}
		if allEmpty(record) {
			// A record whose every field is empty would serialize as a
			// blank line, which CSV readers skip, losing the row on
			// re-parse. Quote the first field so the record stays visible.
			w.Flush()
			if err := w.Error(); err != nil {
				return "", fmt.Errorf("csv: flush: %w", err)
			}
			buf.WriteString(`""` + strings.Repeat(",", len(record)-1) + "\n")
			continue
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv: flush: %w", err)
	}
	return buf.String(), nil
}

func allEmpty(record []string) bool {
	for _, field := range record {
		if field != "" {
			return false
		}
	}
	return true
}

// stringify renders a cell value. Missing keys arrive as nil and become
// empty strings, never a "null" literal.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// Exporter writes serialized reports into an output directory with
// timestamped filenames.
type Exporter struct {
	dir    string
	logger *utils.Logger
	now    func() time.Time
}

// NewExporter creates the output directory if needed and returns a ready
// Exporter.
func NewExporter(dir string, logger *utils.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &Exporter{dir: dir, logger: logger, now: time.Now}, nil
}

// Export serializes the spec and writes it to
// <dir>/<filename>_<yyyy-MM-dd_HHmm>.csv, returning the written path.
// The minute-resolution timestamp keeps repeated exports of the same report
// apart; collisions within one minute overwrite, which is acceptable here.
// Empty input returns ErrNoData and touches nothing.
func (e *Exporter) Export(spec ExportSpec) (string, error) {
	data, err := Serialize(spec)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.csv", spec.Filename, e.now().Format("2006-01-02_1504"))
	path := filepath.Join(e.dir, name)

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return "", fmt.Errorf("csv: write file %q: %w", path, err)
	}

	e.logger.Info("[export] Wrote %d rows to %s", len(spec.Rows), path)
	return path, nil
}
