package storage

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"pingpe-reports/utils"
)

func TestSerializeEscapingRoundTrip(t *testing.T) {
	spec := ExportSpec{
		Filename: "x",
		Headers:  []string{"name"},
		Rows:     []map[string]any{{"name": `a,"b"`}},
	}

	out, err := Serialize(spec)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[1] != `"a,""b"""` {
		t.Errorf("escaped field: got %q, want %q", lines[1], `"a,""b"""`)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if records[1][0] != `a,"b"` {
		t.Errorf("round trip: got %q, want %q", records[1][0], `a,"b"`)
	}
}

func TestSerializeMissingKeyIsEmptyString(t *testing.T) {
	spec := ExportSpec{
		Filename: "x",
		Headers:  []string{"a", "b"},
		Rows: []map[string]any{
			{"a": "first"},
			{"a": "second", "b": 2},
		},
	}

	out, err := Serialize(spec)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[1] != "first," {
		t.Errorf("missing key row: got %q, want %q", lines[1], "first,")
	}
	if lines[2] != "second,2" {
		t.Errorf("full row: got %q, want %q", lines[2], "second,2")
	}
}

func TestSerializeDerivedHeadersAreSorted(t *testing.T) {
	spec := ExportSpec{
		Filename: "x",
		Rows:     []map[string]any{{"zeta": 1, "alpha": 2, "mid": 3}},
	}

	out, err := Serialize(spec)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.HasPrefix(out, "alpha,mid,zeta\n") {
		t.Errorf("derived header: got %q", strings.SplitN(out, "\n", 2)[0])
	}
}

func TestSerializeValueStringification(t *testing.T) {
	paid := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	spec := ExportSpec{
		Filename: "x",
		Headers:  []string{"price", "count", "paid", "paid_at", "note"},
		Rows: []map[string]any{{
			"price":   float64(99.5),
			"count":   3,
			"paid":    true,
			"paid_at": &paid,
			"note":    nil,
		}},
	}

	out, err := Serialize(spec)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[1] != "99.5,3,true,2026-08-01T12:00:00Z," {
		t.Errorf("stringified row: got %q", lines[1])
	}
}

func TestSerializeNilPaidAtIsEmpty(t *testing.T) {
	spec := ExportSpec{
		Filename: "x",
		Headers:  []string{"paid_at"},
		Rows:     []map[string]any{{"paid_at": (*time.Time)(nil)}},
	}

	out, err := Serialize(spec)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if records[1][0] != "" {
		t.Errorf("nil *time.Time: got %q, want empty", records[1][0])
	}
}

func TestSerializeAllEmptyRowSurvivesRoundTrip(t *testing.T) {
	// A record of all-empty fields must not collapse into a blank line,
	// which CSV readers skip.
	tests := []struct {
		name    string
		headers []string
		row     map[string]any
	}{
		{"single column", []string{"paid_at"}, map[string]any{}},
		{"multiple columns", []string{"a", "b", "c"}, map[string]any{"b": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Serialize(ExportSpec{
				Filename: "x",
				Headers:  tt.headers,
				Rows:     []map[string]any{tt.row, {tt.headers[0]: "after"}},
			})
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}

			records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
			if err != nil {
				t.Fatalf("re-parse: %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("expected header + 2 rows, got %d records", len(records))
			}
			for i, field := range records[1] {
				if field != "" {
					t.Errorf("records[1][%d]: got %q, want empty", i, field)
				}
			}
			if len(records[1]) != len(tt.headers) {
				t.Errorf("empty row width: got %d fields, want %d", len(records[1]), len(tt.headers))
			}
			if records[2][0] != "after" {
				t.Errorf("following row: got %q, want %q", records[2][0], "after")
			}
		})
	}
}

func TestExportEmptyInputIsNoOp(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(dir, utils.NewLogger())
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	_, err = exporter.Export(ExportSpec{Filename: "x", Rows: nil})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files written, found %d", len(entries))
	}
}

func TestExportTimestampedFilename(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(dir, utils.NewLogger())
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	exporter.now = func() time.Time {
		return time.Date(2026, 8, 31, 9, 45, 30, 0, time.UTC)
	}

	path, err := exporter.Export(ExportSpec{
		Filename: "revenue_by_type",
		Headers:  []string{"inventory_type", "revenue"},
		Rows:     []map[string]any{{"inventory_type": "stay", "revenue": 150.0}},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := "revenue_by_type_2026-08-31_0945.csv"
	if filepath.Base(path) != want {
		t.Errorf("filename: got %q, want %q", filepath.Base(path), want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "inventory_type,revenue\nstay,150\n" {
		t.Errorf("file contents: got %q", string(data))
	}
}

func TestExportFilenamePattern(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(dir, utils.NewLogger())
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	path, err := exporter.Export(ExportSpec{
		Filename: "search_results",
		Headers:  []string{"id"},
		Rows:     []map[string]any{{"id": "p1"}},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	pattern := regexp.MustCompile(`^search_results_\d{4}-\d{2}-\d{2}_\d{4}\.csv$`)
	if !pattern.MatchString(filepath.Base(path)) {
		t.Errorf("filename %q does not match <name>_<yyyy-MM-dd_HHmm>.csv", filepath.Base(path))
	}
}
