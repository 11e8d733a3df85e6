package batch

import (
	"errors"
	"testing"
)

// Export from a notes app, with a title line above the header
const sampleNotesCSV = `Exported notes
التاريخ;الملاحظه;المصدر
15/03/2026 10:30;اشتريت اكل ب20 جنيه;voice
16/03/2026 09:00;قبضت المرتب الف جنيه;voice
`

const sampleTSV = "date\ttranscript\n2026-03-15\tرحت الشغل\n"

const samplePlain = `اشتريت اكل ب20 جنيه

قبضت المرتب الف جنيه
`

func TestDetectLayout_NotesCSV(t *testing.T) {
	layout, err := DetectLayout([]byte(sampleNotesCSV))
	if err != nil {
		t.Fatalf("DetectLayout failed: %v", err)
	}

	if layout.Delimiter != ';' {
		t.Errorf("Expected delimiter ';', got '%c'", layout.Delimiter)
	}
	if layout.SkipLines != 1 {
		t.Errorf("Expected 1 skip line, got %d", layout.SkipLines)
	}
	if len(layout.Headers) != 3 {
		t.Errorf("Expected 3 headers, got %d", len(layout.Headers))
	}
	if layout.TextCol != 1 {
		t.Errorf("Expected text column 1, got %d", layout.TextCol)
	}
	if layout.DateCol != 0 {
		t.Errorf("Expected date column 0, got %d", layout.DateCol)
	}
}

func TestDetectLayout_TSV(t *testing.T) {
	layout, err := DetectLayout([]byte(sampleTSV))
	if err != nil {
		t.Fatalf("DetectLayout failed: %v", err)
	}

	if layout.Delimiter != '\t' {
		t.Errorf("Expected tab delimiter, got '%c'", layout.Delimiter)
	}
	if layout.TextCol != 1 || layout.DateCol != 0 {
		t.Errorf("Expected text=1 date=0, got text=%d date=%d", layout.TextCol, layout.DateCol)
	}
}

func TestDetectLayout_PlainLines(t *testing.T) {
	layout, err := DetectLayout([]byte(samplePlain))
	if err != nil {
		t.Fatalf("DetectLayout failed: %v", err)
	}

	if !layout.Lines() {
		t.Errorf("Expected plain lines, got delimiter '%c'", layout.Delimiter)
	}
	if layout.DateCol != -1 {
		t.Errorf("Expected no date column, got %d", layout.DateCol)
	}
}

func TestDetectLayout_BOM(t *testing.T) {
	layout, err := DetectLayout([]byte("\uFEFF" + sampleTSV))
	if err != nil {
		t.Fatalf("DetectLayout failed: %v", err)
	}
	if layout.Headers[0] != "date" {
		t.Errorf("Expected BOM to be stripped, got header %q", layout.Headers[0])
	}
}

func TestDetectLayout_Errors(t *testing.T) {
	if _, err := DetectLayout([]byte("  \n\n")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Expected ErrEmptyFile, got %v", err)
	}
	if _, err := DetectLayout([]byte("date,amount\n2026-03-15,20\n")); !errors.Is(err, ErrNoTextColumn) {
		t.Errorf("Expected ErrNoTextColumn, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"2026-03-15", "2026-03-15", false},
		{"2026-03-15T10:30:00Z", "2026-03-15", false},
		{"15/03/2026", "2026-03-15", false},
		{"15/03/2026 10:30", "2026-03-15", false},
		{"١٥/٠٣/٢٠٢٦", "2026-03-15", false},
		{"3/15/2026, 10:30 AM", "2026-03-15", false},
		{"امبارح", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parseDate(tt.input, nil)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %v", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := result.Format("2006-01-02"); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}
