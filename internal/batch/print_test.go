package batch

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func sampleReport() *Report {
	return NewReport(ReportConfig{Input: "items.jsonl", Concurrency: 2, Timestamp: "t"}, []Result{
		{ID: "a", Provider: "gemini", Model: "gemini-test", Temperature: 0.5, Width: 800, Height: 600, UICode: "<div></div>", Duration: 1500 * time.Millisecond},
		{ID: "b", Error: "quota exceeded, retry later"},
	})
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintText(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Succeeded: 1", "Failed:    1", "gemini/gemini-test", "800x600", "error: quota exceeded"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(records))
	}
	if records[1][3] != "0.50" || records[1][6] != "11" || records[1][7] != "1500" {
		t.Errorf("unexpected first row %v", records[1])
	}
	if records[2][8] != "quota exceeded, retry later" {
		t.Errorf("Expected error column to survive quoting, got %q", records[2][8])
	}
}
