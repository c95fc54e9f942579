package ingest

import (
	"strings"
	"testing"

	"github.com/pixellab01/dashboard/internal/domain"
)

func TestReadCSV(t *testing.T) {
	csvData := "Order Date,Status,Order Total\n2025-03-01,Delivered,500\n2025-03-02,RTO\n"

	tab, err := Read(strings.NewReader(csvData), "export.csv")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(tab.Headers) != 3 {
		t.Errorf("headers = %v, want 3", tab.Headers)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tab.Rows))
	}
	if tab.Rows[0]["Status"] != "Delivered" {
		t.Errorf("row 0 status = %v", tab.Rows[0]["Status"])
	}
	// Short rows pad with empty strings.
	if tab.Rows[1]["Order Total"] != "" {
		t.Errorf("short row cell = %v, want empty", tab.Rows[1]["Order Total"])
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	_, err := Read(strings.NewReader("A,B,C\n"), "export.csv")
	if err != domain.ErrEmptyDataset {
		t.Errorf("header-only file: err = %v, want ErrEmptyDataset", err)
	}
}

func TestReadJSON(t *testing.T) {
	payload := `[{"Status":"Delivered","Order Total":500},{"Status":"RTO","Courier":"Delhivery"}]`

	tab, err := Read(strings.NewReader(payload), "export.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tab.Rows))
	}
	if len(tab.Headers) != 3 {
		t.Errorf("headers = %v, want 3 distinct", tab.Headers)
	}
	// JSON numbers stay numeric for the normalizer to interpret.
	if v, ok := tab.Rows[0]["Order Total"].(float64); !ok || v != 500 {
		t.Errorf("numeric cell = %v (%T), want float64 500", tab.Rows[0]["Order Total"], tab.Rows[0]["Order Total"])
	}
}

func TestReadJSONEmpty(t *testing.T) {
	if _, err := Read(strings.NewReader(`[]`), "export.json"); err != domain.ErrEmptyDataset {
		t.Errorf("empty array: err = %v, want ErrEmptyDataset", err)
	}
	if _, err := Read(strings.NewReader(`{not json`), "export.json"); !domain.IsInvalidInput(err) {
		t.Errorf("malformed JSON: err = %v, want invalid input", err)
	}
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := Read(strings.NewReader("x"), "export.pdf")
	if !domain.IsInvalidInput(err) {
		t.Errorf("err = %v, want invalid input", err)
	}
}
