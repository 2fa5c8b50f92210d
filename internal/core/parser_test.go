package core

import (
	"errors"
	"strings"
	"testing"
)

// manifestRow builds a 23-column data row. overrides maps column index
// to cell value.
func manifestRow(overrides map[int]string) string {
	cells := make([]string, manifestColumns)
	for i, v := range overrides {
		cells[i] = v
	}
	return strings.Join(cells, ",")
}

// manifest assembles a manifest with two header rows and the given data
// rows.
func manifest(rows ...string) []byte {
	lines := append([]string{"Shipment Manifest", strings.Join(expectedHeaders[:], ",")}, rows...)
	return []byte(strings.Join(lines, "\n"))
}

func TestParseManifest_MapsColumnsByPosition(t *testing.T) {
	data := manifest(manifestRow(map[int]string{
		0: "Jane", 1: "Doe", 2: "1 Sender St", 4: "Springfield", 5: "62701", 6: "IL",
		7: "John", 8: "Smith", 9: "2 Recipient Ave", 11: "Portland", 12: "97201", 13: "OR",
		14: "2", 15: "4", 16: "10.5", 17: "8", 18: "6",
		19: "555-0100", 20: "555-0200", 21: "ORD-1", 22: "SKU-1",
	}))

	records, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	rec := records[0]
	if rec.ShipFromFirstName != "Jane" || rec.ShipFromStreet != "1 Sender St" {
		t.Errorf("ship from = %q %q, want Jane / 1 Sender St", rec.ShipFromFirstName, rec.ShipFromStreet)
	}
	if rec.ShipToFirstName != "John" || rec.ShipToStreet != "2 Recipient Ave" {
		t.Errorf("ship to = %q %q, want John / 2 Recipient Ave", rec.ShipToFirstName, rec.ShipToStreet)
	}
	if rec.WeightLbs == nil || *rec.WeightLbs != 2 {
		t.Errorf("WeightLbs = %v, want 2", rec.WeightLbs)
	}
	if rec.WeightOz == nil || *rec.WeightOz != 4 {
		t.Errorf("WeightOz = %v, want 4", rec.WeightOz)
	}
	if rec.Length == nil || *rec.Length != 10.5 {
		t.Errorf("Length = %v, want 10.5", rec.Length)
	}
	if rec.ShipToPhone != "555-0100" || rec.ShipFromPhone != "555-0200" {
		t.Errorf("phones = %q %q, want 555-0100 / 555-0200", rec.ShipToPhone, rec.ShipFromPhone)
	}
	if rec.OrderNo != "ORD-1" || rec.ItemSKU != "SKU-1" {
		t.Errorf("refs = %q %q, want ORD-1 / SKU-1", rec.OrderNo, rec.ItemSKU)
	}
	if rec.RowNumber != 1 {
		t.Errorf("RowNumber = %d, want 1", rec.RowNumber)
	}
	if rec.Status != StatusValid {
		t.Errorf("Status = %q, want %q", rec.Status, StatusValid)
	}
}

func TestParseManifest_PadsShortRows(t *testing.T) {
	// Only the first three cells present; the rest of the row is absent.
	data := manifest("Jane,Doe,1 Sender St")

	records, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].ShipFromStreet != "1 Sender St" {
		t.Errorf("ShipFromStreet = %q, want %q", records[0].ShipFromStreet, "1 Sender St")
	}
	if records[0].ItemSKU != "" {
		t.Errorf("ItemSKU = %q, want empty", records[0].ItemSKU)
	}
	if records[0].WeightLbs != nil {
		t.Errorf("WeightLbs = %v, want nil", records[0].WeightLbs)
	}
}

func TestParseManifest_SkipsBlankRowsButCountsThem(t *testing.T) {
	data := manifest(
		manifestRow(map[int]string{7: "First"}),
		manifestRow(nil), // blank
		manifestRow(map[int]string{7: "Third"}),
	)

	records, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].RowNumber != 1 {
		t.Errorf("records[0].RowNumber = %d, want 1", records[0].RowNumber)
	}
	if records[1].RowNumber != 3 {
		t.Errorf("records[1].RowNumber = %d, want 3", records[1].RowNumber)
	}
}

func TestParseManifest_RequiresTwoHeaderRows(t *testing.T) {
	for _, data := range [][]byte{
		[]byte(""),
		[]byte("only one header row"),
	} {
		_, err := ParseManifest(data)
		if !errors.Is(err, ErrMissingHeaders) {
			t.Errorf("ParseManifest(%q) error = %v, want ErrMissingHeaders", data, err)
		}
	}
}

func TestParseManifest_RejectsInvalidEncoding(t *testing.T) {
	data := []byte{0xff, 0xfe, 'h', 'i'}
	_, err := ParseManifest(data)
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("ParseManifest() error = %v, want ErrInvalidEncoding", err)
	}
}

func TestParseManifest_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, manifest(manifestRow(map[int]string{7: "John"}))...)
	records, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
}

func TestParseLooseInt(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"5", intPtr(5)},
		{" 12 ", intPtr(12)},
		{"5 lbs", intPtr(5)},
		// Junk stripping is character-level, so a decimal point vanishes.
		{"5.0", intPtr(50)},
		{"-3", intPtr(-3)},
		{"", nil},
		{"abc", nil},
	}
	for _, tt := range tests {
		got := parseLooseInt(tt.in)
		switch {
		case got == nil && tt.want != nil:
			t.Errorf("parseLooseInt(%q) = nil, want %d", tt.in, *tt.want)
		case got != nil && tt.want == nil:
			t.Errorf("parseLooseInt(%q) = %d, want nil", tt.in, *got)
		case got != nil && tt.want != nil && *got != *tt.want:
			t.Errorf("parseLooseInt(%q) = %d, want %d", tt.in, *got, *tt.want)
		}
	}
}

func TestParseLooseDecimal(t *testing.T) {
	if got := parseLooseDecimal("10.5"); got == nil || *got != 10.5 {
		t.Errorf("parseLooseDecimal(10.5) = %v, want 10.5", got)
	}
	if got := parseLooseDecimal("ten"); got != nil {
		t.Errorf("parseLooseDecimal(ten) = %v, want nil", got)
	}
	if got := parseLooseDecimal(""); got != nil {
		t.Errorf("parseLooseDecimal(empty) = %v, want nil", got)
	}
}

func TestParseManifestStrict_HeaderMismatch(t *testing.T) {
	lines := []string{
		"Shipment Manifest",
		"totally,wrong,headers",
		manifestRow(map[int]string{7: "John"}),
	}
	_, err := ParseManifestStrict([]byte(strings.Join(lines, "\n")))
	if err == nil {
		t.Fatal("ParseManifestStrict() error = nil, want header mismatch")
	}
	if !strings.Contains(err.Error(), "header") {
		t.Errorf("error = %v, want mention of header", err)
	}
}

func TestParseManifestStrict_AcceptsTemplateHeaders(t *testing.T) {
	data := manifest(manifestRow(map[int]string{7: "John"}))
	records, err := ParseManifestStrict(data)
	if err != nil {
		t.Fatalf("ParseManifestStrict() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
}

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
