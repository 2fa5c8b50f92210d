package core

// parser.go turns a raw manifest upload into ShipmentRecords.
//
// The manifest format is fixed: two header rows followed by data rows of
// 23 positional columns. Header text is not consulted for column mapping
// (upstream tools emit the columns in a fixed order); StrictHeaders mode
// optionally checks the second header row against the expected column
// names and fails fast on drift.
//
// Parsing is deliberately tolerant of dirty data:
//   - rows shorter than 23 columns are right-padded with empty fields
//   - rows where every cell is blank are skipped silently
//   - numeric cells are cleaned of junk characters; values that still
//     fail to parse become absent rather than aborting the row
//   - a row that fails to parse for any other reason is skipped with a
//     logged warning and never takes the batch down with it

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// manifestColumns is the number of positional columns in a manifest row.
const manifestColumns = 23

// Fatal manifest errors. Anything wrapped around these aborts the whole
// batch before a single record is produced.
var (
	ErrInvalidEncoding = errors.New("manifest is not valid UTF-8")
	ErrMissingHeaders  = errors.New("manifest must have at least 2 header rows")
)

// expectedHeaders is the second header row's column names as emitted by
// the manifest template. Only consulted in strict mode.
var expectedHeaders = [manifestColumns]string{
	"Ship From First Name", "Ship From Last Name", "Ship From Address",
	"Ship From Address 2", "Ship From City", "Ship From Zip", "Ship From State",
	"Ship To First Name", "Ship To Last Name", "Ship To Address",
	"Ship To Address 2", "Ship To City", "Ship To Zip", "Ship To State",
	"Weight (lbs)", "Weight (oz)", "Length", "Width", "Height",
	"Ship To Phone", "Ship From Phone", "Order Number", "Item SKU",
}

// ParseManifest parses a manifest file in compatibility mode: columns are
// mapped by position and header text is ignored.
func ParseManifest(data []byte) ([]ShipmentRecord, error) {
	return parseManifest(data, false)
}

// ParseManifestStrict parses a manifest and additionally validates the
// second header row against the expected column names, failing fast if
// the upstream column order has drifted.
func ParseManifestStrict(data []byte) ([]ShipmentRecord, error) {
	return parseManifest(data, true)
}

func parseManifest(data []byte, strictHeaders bool) ([]ShipmentRecord, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	data = stripBOM(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // rows are padded, not rejected

	// The first two rows are headers. Their presence is structural;
	// their content only matters in strict mode.
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingHeaders, err)
	}
	header2, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingHeaders, err)
	}
	if strictHeaders {
		if err := checkHeaders(header2); err != nil {
			return nil, err
		}
	}

	var records []ShipmentRecord
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			slog.Warn("skipping unparseable manifest row", "row", rowNum, "error", err)
			continue
		}

		if isBlankRow(row) {
			continue
		}

		for len(row) < manifestColumns {
			row = append(row, "")
		}

		records = append(records, recordFromRow(row, rowNum))
	}

	slog.Info("manifest parsed", "records", len(records))
	return records, nil
}

// recordFromRow maps a padded row onto a ShipmentRecord by fixed column
// position.
func recordFromRow(row []string, rowNum int) ShipmentRecord {
	return ShipmentRecord{
		ShipFromFirstName: strings.TrimSpace(row[0]),
		ShipFromLastName:  strings.TrimSpace(row[1]),
		ShipFromStreet:    strings.TrimSpace(row[2]),
		ShipFromStreet2:   strings.TrimSpace(row[3]),
		ShipFromCity:      strings.TrimSpace(row[4]),
		ShipFromZip:       strings.TrimSpace(row[5]),
		ShipFromState:     strings.TrimSpace(row[6]),

		ShipToFirstName: strings.TrimSpace(row[7]),
		ShipToLastName:  strings.TrimSpace(row[8]),
		ShipToStreet:    strings.TrimSpace(row[9]),
		ShipToStreet2:   strings.TrimSpace(row[10]),
		ShipToCity:      strings.TrimSpace(row[11]),
		ShipToZip:       strings.TrimSpace(row[12]),
		ShipToState:     strings.TrimSpace(row[13]),

		WeightLbs: parseLooseInt(row[14]),
		WeightOz:  parseLooseInt(row[15]),
		Length:    parseLooseDecimal(row[16]),
		Width:     parseLooseDecimal(row[17]),
		Height:    parseLooseDecimal(row[18]),

		ShipToPhone:   strings.TrimSpace(row[19]),
		ShipFromPhone: strings.TrimSpace(row[20]),

		OrderNo: strings.TrimSpace(row[21]),
		ItemSKU: strings.TrimSpace(row[22]),

		RowNumber: rowNum,
		Status:    StatusValid,
	}
}

// checkHeaders compares the second header row against expectedHeaders,
// case-insensitively, ignoring surrounding whitespace. Extra trailing
// columns are tolerated.
func checkHeaders(header []string) error {
	for i, want := range expectedHeaders {
		if i >= len(header) {
			return fmt.Errorf("manifest header mismatch: missing column %d (%q)", i+1, want)
		}
		got := strings.TrimSpace(header[i])
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("manifest header mismatch at column %d: got %q, want %q", i+1, got, want)
		}
	}
	return nil
}

// isBlankRow reports whether every cell is empty or whitespace.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseLooseInt parses an integer cell leniently. Junk characters such
// as unit suffixes ("5 lbs") are stripped before parsing. Blank cells
// and values that still fail to parse yield nil, never an error.
func parseLooseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}

	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil
	}
	return &n
}

// parseLooseDecimal parses a decimal cell. Blank or unparseable values
// yield nil.
func parseLooseDecimal(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// stripBOM removes a leading UTF-8 byte order mark. Windows tools love
// to prepend one.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
