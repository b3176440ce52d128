// Package csvimport parses inventory export CSV files into storage records.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cardstash/internal/storage"
)

// Result carries the parsed records plus a count of rows that could not be
// parsed. Malformed rows are skipped, not fatal: a partially dirty export
// still imports.
type Result struct {
	Records []*storage.InventoryRecord
	Skipped int
}

// headerAliases maps the column names seen across export formats to
// canonical field keys. Matching is case-insensitive with surrounding
// whitespace ignored.
var headerAliases = map[string]string{
	"inventory id":     "inventory_id",
	"inventory_id":     "inventory_id",
	"emid":             "emid",
	"id":               "emid",
	"name":             "name",
	"card name":        "name",
	"set":              "set_code",
	"set code":         "set_code",
	"set_code":         "set_code",
	"set name":         "set_name",
	"set_name":         "set_name",
	"collector number": "collector_number",
	"collector_number": "collector_number",
	"number":           "collector_number",
	"rarity":           "rarity",
	"condition":        "condition",
	"language":         "language",
	"lang":             "language",
	"foil":             "foil",
	"note":             "note",
	"notes":            "note",
	"note id":          "note_id",
	"note_id":          "note_id",
	"acquired price":   "acquired_price",
	"acquired_price":   "acquired_price",
	"price":            "acquired_price",
	"date acquired":    "date_acquired",
	"date_acquired":    "date_acquired",
}

// ParseInventory reads an inventory CSV. The first row must be a header;
// columns may appear in any order, and unknown columns are ignored. Rows
// without a usable inventory id are counted as skipped.
func ParseInventory(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		key, ok := headerAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, seen := columns[key]; !seen {
			columns[key] = i
		}
	}
	if _, ok := columns["inventory_id"]; !ok {
		return nil, fmt.Errorf("csv header has no inventory id column")
	}
	if _, ok := columns["name"]; !ok {
		return nil, fmt.Errorf("csv header has no name column")
	}

	result := &Result{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Quoting errors poison a single row, not the file.
			result.Skipped++
			continue
		}

		rec, ok := parseRow(columns, row)
		if !ok {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

func parseRow(columns map[string]int, row []string) (*storage.InventoryRecord, bool) {
	field := func(key string) string {
		i, ok := columns[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	inventoryID, err := strconv.ParseInt(field("inventory_id"), 10, 64)
	if err != nil || inventoryID == 0 {
		return nil, false
	}
	name := field("name")
	if name == "" {
		return nil, false
	}
	emid, _ := strconv.ParseInt(field("emid"), 10, 64)

	return &storage.InventoryRecord{
		InventoryID:     inventoryID,
		EMID:            emid,
		Name:            name,
		NameLower:       strings.ToLower(name),
		SetCode:         field("set_code"),
		SetName:         field("set_name"),
		CollectorNumber: field("collector_number"),
		Rarity:          field("rarity"),
		Condition:       field("condition"),
		Language:        field("language"),
		Foil:            parseBool(field("foil")),
		Note:            field("note"),
		NoteID:          field("note_id"),
		AcquiredPrice:   field("acquired_price"),
		DateAcquired:    field("date_acquired"),
	}, true
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "foil", "y":
		return true
	}
	return false
}
