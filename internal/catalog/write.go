package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gpuhunt/internal/formatter"
	"gpuhunt/internal/models"
)

// ErrUnknownFormat is returned for an output format other than csv, json or table.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Columns is the column order of csv and table output.
var Columns = []string{
	"provider",
	"instance_name",
	"location",
	"price",
	"cpu",
	"memory",
	"gpu_count",
	"gpu_name",
	"gpu_memory",
	"spot",
	"disk_size",
	"gpu_vendor",
}

// Write renders entries to w in the given format.
func Write(w io.Writer, format string, entries []Entry) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, entries)
	case FormatJSON:
		return writeJSON(w, entries)
	case FormatTable:
		return writeTable(w, entries)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range entries {
		if err := cw.Write(Row(e)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func writeJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode offers: %w", err)
	}

	return nil
}

func writeTable(w io.Writer, entries []Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row(e))
	}

	for _, line := range formatter.RenderTable(Columns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}

	return nil
}

// Row returns the cells of e in Columns order. Missing optional values are empty.
func Row(e Entry) []string {
	return []string{
		e.Provider,
		e.InstanceName,
		e.Location,
		formatFloat(e.Price),
		strconv.Itoa(e.CPU),
		formatFloat(e.Memory),
		strconv.Itoa(e.GPUCount),
		e.GPUName,
		formatOptional(e.GPUMemory),
		strconv.FormatBool(e.Spot),
		formatOptional(e.DiskSize),
		vendor(e.GPUVendor),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}

	return formatFloat(*v)
}

func vendor(v models.AcceleratorVendor) string {
	if v == models.VendorNone {
		return ""
	}

	return v.String()
}
