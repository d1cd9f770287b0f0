package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/records"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatCSV}
}

// CheckFormat rejects a format Write cannot produce.
func CheckFormat(format string) error {
	if !slices.Contains(Formats(), format) {
		return errs.InvalidArgument("export", "unknown format %q (use one of %v)", format, Formats())
	}
	return nil
}

// Write encodes the records of one kind. JSON and YAML use the record field
// names; CSV writes a header row of the table's column names.
func Write(w io.Writer, kind records.Kind, batch records.Batch, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(batch, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal data: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		if err := enc.Encode(batch); err != nil {
			return fmt.Errorf("failed to marshal data: %w", err)
		}
		return nil
	case FormatCSV:
		return writeCSV(w, kind, batch)
	default:
		return CheckFormat(format)
	}
}

func writeCSV(w io.Writer, kind records.Kind, batch records.Batch) error {
	spec := records.SpecFor(kind)
	if spec == nil {
		return errs.InvalidArgument("export", "unknown table %q", kind)
	}

	writer := csv.NewWriter(w)
	writer.Write(spec.ColumnNames())
	for i, r := range batch {
		if r.Kind() != kind {
			return errs.InvalidArgument("export", "record %d is a %s, not a %s", i, r.Kind(), kind)
		}
		vals := r.Values()
		row := make([]string, len(vals))
		for j, v := range vals {
			row[j] = fmt.Sprintf("%v", v)
		}
		writer.Write(row)
	}
	writer.Flush()
	return writer.Error()
}

// ToFile writes the export under dir as <table>_<timestamp>.<format> and
// returns the file path.
func ToFile(dir string, kind records.Kind, batch records.Batch, format string) (string, error) {
	if err := CheckFormat(format); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", kind, timestamp, format))

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, kind, batch, format); err != nil {
		file.Close()
		os.Remove(filePath)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}
