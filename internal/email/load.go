package email

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedSource is returned for files that are neither JSON nor CSV.
var ErrUnsupportedSource = errors.New("unsupported email source")

// #region format

// Format identifies how a batch of emails is encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: invalid file format %s", ErrUnsupportedSource, path)
	}
}

// #endregion format

// #region loader

// LoadFile reads a JSON array or a CSV file of email records.
func LoadFile(path string) ([]Email, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrUnsupportedSource, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	emails, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return emails, nil
}

// Decode reads email records from r in the given format.
func Decode(r io.Reader, format Format) ([]Email, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatCSV:
		return decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: format %q", ErrUnsupportedSource, format)
	}
}

func decodeJSON(r io.Reader) ([]Email, error) {
	var emails []Email
	if err := json.NewDecoder(r).Decode(&emails); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return emails, nil
}

// decodeCSV expects a header row. Columns are matched to fields case-insensitively;
// a column that is not in the header leaves its field absent.
func decodeCSV(r io.Reader) ([]Email, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv header: %w", err)
	}
	columns := make(map[int]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var emails []Email
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv row %d: %w", len(emails)+2, err)
		}
		e := Email{present: make(map[string]bool, len(RequiredFields))}
		for i, value := range row {
			if name, ok := columns[i]; ok {
				e.set(name, value)
			}
		}
		emails = append(emails, e)
	}
	return emails, nil
}

// #endregion loader
