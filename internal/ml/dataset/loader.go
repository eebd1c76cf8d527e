// Package dataset reads labeled text records from JSON, JSON Lines and CSV
// files.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
)

// Format is a dataset file encoding
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", entity.ErrDatasetParse, filepath.Ext(path))
	}
}

// Load reads every example from path
func Load(path string) ([]entity.TrainingExample, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	examples, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return examples, nil
}

// Decode reads examples in the given format. Every record must carry a
// non-blank text and a label; labels may be strings or numbers.
func Decode(r io.Reader, format Format) ([]entity.TrainingExample, error) {
	var (
		examples []entity.TrainingExample
		err      error
	)
	switch format {
	case FormatJSON:
		examples, err = decodeJSON(r)
	case FormatJSONL:
		examples, err = decodeJSONL(r)
	case FormatCSV:
		examples, err = decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", entity.ErrDatasetParse, format)
	}
	if err != nil {
		return nil, err
	}
	for i := range examples {
		examples[i].Label = strings.TrimSpace(examples[i].Label)
		if strings.TrimSpace(examples[i].Text) == "" {
			return nil, fmt.Errorf("%w: record %d has no text", entity.ErrDatasetParse, i)
		}
		if examples[i].Label == "" {
			return nil, fmt.Errorf("%w: record %d has no label", entity.ErrDatasetParse, i)
		}
	}
	return examples, nil
}

type jsonRecord struct {
	Text  *string         `json:"text"`
	Label json.RawMessage `json:"label"`
}

func (r jsonRecord) example(i int) (entity.TrainingExample, error) {
	if r.Text == nil {
		return entity.TrainingExample{}, fmt.Errorf("%w: record %d has no text", entity.ErrDatasetParse, i)
	}
	label, err := labelString(r.Label)
	if err != nil {
		return entity.TrainingExample{}, fmt.Errorf("%w: record %d: %v", entity.ErrDatasetParse, i, err)
	}
	return entity.TrainingExample{Text: *r.Text, Label: label}, nil
}

// labelString accepts a JSON string or number
func labelString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("label is missing")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("label must be a string or number: %s", raw)
	}
	return n.String(), nil
}

// decodeJSON accepts an array of records or a column-oriented object of the
// form {"text": {"0": ...}, "label": {"0": ...}}.
func decodeJSON(r io.Reader) ([]entity.TrainingExample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", entity.ErrDatasetParse)
	}

	switch data[0] {
	case '[':
		var records []jsonRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrDatasetParse, err)
		}
		examples := make([]entity.TrainingExample, 0, len(records))
		for i, rec := range records {
			ex, err := rec.example(i)
			if err != nil {
				return nil, err
			}
			examples = append(examples, ex)
		}
		return examples, nil
	case '{':
		return decodeColumns(data)
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", entity.ErrDatasetParse)
	}
}

func decodeColumns(data []byte) ([]entity.TrainingExample, error) {
	var columns struct {
		Text  map[string]string          `json:"text"`
		Label map[string]json.RawMessage `json:"label"`
	}
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDatasetParse, err)
	}
	if columns.Text == nil || columns.Label == nil {
		return nil, fmt.Errorf("%w: columns text and label are required", entity.ErrDatasetParse)
	}

	keys := make([]string, 0, len(columns.Text))
	for k := range columns.Text {
		keys = append(keys, k)
	}
	sortRowKeys(keys)

	examples := make([]entity.TrainingExample, 0, len(keys))
	for _, k := range keys {
		raw, ok := columns.Label[k]
		if !ok {
			return nil, fmt.Errorf("%w: row %q has text but no label", entity.ErrDatasetParse, k)
		}
		label, err := labelString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: row %q: %v", entity.ErrDatasetParse, k, err)
		}
		examples = append(examples, entity.TrainingExample{Text: columns.Text[k], Label: label})
	}
	if len(columns.Label) != len(columns.Text) {
		return nil, fmt.Errorf("%w: %d texts but %d labels", entity.ErrDatasetParse, len(columns.Text), len(columns.Label))
	}
	return examples, nil
}

// sortRowKeys orders numeric row keys numerically and everything else after
// them lexicographically.
func sortRowKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}

func decodeJSONL(r io.Reader) ([]entity.TrainingExample, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var examples []entity.TrainingExample
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec jsonRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", entity.ErrDatasetParse, line, err)
		}
		ex, err := rec.example(len(examples))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDatasetParse, err)
	}
	return examples, nil
}

func decodeCSV(r io.Reader) ([]entity.TrainingExample, error) {
	var records []*entity.TrainingExample
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDatasetParse, err)
	}
	examples := make([]entity.TrainingExample, 0, len(records))
	for _, rec := range records {
		examples = append(examples, *rec)
	}
	return examples, nil
}

// FileLoader loads datasets from the local filesystem
type FileLoader struct{}

// Load reads every example from path
func (FileLoader) Load(path string) ([]entity.TrainingExample, error) {
	return Load(path)
}
