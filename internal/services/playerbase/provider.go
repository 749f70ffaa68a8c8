package playerbase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"sigs.k8s.io/yaml"

	"github.com/mcoot/pelada/internal/model"
)

// DefaultSheet is the sheet read from keyed YAML/JSON files when none is configured
const DefaultSheet = "Banco"

// Canonical column names
const (
	ColumnName     = "name"
	ColumnPosition = "position"
	ColumnRating   = "rating"
)

var requiredColumns = []string{ColumnName, ColumnPosition, ColumnRating}

// columnAliases maps lower-cased header text onto a canonical column
var columnAliases = map[string]string{
	"name":     ColumnName,
	"nome":     ColumnName,
	"position": ColumnPosition,
	"posição":  ColumnPosition,
	"posicao":  ColumnPosition,
	"rating":   ColumnRating,
	"nota":     ColumnRating,
}

// Provider loads the full player base from some source
type Provider interface {
	LoadPlayers(ctx context.Context) ([]model.Player, error)
}

// FileProvider reads the player base from a CSV, YAML or JSON file.
// Sheet selects the list to read when the YAML/JSON document is keyed by
// sheet name; it is ignored for CSV and for plain lists.
type FileProvider struct {
	Path  string
	Sheet string
}

// NewFileProvider creates a FileProvider, defaulting the sheet to DefaultSheet
func NewFileProvider(path, sheet string) *FileProvider {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &FileProvider{Path: path, Sheet: sheet}
}

var _ Provider = (*FileProvider)(nil)

func (p *FileProvider) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading player base %s: %v", model.ErrSourceUnavailable, p.Path, err)
	}

	var records []map[string]any
	switch ext := strings.ToLower(filepath.Ext(p.Path)); ext {
	case ".csv":
		records, err = readCSV(data)
	case ".yaml", ".yml", ".json":
		records, err = readDocument(data, p.Sheet)
	default:
		return nil, fmt.Errorf("%w: unsupported player base format %q", model.ErrSchemaInvalid, ext)
	}
	if err != nil {
		return nil, err
	}

	return ParseRecords(records)
}

func readCSV(data []byte) ([]map[string]any, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing columns: %s", model.ErrSchemaInvalid, strings.Join(requiredColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv header: %v", model.ErrSchemaInvalid, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if err := checkColumns(header); err != nil {
		return nil, err
	}

	records := []map[string]any{}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading csv row: %v", model.ErrSchemaInvalid, err)
		}
		record := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// readDocument accepts either a top-level list of players or a mapping of
// sheet name to list
func readDocument(data []byte, sheet string) ([]map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing player base: %v", model.ErrSchemaInvalid, err)
	}

	if sheets, ok := doc.(map[string]any); ok {
		if sheet == "" {
			sheet = DefaultSheet
		}
		list, ok := sheets[sheet]
		if !ok {
			return nil, fmt.Errorf("%w: sheet %q not found", model.ErrSchemaInvalid, sheet)
		}
		doc = list
	}

	items, ok := doc.([]any)
	if !ok {
		if doc == nil {
			return []map[string]any{}, nil
		}
		return nil, fmt.Errorf("%w: expected a list of players", model.ErrSchemaInvalid)
	}

	records := make([]map[string]any, 0, len(items))
	columns := map[string]struct{}{}
	for i, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is not an object", model.ErrSchemaInvalid, i)
		}
		for k := range record {
			columns[k] = struct{}{}
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		header := make([]string, 0, len(columns))
		for k := range columns {
			header = append(header, k)
		}
		if err := checkColumns(header); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func canonicalColumn(header string) (string, bool) {
	col, ok := columnAliases[strings.ToLower(strings.TrimSpace(header))]
	return col, ok
}

func checkColumns(header []string) error {
	present := map[string]bool{}
	for _, h := range header {
		if col, ok := canonicalColumn(h); ok {
			present[col] = true
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing columns: %s", model.ErrSchemaInvalid, strings.Join(missing, ", "))
	}
	return nil
}

// ParseRecords turns raw rows into players. Positions are normalized, ratings
// that do not parse or are negative become 0, rows without a name are skipped
// and for a repeated name the first row wins.
func ParseRecords(records []map[string]any) ([]model.Player, error) {
	players := make([]model.Player, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, record := range records {
		fields := map[string]any{}
		for k, v := range record {
			if col, ok := canonicalColumn(k); ok {
				fields[col] = v
			}
		}

		name := strings.TrimSpace(cast.ToString(fields[ColumnName]))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		players = append(players, model.Player{
			Name:     name,
			Position: model.NormalizePosition(cast.ToString(fields[ColumnPosition])),
			Rating:   parseRating(fields[ColumnRating]),
		})
	}
	return players, nil
}

func parseRating(v any) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	rating, err := cast.ToFloat64E(v)
	if err != nil || rating < 0 || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0
	}
	return rating
}
