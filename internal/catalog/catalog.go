// Package catalog reads the list of featured workflows offered on the landing page.
//
// A catalog maps short keys (used on the command line) to published workflow
// ids. Entries come from the config file's featured list and, optionally, from
// a separate CSV or YAML file.
//
// CSV format:
//
//	key,workflow_id,label,description
//	rnaseq,0a248a1f62a0cc04,RNA-Seq,Paired-end RNA sequence analysis
//	snp,f2db41e1fa331b3e,SNP calling,
//
// Only key and workflow_id are required columns. Rows keep file order, which
// is the display order.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"galaxy-launch/internal/config"
)

// ErrUnknownWorkflow is returned by [Catalog.Lookup] for keys not in the catalog.
var ErrUnknownWorkflow = errors.New("unknown featured workflow")

// Entry is one featured workflow.
type Entry struct {
	// Key is the short command-line name, unique within a catalog.
	Key string `yaml:"key"`

	// WorkflowID is the published workflow's id on the platform.
	WorkflowID string `yaml:"workflow_id"`

	// Label is the display title. Defaults to Key when empty.
	Label string `yaml:"label"`

	// Description is optional free text.
	Description string `yaml:"description"`
}

// Title returns Label, or Key when no label is set.
func (e Entry) Title() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Key
}

// Catalog holds featured workflows in display order.
type Catalog struct {
	Entries []Entry
}

// FromConfig builds a catalog from the config's featured list.
func FromConfig(featured []config.FeaturedWorkflow) (*Catalog, error) {
	entries := make([]Entry, 0, len(featured))
	for _, f := range featured {
		entries = append(entries, Entry{
			Key:         strings.TrimSpace(f.Key),
			WorkflowID:  strings.TrimSpace(f.WorkflowID),
			Label:       f.Label,
			Description: f.Description,
		})
	}
	c := &Catalog{Entries: entries}
	if err := c.validate("config"); err != nil {
		return nil, err
	}
	return c, nil
}

// Load builds the catalog from the config's featured list followed by the
// entries of cfg.CatalogPath, when set.
func Load(cfg *config.Config) (*Catalog, error) {
	c, err := FromConfig(cfg.Featured)
	if err != nil {
		return nil, err
	}
	if cfg.CatalogPath == "" {
		return c, nil
	}

	fromFile, err := ReadFromFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	merged := &Catalog{Entries: append(c.Entries, fromFile.Entries...)}
	if err := merged.validate(cfg.CatalogPath); err != nil {
		return nil, err
	}
	return merged, nil
}

// ReadFromFile reads a catalog file. Files ending in .yaml or .yml are read
// as YAML; everything else is read as CSV.
func ReadFromFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	var c *Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c, err = readYAML(f)
	default:
		c, err = readCSV(f)
	}
	if err != nil {
		return nil, err
	}
	if err := c.validate(path); err != nil {
		return nil, err
	}
	return c, nil
}

func readCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	colIndex := buildColumnIndex(header)
	if err := validateColumns(colIndex); err != nil {
		return nil, err
	}

	var entries []Entry
	lineNum := 1
	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog line %d: %w", lineNum, err)
		}

		entry := Entry{
			Key:         getField(record, colIndex, "key"),
			WorkflowID:  getField(record, colIndex, "workflow_id"),
			Label:       getField(record, colIndex, "label"),
			Description: getField(record, colIndex, "description"),
		}
		if entry.Key == "" || entry.WorkflowID == "" {
			return nil, fmt.Errorf("catalog line %d: key and workflow_id are required", lineNum)
		}
		entries = append(entries, entry)
	}

	return &Catalog{Entries: entries}, nil
}

var requiredColumns = []string{"key", "workflow_id"}

func buildColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return index
}

func validateColumns(colIndex map[string]int) error {
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return fmt.Errorf("catalog missing required column: %s", col)
		}
	}
	return nil
}

func getField(record []string, colIndex map[string]int, column string) string {
	idx, ok := colIndex[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// validate checks that every entry has a key and an id and that keys are unique.
func (c *Catalog) validate(source string) error {
	seen := make(map[string]bool, len(c.Entries))
	for i, e := range c.Entries {
		if e.Key == "" || e.WorkflowID == "" {
			return fmt.Errorf("%s: featured workflow %d: key and workflow_id are required", source, i+1)
		}
		if seen[e.Key] {
			return fmt.Errorf("%s: duplicate featured workflow key %q", source, e.Key)
		}
		seen[e.Key] = true
	}
	return nil
}

// Lookup returns the entry with the given key.
func (c *Catalog) Lookup(key string) (Entry, error) {
	for _, e := range c.Entries {
		if e.Key == key {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrUnknownWorkflow, key)
}

// Resolve maps a command-line argument to a workflow id. A catalog key
// yields its workflow id; anything else is taken to be a workflow id already.
func (c *Catalog) Resolve(arg string) (workflowID string, entry *Entry) {
	if e, err := c.Lookup(arg); err == nil {
		return e.WorkflowID, &e
	}
	return arg, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.Entries)
}
