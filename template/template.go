// Package template persists page annotation sets as named JSON files so
// one page's layout can be re-applied to others. A template is a flat
// JSON array of type-tagged records holding PDF-space state only.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wudi/annotkit/annot"
)

var (
	// ErrNotFound reports a template name with no file behind it.
	ErrNotFound = errors.New("template not found")
	// ErrFormat reports malformed template JSON.
	ErrFormat = errors.New("malformed template")
)

// Store reads and writes templates in a single directory, one file per
// named template. Files are opened and closed within each call.
type Store struct {
	dir string
}

// NewStore creates the directory if needed and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing this store.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes the records as a JSON array, overwriting any existing
// template of the same name.
func (s *Store) Save(name string, records []annot.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(name), data, 0o644)
}

// Load reads and parses one named template.
func (s *Store) Load(name string) ([]annot.Record, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, err
	}
	var records []annot.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrFormat, name, err)
	}
	return records, nil
}

// ApplyMany loads each named template and concatenates their records in
// the order the names were given. Templates are never merged or
// deduplicated; naming one twice yields its records twice.
func (s *Store) ApplyMany(names []string) ([]annot.Record, error) {
	var combined []annot.Record
	for _, name := range names {
		records, err := s.Load(name)
		if err != nil {
			return nil, err
		}
		combined = append(combined, records...)
	}
	return combined, nil
}

// Delete removes one named template. Deleting a missing template reports
// ErrNotFound.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return err
}

// List returns the available template names in sorted order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// ExportAll collects every template into a single bundle mapping name to
// record array.
func (s *Store) ExportAll() (map[string][]annot.Record, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	bundle := make(map[string][]annot.Record, len(names))
	for _, name := range names {
		records, err := s.Load(name)
		if err != nil {
			return nil, err
		}
		bundle[name] = records
	}
	return bundle, nil
}

// ImportAll writes every template in the bundle, overwriting existing
// names. There is no transactional guarantee: a failure mid-batch leaves
// earlier templates written.
func (s *Store) ImportAll(bundle map[string][]annot.Record) error {
	for name, records := range bundle {
		if err := s.Save(name, records); err != nil {
			return fmt.Errorf("import %q: %w", name, err)
		}
	}
	return nil
}

// WriteBundle serializes a bundle to a single JSON file, the
// export/import interchange format.
func WriteBundle(path string, bundle map[string][]annot.Record) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadBundle parses a bundle file written by WriteBundle.
func ReadBundle(path string) (map[string][]annot.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bundle map[string][]annot.Record
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	return bundle, nil
}
