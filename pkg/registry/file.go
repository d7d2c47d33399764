package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Table is the on-disk candidate table
//
//	candidates:
//	  - name: A_Qiii
//	    format: "<Qiii"
//	    columns: [timestamp, x, y, z]
//	  - name: K_explicit
//	    byte_order: big
//	    fields:
//	      - {name: timestamp, kind: uint, width: 8}
//	      - {name: heading, kind: half, width: 2}
type Table struct {
	Candidates []CandidateSpec `yaml:"candidates" toml:"candidates" json:"candidates"`
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) candidate table.
// Syntax errors fail the whole file; layout errors are left for Load so they
// only reject their own candidate.
func LoadFile(path string) ([]CandidateSpec, error) {
	var table Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read candidate table: %w", err)
		}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse candidate table %s: %w", path, err)
		}
	case ".toml":
		meta, err := toml.DecodeFile(path, &table)
		if err != nil {
			return nil, fmt.Errorf("failed to parse candidate table %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("candidate table %s has unknown keys: %v", path, undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTable, path)
	}
	return table.Candidates, nil
}

// SaveFile writes specs as a YAML or TOML table, chosen by extension
func SaveFile(path string, specs []CandidateSpec) error {
	table := Table{Candidates: specs}
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(table)
	case ".toml":
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(table)
		data = []byte(b.String())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTable, path)
	}
	if err != nil {
		return fmt.Errorf("failed to encode candidate table: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write candidate table: %w", err)
	}
	return nil
}

// LoadTable reads a candidate file and loads it into a registry
func LoadTable(path string) (*Registry, error) {
	specs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(specs)
}
