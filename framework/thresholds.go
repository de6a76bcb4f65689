package framework

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPlatform is returned when no threshold table matches a platform.
var ErrUnknownPlatform = errors.New("unknown platform")

//go:embed thresholds.yaml
var defaultThresholds []byte

var validate = validator.New()

// ThresholdSet indexes threshold tables by lower-cased platform name.
type ThresholdSet struct {
	tables map[string]ThresholdTable
}

// DefaultThresholds returns the stock android and pc tables.
func DefaultThresholds() *ThresholdSet {
	set := &ThresholdSet{tables: make(map[string]ThresholdTable)}
	var tables []ThresholdTable
	if err := yaml.Unmarshal(defaultThresholds, &tables); err != nil {
		panic(fmt.Sprintf("embedded thresholds: %v", err))
	}
	for _, table := range tables {
		if err := set.Add(table); err != nil {
			panic(fmt.Sprintf("embedded thresholds: %v", err))
		}
	}
	return set
}

// ValidateThresholds checks that every ceiling is non-negative and that the
// four tiers ascend.
func ValidateThresholds(table ThresholdTable) error {
	if err := validate.Struct(table); err != nil {
		return fmt.Errorf("thresholds %q: %w", table.Platform, err)
	}
	return nil
}

// Add validates table and stores it, replacing any table for the same
// platform.
func (s *ThresholdSet) Add(table ThresholdTable) error {
	if err := ValidateThresholds(table); err != nil {
		return err
	}
	if s.tables == nil {
		s.tables = make(map[string]ThresholdTable)
	}
	s.tables[strings.ToLower(table.Platform)] = table
	return nil
}

// Load reads a YAML (or JSON) list of tables from r and adds each one.
func (s *ThresholdSet) Load(r io.Reader) error {
	var tables []ThresholdTable
	if err := yaml.NewDecoder(r).Decode(&tables); err != nil {
		return fmt.Errorf("decode thresholds: %w", err)
	}
	for _, table := range tables {
		if err := s.Add(table); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the table for platform, ignoring case.
func (s *ThresholdSet) Get(platform string) (ThresholdTable, error) {
	if s != nil {
		if table, ok := s.tables[strings.ToLower(strings.TrimSpace(platform))]; ok {
			return table, nil
		}
	}
	return ThresholdTable{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
}

// Platforms lists the known platforms in sorted order.
func (s *ThresholdSet) Platforms() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.tables))
	for _, table := range s.tables {
		names = append(names, table.Platform)
	}
	sort.Strings(names)
	return names
}

// Tables returns every table sorted by platform.
func (s *ThresholdSet) Tables() []ThresholdTable {
	var tables []ThresholdTable
	for _, name := range s.Platforms() {
		table, _ := s.Get(name)
		tables = append(tables, table)
	}
	return tables
}
