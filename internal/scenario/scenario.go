// Package scenario loads and saves working sets as YAML files.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/models"
)

// File is the on-disk layout of a scenario
type File struct {
	Name   string       `yaml:"name,omitempty"`
	Staff  []StaffSpec  `yaml:"staff"`
	Demand []DemandSpec `yaml:"demand"`
}

type StaffSpec struct {
	Name      string          `yaml:"name"`
	DailyCost decimal.Decimal `yaml:"daily_cost"`
	MinDays   int             `yaml:"min_days"`
	MaxDays   int             `yaml:"max_days"`
}

type DemandSpec struct {
	Day      string `yaml:"day"`
	Required int    `yaml:"required"`
}

// Default is the built-in week: seven staff at cost 100 working 3 to 5 days, with busier weekends.
func Default() models.WorkingSet {
	ws := models.WorkingSet{}
	for i := 1; i <= 7; i++ {
		ws.Staff = append(ws.Staff, models.StaffMember{
			Name:        fmt.Sprintf("Staff %d", i),
			DailyCost:   decimal.NewFromInt(100),
			MinWorkDays: 3,
			MaxWorkDays: 5,
		})
	}
	required := []int{3, 3, 3, 3, 3, 5, 5}
	for i, day := range constants.Weekdays {
		ws.Demand = append(ws.Demand, models.DemandEntry{Day: day, RequiredCount: required[i]})
	}
	return ws
}

// Parse decodes scenario YAML into a working set
func Parse(data []byte) (models.WorkingSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.WorkingSet{}, fmt.Errorf("scenario: payload is empty")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return models.WorkingSet{}, fmt.Errorf("scenario: decode: %w", err)
	}
	return f.WorkingSet()
}

// WorkingSet converts the file layout into the model
func (f File) WorkingSet() (models.WorkingSet, error) {
	ws := models.WorkingSet{
		Staff:  make([]models.StaffMember, 0, len(f.Staff)),
		Demand: make([]models.DemandEntry, 0, len(f.Demand)),
	}
	for i, s := range f.Staff {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return models.WorkingSet{}, fmt.Errorf("scenario: staff entry %d has no name", i+1)
		}
		ws.Staff = append(ws.Staff, models.StaffMember{
			Name:        name,
			DailyCost:   s.DailyCost,
			MinWorkDays: s.MinDays,
			MaxWorkDays: s.MaxDays,
		})
	}
	for i, d := range f.Demand {
		day := strings.TrimSpace(d.Day)
		if day == "" {
			return models.WorkingSet{}, fmt.Errorf("scenario: demand entry %d has no day", i+1)
		}
		ws.Demand = append(ws.Demand, models.DemandEntry{Day: day, RequiredCount: d.Required})
	}
	return ws, nil
}

// FromWorkingSet is the inverse of File.WorkingSet
func FromWorkingSet(name string, ws models.WorkingSet) File {
	f := File{Name: name}
	for _, s := range ws.Staff {
		f.Staff = append(f.Staff, StaffSpec{Name: s.Name, DailyCost: s.DailyCost, MinDays: s.MinWorkDays, MaxDays: s.MaxWorkDays})
	}
	for _, d := range ws.Demand {
		f.Demand = append(f.Demand, DemandSpec{Day: d.Day, Required: d.RequiredCount})
	}
	return f
}

// Load reads a scenario file
func Load(path string) (models.WorkingSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.WorkingSet{}, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	ws, err := Parse(content)
	if err != nil {
		return models.WorkingSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return ws, nil
}

// LoadOrDefault reads path, or returns the built-in week when the file does not exist.
// The boolean reports whether the file was used.
func LoadOrDefault(path string) (models.WorkingSet, bool, error) {
	ws, err := Load(path)
	if err == nil {
		return ws, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	return models.WorkingSet{}, false, err
}

// Marshal encodes a working set as scenario YAML
func Marshal(name string, ws models.WorkingSet) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromWorkingSet(name, ws)); err != nil {
		return nil, fmt.Errorf("scenario: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("scenario: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes ws to path, creating parent directories
func Save(path, name string, ws models.WorkingSet) error {
	data, err := Marshal(name, ws)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("scenario: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("scenario: write %s: %w", path, err)
	}
	return nil
}
