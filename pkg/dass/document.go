// Package dass reads and writes DASS documents, the interchange format the
// engine shares with external harnesses and test fixtures: a JSON (or
// YAML) document carrying a frame of discernment and one basic belief
// assignment per source, with focal elements keyed in the "{a,b}" form.
package dass

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dsfuse/pkg/mass"
)

// Format and Version identify the interchange schema.
const (
	Format  = "DASS"
	Version = "1.0"
)

// Metadata describes a document's provenance.
type Metadata struct {
	Format      string `json:"format" yaml:"format"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
	GeneratedBy string `json:"generated_by,omitempty" yaml:"generated_by,omitempty"`
	RunID       string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// Source is one evidential source: an identifier and its basic belief
// assignment, keyed by the "{a,b}" subset form.
type Source struct {
	ID  string             `json:"id" yaml:"id"`
	BBA map[string]float64 `json:"bba" yaml:"bba"`
}

// Document is a DASS document.
type Document struct {
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Frame    []string `json:"frame_of_discernment" yaml:"frame_of_discernment"`
	Sources  []Source `json:"bba_sources" yaml:"bba_sources"`
}

// New builds a document shell with current metadata.
func New(description string) *Document {
	return &Document{
		Metadata: Metadata{
			Format:      Format,
			Version:     Version,
			Description: description,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			GeneratedBy: "dsfuse",
		},
	}
}

// Validate checks the structural invariants of a document: format tag,
// a non-empty frame, unique source IDs, and finite non-negative masses.
// Mass-sum and frame-membership checks happen in MassFunctions, where the
// subset keys are actually decoded.
func (d *Document) Validate() error {
	if d.Metadata.Format != Format {
		return fmt.Errorf("%w: document format %q, want %q", mass.ErrValidation, d.Metadata.Format, Format)
	}
	if len(d.Frame) == 0 {
		return fmt.Errorf("%w: empty frame_of_discernment", mass.ErrValidation)
	}
	seen := make(map[string]struct{}, len(d.Sources))
	for i, s := range d.Sources {
		if s.ID == "" {
			return fmt.Errorf("%w: source %d has no id", mass.ErrValidation, i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate source id %q", mass.ErrValidation, s.ID)
		}
		seen[s.ID] = struct{}{}
		if len(s.BBA) == 0 {
			return fmt.Errorf("%w: source %q has an empty bba", mass.ErrValidation, s.ID)
		}
		for k, v := range s.BBA {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("%w: source %q mass for %s is %g", mass.ErrValidation, s.ID, k, v)
			}
		}
	}
	return nil
}

// MassFunctions decodes the document into a frame and one normalized mass
// function per source, in document order.
func (d *Document) MassFunctions() (*mass.Frame, []*mass.MassFunction, error) {
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}
	frame, err := mass.NewFrame(d.Frame...)
	if err != nil {
		return nil, nil, err
	}
	out := make([]*mass.MassFunction, len(d.Sources))
	for i, s := range d.Sources {
		m, err := mass.FromStrings(frame, s.BBA)
		if err != nil {
			return nil, nil, fmt.Errorf("source %q: %w", s.ID, err)
		}
		out[i] = m
	}
	return frame, out, nil
}

// FromMassFunctions builds a document from mass functions, rendering
// every focal element in the canonical sorted "{a,b}" form.
func FromMassFunctions(frame *mass.Frame, sources []*mass.MassFunction, description string) *Document {
	d := New(description)
	d.Frame = frame.Elements()
	d.Sources = make([]Source, len(sources))
	for i, m := range sources {
		d.Sources[i] = Source{
			ID:  fmt.Sprintf("source_%d", i+1),
			BBA: m.Strings(),
		}
	}
	return d
}

// Load reads a document from disk, decoding JSON or YAML by extension
// (.yaml/.yml for YAML, JSON otherwise).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read DASS document: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses document bytes; ext selects the codec as in Load.
func Decode(data []byte, ext string) (*Document, error) {
	var d Document
	if isYAML(ext) {
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse DASS document: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse DASS document: %w", err)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Save writes the document to disk, JSON or YAML by extension.
func (d *Document) Save(path string) error {
	data, err := d.Encode(filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write DASS document: %w", err)
	}
	return nil
}

// Encode renders the document; ext selects the codec as in Load.
func (d *Document) Encode(ext string) ([]byte, error) {
	if isYAML(ext) {
		data, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("failed to encode DASS document: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode DASS document: %w", err)
	}
	return append(data, '\n'), nil
}

func isYAML(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
