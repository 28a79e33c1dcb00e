// Package generator produces random DASS documents for benchmarking and
// fixture seeding. Output is deterministic for a fixed seed.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"dsfuse/pkg/dass"
	"dsfuse/pkg/mass"
)

// Config controls document generation.
type Config struct {
	// Elements is the frame size; labels are e1..eN.
	Elements int
	// Sources is the number of BBAs to emit.
	Sources int
	// Density in (0,1] is the fraction of non-empty subsets given mass.
	Density float64
	// IncludeEmpty adds a small mass on the empty set, producing
	// unnormalized sources for conflict-handling workloads.
	IncludeEmpty bool
	// Seed fixes the random stream; 0 means a random document.
	Seed int64
}

// Validate rejects configurations that cannot produce a document.
func (c Config) Validate() error {
	if c.Elements < 1 || c.Elements > mass.MaxFrameSize {
		return fmt.Errorf("%w: elements must be in [1, %d], got %d", mass.ErrValidation, mass.MaxFrameSize, c.Elements)
	}
	if c.Sources < 1 {
		return fmt.Errorf("%w: sources must be positive, got %d", mass.ErrValidation, c.Sources)
	}
	if c.Density <= 0 || c.Density > 1 {
		return fmt.Errorf("%w: density must be in (0, 1], got %g", mass.ErrValidation, c.Density)
	}
	return nil
}

// Generate builds a random DASS document per the configuration.
func Generate(cfg Config) (*dass.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	labels := make([]string, cfg.Elements)
	for i := range labels {
		labels[i] = fmt.Sprintf("e%d", i+1)
	}
	frame, err := mass.NewFrame(labels...)
	if err != nil {
		return nil, err
	}

	doc := dass.New(fmt.Sprintf("random evidence, %d elements, %d sources", cfg.Elements, cfg.Sources))
	doc.Metadata.RunID = uuid.NewString()
	doc.Frame = frame.Elements()
	doc.Sources = make([]dass.Source, cfg.Sources)
	for i := range doc.Sources {
		doc.Sources[i] = dass.Source{
			ID:  fmt.Sprintf("source_%d", i+1),
			BBA: randomBBA(rng, frame, cfg),
		}
	}
	return doc, nil
}

// randomBBA draws a normalized assignment over a random selection of
// non-empty subsets, always keeping the full frame focal so the source
// is never dogmatic.
func randomBBA(rng *rand.Rand, frame *mass.Frame, cfg Config) map[string]float64 {
	subsets := frame.Powerset()[1:] // skip the empty set
	count := int(float64(len(subsets)) * cfg.Density)
	if count < 1 {
		count = 1
	}
	rng.Shuffle(len(subsets), func(i, j int) {
		subsets[i], subsets[j] = subsets[j], subsets[i]
	})
	picked := subsets[:count]

	full := frame.Full()
	hasFull := false
	for _, s := range picked {
		if s == full {
			hasFull = true
			break
		}
	}
	if !hasFull {
		picked = append(picked, full)
	}
	if cfg.IncludeEmpty {
		picked = append(picked, mass.Empty)
	}

	total := 0.0
	raw := make(map[mass.Subset]float64, len(picked))
	for _, s := range picked {
		v := rng.Float64() + 1e-6
		raw[s] = v
		total += v
	}
	bba := make(map[string]float64, len(raw))
	for s, v := range raw {
		bba[frame.Format(s)] = v / total
	}
	return bba
}
