package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsfuse/pkg/dass"
)

func TestConfigValidate(t *testing.T) {
	cases := map[string]Config{
		"no elements":       {Elements: 0, Sources: 1, Density: 0.5},
		"too many elements": {Elements: 65, Sources: 1, Density: 0.5},
		"no sources":        {Elements: 2, Sources: 0, Density: 0.5},
		"zero density":      {Elements: 2, Sources: 1, Density: 0},
		"density above one": {Elements: 2, Sources: 1, Density: 1.5},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Config{Elements: 3, Sources: 2, Density: 0.5}.Validate())
}

func TestGenerate(t *testing.T) {
	cfg := Config{Elements: 4, Sources: 3, Density: 0.5, Seed: 42}

	t.Run("produces a valid decodable document", func(t *testing.T) {
		doc, err := Generate(cfg)
		require.NoError(t, err)
		require.NoError(t, doc.Validate())
		assert.Equal(t, dass.Format, doc.Metadata.Format)
		assert.NotEmpty(t, doc.Metadata.RunID)
		assert.Len(t, doc.Frame, 4)
		require.Len(t, doc.Sources, 3)

		_, sources, err := doc.MassFunctions()
		require.NoError(t, err)
		for i, m := range sources {
			assert.True(t, m.IsNormalized(), "source %d", i)
			assert.True(t, m.FrameDeclared(), "source %d", i)
		}
	})

	t.Run("is deterministic for a fixed seed", func(t *testing.T) {
		d1, err := Generate(cfg)
		require.NoError(t, err)
		d2, err := Generate(cfg)
		require.NoError(t, err)
		ignore := cmpopts.IgnoreFields(dass.Metadata{}, "GeneratedAt", "RunID")
		if diff := cmp.Diff(d1, d2, ignore); diff != "" {
			t.Errorf("documents differ for the same seed (-first +second):\n%s", diff)
		}
	})

	t.Run("sources are never dogmatic", func(t *testing.T) {
		doc, err := Generate(Config{Elements: 2, Sources: 5, Density: 0.3, Seed: 7})
		require.NoError(t, err)
		for _, s := range doc.Sources {
			assert.Greater(t, s.BBA["{e1,e2}"], 0.0, "source %s", s.ID)
		}
	})

	t.Run("include-empty admits conflict mass", func(t *testing.T) {
		doc, err := Generate(Config{Elements: 2, Sources: 1, Density: 1, IncludeEmpty: true, Seed: 7})
		require.NoError(t, err)
		assert.Greater(t, doc.Sources[0].BBA["{}"], 0.0)
	})
}
