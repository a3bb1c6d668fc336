package sof_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marithon/internal/sof"
)

func TestParseLabelSet_KeepsOrder(t *testing.T) {
	set, err := sof.ParseLabelSet([]byte("B:\n  - second\nA:\n  - first\n  - other\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, set.Keys)
	assert.Equal(t, []string{"first", "other"}, set.Get("A"))
	assert.Equal(t, 2, set.Len())
}

func TestParseLabelSet_Empty(t *testing.T) {
	set, err := sof.ParseLabelSet(nil)

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestParseLabelSet_NotMapping(t *testing.T) {
	_, err := sof.ParseLabelSet([]byte("- a\n- b\n"))
	assert.Error(t, err)

	_, err = sof.ParseLabelSet([]byte("A: scalar\n"))
	assert.Error(t, err)
}

func TestLoadPatterns_BuiltIn(t *testing.T) {
	set, err := sof.LoadPatterns("")

	require.NoError(t, err)
	assert.Equal(t, []string{sof.KeyVessel, sof.KeyVoyageFrom, sof.KeyVoyageTo, sof.KeyPort, sof.KeyCargo}, set.Keys)
	assert.Contains(t, set.Get(sof.KeyVessel), "vessel name")
}

func TestLoadOntology_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yml")
	require.NoError(t, os.WriteFile(path, []byte("COMMENCE:\n  - began loading\n"), 0o600))

	set, err := sof.LoadOntology(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"COMMENCE"}, set.Keys)
	assert.Equal(t, []string{"began loading"}, set.Get("COMMENCE"))
}

func TestLoadOntology_MissingFile(t *testing.T) {
	_, err := sof.LoadOntology(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
