package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = &out
	err := a.Run(append([]string{"recipectl", "--config", writeConfig(t), "--badger", dir}, args...))
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: badger\n  in_memory: true\nstorage:\n  key_prefix: \"ctl:\"\n"), 0o600))
	return path
}

func seeded(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := run(t, dir, "import", filepath.Join("testdata", "recipes.json"))
	require.NoError(t, err)
	require.Contains(t, out, "imported 3, skipped 0, failed 1")
	return dir
}

func TestImportCommand(t *testing.T) {
	dir := seeded(t)

	out, err := run(t, dir, "import", filepath.Join("testdata", "recipes.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0, skipped 3, failed 1")
}

func TestImportCommand_RequiresFile(t *testing.T) {
	_, err := run(t, t.TempDir(), "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one file")
}

func TestSearchCommand(t *testing.T) {
	dir := seeded(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "free text",
			args:    []string{"search", "-q", "tacos"},
			want:    []string{"Veggie Tacos", "Beef Tacos", "score="},
			notWant: []string{"Grilled Salmon"},
		},
		{
			name:    "ingredients",
			args:    []string{"search", "-i", "lemon"},
			want:    []string{"Grilled Salmon"},
			notWant: []string{"Tacos"},
		},
		{
			name:    "category",
			args:    []string{"search", "--category", "mex"},
			want:    []string{"Veggie Tacos", "Beef Tacos"},
			notWant: []string{"Grilled Salmon"},
		},
		{
			name:    "nutrition",
			args:    []string{"search", "--max-calories", "400", "--min-protein", "20"},
			want:    []string{"Grilled Salmon", "380 kcal"},
			notWant: []string{"Tacos"},
		},
		{
			name: "popular",
			args: []string{"search", "-n", "1"},
			want: []string{"3", "Grilled Salmon"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, dir, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRecommendCommand(t *testing.T) {
	dir := seeded(t)

	out, err := run(t, dir, "recommend", "--restriction", "vegetarian")
	require.NoError(t, err)
	assert.Contains(t, out, "Veggie Tacos")
	assert.NotContains(t, out, "Beef Tacos")
	assert.NotContains(t, out, "Grilled Salmon")

	out, err = run(t, dir, "recommend", "--allergy", "dairy")
	require.NoError(t, err)
	assert.NotContains(t, out, "Beef Tacos")
}

func TestAnnotateCommand(t *testing.T) {
	dir := seeded(t)

	out, err := run(t, dir, "annotate", "--id", "3", "--goal", "gain", "--allergy", "fish", "--condition", "hypertension")
	require.NoError(t, err)
	assert.Contains(t, out, "Contains allergens: Fish")
	assert.Contains(t, out, "Low sodium")
	assert.Contains(t, out, "High protein")

	out, err = run(t, dir, "annotate", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "no health notes")

	_, err = run(t, dir, "annotate", "--id", "42")
	require.Error(t, err)
}

func TestAnnotateCommand_IDRequired(t *testing.T) {
	_, err := run(t, t.TempDir(), "annotate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")
}
