package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
)

const squareFeature = `{"type":"Feature","properties":{"name":"plot 7"},"geometry":{"type":"Polygon",
  "coordinates":[[[0,0],[0.01,0],[0.01,0.01],[0,0.01],[0,0]]]}}`

func writeArea(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "area.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerate_YAML(t *testing.T) {
	area := writeArea(t, squareFeature)

	stdout, stderr, err := execute(t, "generate", area, "--format", "yaml", "--subdivisions", "4", "--speed", "5")
	require.NoError(t, err)

	var doc yamlPath
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "grid", doc.Pattern)
	assert.Equal(t, 10, doc.WaypointCount)
	assert.Len(t, doc.Waypoints, 10)
	assert.Equal(t, coverage.Point{X: 0, Y: 0}, doc.Waypoints[0])
	assert.Greater(t, doc.EstimatedSeconds, 0.0)
	assert.Contains(t, stderr, "grid path planned")
}

func TestGenerate_GeoJSONToFile(t *testing.T) {
	area := writeArea(t, squareFeature)
	out := filepath.Join(t.TempDir(), "path.geojson")

	stdout, _, err := execute(t, "generate", area, "-p", "crosshatch", "-s", "2", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 3)
}

func TestGenerate_Errors(t *testing.T) {
	area := writeArea(t, squareFeature)
	point := writeArea(t, `{"type":"Point","coordinates":[0,0]}`)

	_, _, err := execute(t, "generate", area, "--pattern", "spiral")
	assert.True(t, errors.Is(err, coverage.ErrUnknownPattern), "got %v", err)

	_, _, err = execute(t, "generate", area, "--subdivisions", "0")
	assert.True(t, errors.Is(err, coverage.ErrInvalidSubdivisions), "got %v", err)

	_, _, err = execute(t, "generate", area, "--max-waypoints", "10", "-s", "50")
	assert.True(t, errors.Is(err, coverage.ErrExcessiveDensity), "got %v", err)

	_, _, err = execute(t, "generate", point)
	assert.Error(t, err)

	_, _, err = execute(t, "generate", area, "--format", "kml")
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = execute(t, "generate")
	assert.Error(t, err)
}

func TestPatterns(t *testing.T) {
	stdout, _, err := execute(t, "patterns")
	require.NoError(t, err)
	for _, p := range []string{"grid", "crosshatch", "perimeter"} {
		assert.True(t, strings.Contains(stdout, p), "missing %s", p)
	}
	assert.Contains(t, stdout, "boundary vertices in input order")
	assert.NotContains(t, stdout, "closed back")
}
