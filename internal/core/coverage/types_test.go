package coverage_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
)

func TestParsePattern(t *testing.T) {
	for input, want := range map[string]coverage.Pattern{
		"grid":        coverage.Grid,
		"Crosshatch":  coverage.Crosshatch,
		" perimeter ": coverage.Perimeter,
	} {
		got, err := coverage.ParsePattern(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := coverage.ParsePattern("spiral")
	assert.ErrorIs(t, err, coverage.ErrUnknownPattern)

	_, err = coverage.ParsePattern("")
	assert.ErrorIs(t, err, coverage.ErrUnknownPattern)
}

func TestPattern_JSON(t *testing.T) {
	type req struct {
		Pattern coverage.Pattern `json:"pattern"`
	}

	var r req
	require.NoError(t, json.Unmarshal([]byte(`{"pattern":"crosshatch"}`), &r))
	assert.Equal(t, coverage.Crosshatch, r.Pattern)

	out, err := json.Marshal(req{Pattern: coverage.Perimeter})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pattern":"perimeter"}`, string(out))

	err = json.Unmarshal([]byte(`{"pattern":"zigzag"}`), &r)
	assert.ErrorIs(t, err, coverage.ErrUnknownPattern)

	_, err = json.Marshal(req{})
	assert.Error(t, err)
}

func TestParseTransitPolicy(t *testing.T) {
	p, err := coverage.ParseTransitPolicy("")
	require.NoError(t, err)
	assert.Equal(t, coverage.TransitJump, p)

	p, err = coverage.ParseTransitPolicy("nearest_corner")
	require.NoError(t, err)
	assert.Equal(t, coverage.TransitNearestCorner, p)

	_, err = coverage.ParseTransitPolicy("teleport")
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	b := coverage.Bounds(coverage.Polygon{{3, -1}, {-2, 4}, {7, 2}})
	assert.Equal(t, coverage.BoundingBox{MinX: -2, MaxX: 7, MinY: -1, MaxY: 4}, b)
	assert.Equal(t, 9.0, b.Width())
	assert.Equal(t, 5.0, b.Height())

	pb := coverage.Bounds(coverage.Path{{1, 1}, {4, 0}})
	assert.Equal(t, coverage.BoundingBox{MinX: 1, MaxX: 4, MinY: 0, MaxY: 1}, pb)
}
