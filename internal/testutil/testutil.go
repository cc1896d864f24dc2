// Package testutil provides shared test utilities and fixtures.
//
// Depth-grid fixtures are written as ASCII art so detection scenarios read
// like the picture they describe.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
)

// DefaultLegend maps fixture runes to depths: '.' is far (nothing rendered),
// digits 0-9 are depths 0.0-0.9, '#' is the near plane.
var DefaultLegend = map[rune]float32{
	'.': l2depth.FarDepth,
	'#': l2depth.NearDepth,
	'0': 0.0, '1': 0.1, '2': 0.2, '3': 0.3, '4': 0.4,
	'5': 0.5, '6': 0.6, '7': 0.7, '8': 0.8, '9': 0.9,
}

// ParseGrid builds a grid from rows of equal length using legend. Row 0 of
// the fixture is row 0 of the grid (the top of the image). Whitespace inside
// a row is ignored so fixtures can be column-aligned.
func ParseGrid(legend map[rune]float32, rows ...string) (*l2depth.Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	cleaned := make([][]rune, len(rows))
	for i, r := range rows {
		cleaned[i] = []rune(strings.Join(strings.Fields(r), ""))
	}
	w := len(cleaned[0])
	if w == 0 {
		return nil, fmt.Errorf("row 0 is empty")
	}
	g := l2depth.NewGrid(w, len(cleaned))
	for y, row := range cleaned {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), w)
		}
		for x, c := range row {
			d, ok := legend[c]
			if !ok {
				return nil, fmt.Errorf("row %d col %d: no depth for %q", y, x, c)
			}
			g.Set(x, y, d)
		}
	}
	return g, nil
}

// GridFromRows is ParseGrid with DefaultLegend that fails the test on error.
func GridFromRows(t testing.TB, rows ...string) *l2depth.Grid {
	t.Helper()
	g, err := ParseGrid(DefaultLegend, rows...)
	if err != nil {
		t.Fatalf("bad grid fixture: %v", err)
	}
	return g
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// MuteLogs silences monitoring.Logf for the duration of the test.
func MuteLogs(t testing.TB) {
	t.Helper()
	orig := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = orig })
}
