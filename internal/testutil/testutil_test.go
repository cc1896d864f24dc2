package testutil

import (
	"errors"
	"testing"

	"github.com/banshee-data/sightline/internal/vision/l2depth"
)

func TestAssertNoError_NilErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	if fakeT.Failed() {
		t.Error("expected no failure for nil error")
	}
}

func TestAssertError_WithErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("expected no failure when error is present")
	}
}

func TestGridFromRows(t *testing.T) {
	g := GridFromRows(t,
		". . 3",
		"# 9 .",
	)
	if g.Width != 3 || g.Height != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", g.Width, g.Height)
	}
	if got := g.At(2, 0); got != 0.3 {
		t.Errorf("At(2,0) = %v, want 0.3", got)
	}
	if got := g.At(0, 1); got != l2depth.NearDepth {
		t.Errorf("At(0,1) = %v, want near", got)
	}
	if got := g.At(0, 0); got != l2depth.FarDepth {
		t.Errorf("At(0,0) = %v, want far", got)
	}
}

func TestParseGrid_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"no rows", nil},
		{"empty row", []string{""}},
		{"ragged", []string{"...", ".."}},
		{"unknown rune", []string{".x."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGrid(DefaultLegend, tt.rows...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
