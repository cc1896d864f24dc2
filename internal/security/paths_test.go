package security

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Low_High", "Low_High"},
		{"a b/c", "a_b_c"},
		{"../../etc/passwd", "etc_passwd"},
		{"  spaced  out  ", "spaced_out"},
		{"", "unknown"},
		{"///", "unknown"},
		{"A10_T300.v2", "A10_T300.v2"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilenameLength(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("x", 500))
	if len(got) != maxFilenameLen {
		t.Errorf("expected length %d, got %d", maxFilenameLen, len(got))
	}
}

func TestJoinWithin(t *testing.T) {
	dir := t.TempDir()
	p, err := JoinWithin(dir, "chart.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(p) != dir {
		t.Errorf("expected %s inside %s", p, dir)
	}
	for _, bad := range []string{"../x.png", "..", "a/../../x", ""} {
		if _, err := JoinWithin(dir, bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
