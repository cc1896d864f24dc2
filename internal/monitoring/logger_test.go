package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op; this must not panic
	SetLogger(nil)
	Logf("test message %d", 1)
}

func TestDebugf(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	Debugf(false, "hidden %d", 1)
	if len(lines) != 0 {
		t.Fatalf("Debugf(false) logged %v", lines)
	}

	Debugf(true, "pass observer=%s detected=%d", "agent-1", 2)
	if len(lines) != 1 || lines[0] != "pass observer=agent-1 detected=2" {
		t.Errorf("Debugf(true) logged %v", lines)
	}
}
