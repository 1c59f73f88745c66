package version

import (
	"strings"
	"testing"
)

func restore(t *testing.T) {
	t.Helper()
	v, c, b := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = v, c, b })
}

func TestString(t *testing.T) {
	restore(t)
	Commit = "0123456789abcdef"
	BuildTime = "2026-10-19T08:00:00Z"

	got := String()
	if !strings.HasPrefix(got, "parkwise dev ") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "commit: 0123456,") {
		t.Errorf("expected short commit, got %q", got)
	}
	if !strings.HasSuffix(got, "built: 2026-10-19T08:00:00Z)") {
		t.Errorf("expected build time, got %q", got)
	}
}

func TestString_ReleaseVersion(t *testing.T) {
	restore(t)
	Version = "1.2.0"
	Commit = "abc"

	if got := String(); got != "parkwise 1.2.0 (commit: abc, built: "+BuildTime+")" {
		t.Errorf("unexpected version: %q", got)
	}
}
