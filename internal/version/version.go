package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags, e.g.
// -X github.com/example/parkwise/internal/version.Version=1.2.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns "parkwise <version> (commit: <short>, built: <time>)".
// Without a commit from ldflags the VCS revision stamped by the Go
// toolchain is used when present.
func String() string {
	return fmt.Sprintf("parkwise %s (commit: %s, built: %s)", Version, shortCommit(commit()), BuildTime)
}

func commit() string {
	if Commit != "unknown" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return Commit
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
