// Package version reports the botlint build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time:
//
//	go build -ldflags "-X botlint/internal/version.Version=0.3.0 -X botlint/internal/version.Commit=abc123"
var (
	Version   = "0.3.0"
	Commit    = ""
	BuildDate = ""
)

// shortCommitLen is how much of the commit hash Info shows.
const shortCommitLen = 7

// Info returns the version with a short commit hash when one is known.
func Info() string {
	commit := revision()
	if len(commit) > shortCommitLen {
		return fmt.Sprintf("%s (%s)", Version, commit[:shortCommitLen])
	}
	return Version
}

// Full returns every known build attribute, one per line.
func Full() string {
	commit, built := revision(), BuildDate
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("botlint %s\nCommit: %s\nBuilt: %s", Version, commit, built)
}

// revision prefers the ldflags commit and falls back to the VCS stamp
// recorded by the go tool.
func revision() string {
	if Commit != "" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
