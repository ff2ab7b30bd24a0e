package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"
)

var (
	// Use: go test ./internal/lint -run TestGolden -update
	updateGolden = flag.Bool("update", false, "rewrite golden files from current output")

	// Use: go test ./internal/lint -run TestGolden -goldenFixture=cafe,support
	goldenFixture = flag.String("goldenFixture", "", "comma-separated fixture names to run")
)

// ShouldUpdate reports whether -update was given.
func ShouldUpdate() bool {
	return *updateGolden
}

// ShouldTestFixture applies the -goldenFixture filter.
func ShouldTestFixture(name string) bool {
	if *goldenFixture == "" {
		return true
	}
	names := strings.Split(*goldenFixture, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return slices.Contains(names, name)
}

// CompareGolden normalizes got and compares it with expected/<name>.json.
// With -update the file is rewritten instead.
func CompareGolden(t *testing.T, fixture *FixtureContext, name string, got any) {
	t.Helper()

	actual := MarshalNormalized(t, fixture, got)
	path := fixture.ExpectedPath(name)

	if *updateGolden {
		if err := os.WriteFile(path, actual, 0o644); err != nil {
			t.Fatalf("Failed to write golden file: %v", err)
		}
		t.Logf("Updated golden: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		t.Fatalf("Golden file missing: %s\n\nGot:\n%s\nRun with -update to create it.", path, actual)
	case err != nil:
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(actual, want) {
		t.Fatalf("Golden mismatch for %s/%s:\n%s\nRun with -update to refresh.",
			fixture.Name, name, lineDiff(string(want), string(actual)))
	}
}

// lineDiff lists differing lines with a little leading context.
func lineDiff(want, got string) string {
	const contextLines = 1
	wl := strings.Split(want, "\n")
	gl := strings.Split(got, "\n")

	var b strings.Builder
	shown := -1
	for i := 0; i < max(len(wl), len(gl)); i++ {
		w, g := at(wl, i), at(gl, i)
		if w == g {
			continue
		}
		for j := max(shown+1, i-contextLines); j < i; j++ {
			fmt.Fprintf(&b, "%4d   %s\n", j+1, at(wl, j))
		}
		if i < len(wl) {
			fmt.Fprintf(&b, "%4d - %s\n", i+1, w)
		}
		if i < len(gl) {
			fmt.Fprintf(&b, "%4d + %s\n", i+1, g)
		}
		shown = i
	}
	return b.String()
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

// AssertGoldenStruct compares a value through its JSON form.
func AssertGoldenStruct(t *testing.T, fixture *FixtureContext, name string, got any) {
	t.Helper()
	CompareGolden(t, fixture, name, StructToMap(t, got))
}

// ForEachFixture runs fn once per fixture, honoring -goldenFixture.
func ForEachFixture(t *testing.T, fn func(t *testing.T, fixture *FixtureContext)) {
	t.Helper()

	names := AvailableFixtures(t)
	if len(names) == 0 {
		t.Skip("No fixtures available")
	}
	for _, name := range names {
		if !ShouldTestFixture(name) {
			continue
		}
		t.Run(name, func(t *testing.T) {
			fn(t, LoadFixture(t, name))
		})
	}
}
