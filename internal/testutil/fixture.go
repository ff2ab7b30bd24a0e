// Package testutil provides golden-file helpers for bot export fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// BotFile is the export every fixture directory holds.
const BotFile = "bot.json"

// FixtureContext holds information about a loaded fixture.
type FixtureContext struct {
	// Name is the fixture directory name (e.g., "cafe")
	Name string

	// Root is the absolute path to the fixture directory
	Root string

	// BotPath is the path to the bot export
	BotPath string

	// ExpectedDir is the path to the expected/ directory
	ExpectedDir string
}

// LoadFixture loads a fixture by name, failing the test on error.
func LoadFixture(t *testing.T, name string) *FixtureContext {
	t.Helper()

	fixtureDir := filepath.Join(getFixturesRoot(t), name)
	if _, err := os.Stat(fixtureDir); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", fixtureDir)
	}

	botPath := filepath.Join(fixtureDir, BotFile)
	if _, err := os.Stat(botPath); os.IsNotExist(err) {
		t.Fatalf("Bot export not found: %s", botPath)
	}

	expectedDir := filepath.Join(fixtureDir, "expected")
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		if err := os.MkdirAll(expectedDir, 0o755); err != nil {
			t.Fatalf("Failed to create expected directory: %v", err)
		}
	}

	return &FixtureContext{
		Name:        name,
		Root:        fixtureDir,
		BotPath:     botPath,
		ExpectedDir: expectedDir,
	}
}

// ReadBot returns the fixture's bot export.
func (f *FixtureContext) ReadBot(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(f.BotPath)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", f.BotPath, err)
	}
	return data
}

// ExpectedPath returns the path to a golden file within the fixture.
// The name should not include the .json extension.
func (f *FixtureContext) ExpectedPath(name string) string {
	return filepath.Join(f.ExpectedDir, name+".json")
}

// getFixturesRoot returns the absolute path to testdata/fixtures/.
func getFixturesRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// internal/testutil -> project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	fixturesRoot := filepath.Join(projectRoot, "testdata", "fixtures")

	if _, err := os.Stat(fixturesRoot); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", fixturesRoot)
	}

	return fixturesRoot
}

// AvailableFixtures returns the fixture directories that hold a bot export.
func AvailableFixtures(t *testing.T) []string {
	t.Helper()

	root := getFixturesRoot(t)
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read fixtures directory: %v", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || isHiddenDir(entry.Name()) {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), BotFile)); err == nil {
			names = append(names, entry.Name())
		}
	}

	return names
}

func isHiddenDir(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
