package checklist

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"botlint/internal/errors"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.toml")
	content := `
[[check]]
description = "Greeting mentions the brand"

[[check]]
description = "   "

[[check]]
description = "Fallback offers an agent"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"Greeting mentions the brand", "Fallback offers an agent"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[[check]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{bad, filepath.Join(dir, "missing.toml")} {
		_, err := Load(path)
		if err == nil {
			t.Errorf("Load(%s) should fail", path)
			continue
		}
		if code := errors.CodeOf(err); code != errors.ConfigInvalid {
			t.Errorf("CodeOf(err) = %v, want %v", code, errors.ConfigInvalid)
		}
	}
}

func TestMerge(t *testing.T) {
	got := Merge([]string{"a", " "}, []string{"b"})
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
	if got := Merge(nil, nil); got != nil {
		t.Errorf("Merge(nil, nil) = %v, want nil", got)
	}
}
