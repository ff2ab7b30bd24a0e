// Package checklist loads custom check descriptions from a TOML file.
//
//	[[check]]
//	description = "Greeting mentions the brand name"
package checklist

import (
	"strings"

	"github.com/BurntSushi/toml"

	"botlint/internal/errors"
)

type file struct {
	Check []struct {
		Description string `toml:"description"`
	} `toml:"check"`
}

// Load reads the descriptions in file order, dropping blank ones.
func Load(path string) ([]string, error) {
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "cannot read checklist "+path, err)
	}
	var out []string
	for _, c := range f.Check {
		if d := strings.TrimSpace(c.Description); d != "" {
			out = append(out, d)
		}
	}
	return out, nil
}

// Merge appends file checks after flag checks, skipping blanks.
func Merge(flagChecks, fileChecks []string) []string {
	var out []string
	for _, list := range [][]string{flagChecks, fileChecks} {
		for _, c := range list {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}
