package testutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// Normalizer prepares data for stable golden comparison.
type Normalizer interface {
	Normalize(t *testing.T, fixture *FixtureContext, data any) any
}

// DefaultNormalizer drops volatile fields and rewrites fixture paths.
// Slice order is kept: finding order is part of the output contract.
type DefaultNormalizer struct{}

// Normalize applies all normalization rules. It is called before both
// compare and update.
func (n *DefaultNormalizer) Normalize(t *testing.T, fixture *FixtureContext, data any) any {
	t.Helper()

	// Deep copy via JSON round-trip to avoid modifying original
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to marshal data for normalization: %v", err)
	}

	var normalized any
	if err := json.Unmarshal(jsonBytes, &normalized); err != nil {
		t.Fatalf("Failed to unmarshal data for normalization: %v", err)
	}

	return n.normalizeValue(normalized, fixture.Root)
}

func (n *DefaultNormalizer) normalizeValue(v any, fixtureRoot string) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			if n.isVolatileField(k) {
				continue
			}
			result[k] = n.normalizeValue(item, fixtureRoot)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = n.normalizeValue(item, fixtureRoot)
		}
		return result
	case string:
		if fixtureRoot != "" {
			val = strings.ReplaceAll(val, fixtureRoot, "<fixture>")
		}
		return strings.ReplaceAll(val, "\\", "/")
	default:
		return v
	}
}

func (n *DefaultNormalizer) isVolatileField(name string) bool {
	volatileFields := map[string]bool{
		"runId":       true,
		"generatedAt": true,
		"timestamp":   true,
		"uptime":      true,
		"duration":    true,
	}
	return volatileFields[name]
}

// MarshalNormalized normalizes data and marshals it to stable JSON bytes:
// sorted keys, 2-space indentation, no HTML escaping and a trailing newline.
func MarshalNormalized(t *testing.T, fixture *FixtureContext, data any) []byte {
	t.Helper()

	normalizer := &DefaultNormalizer{}
	normalized := normalizer.Normalize(t, fixture, data)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized); err != nil {
		t.Fatalf("Failed to marshal normalized data: %v", err)
	}
	return buf.Bytes()
}

// StructToMap converts a struct to a map[string]any for normalization.
func StructToMap(t *testing.T, v any) map[string]any {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal struct: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal to map: %v", err)
	}

	return result
}
