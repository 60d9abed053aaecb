package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/arbor/internal/ir"
)

// marshalNames converts an attribute name list to canonical JSON TEXT.
// A nil list is stored as "[]".
func marshalNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := ir.MarshalCanonical(names)
	if err != nil {
		return "", fmt.Errorf("marshal names: %w", err)
	}
	return string(data), nil
}

// unmarshalNames parses a stored name list. "[]" reads back as nil, matching
// the omitted form of ir.Change.
func unmarshalNames(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal names: %w", err)
	}
	return names, nil
}
