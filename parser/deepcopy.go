package parser

import (
	"encoding/json"
	"fmt"
)

// DeepCopy returns an independent copy of doc. The copy shares no maps,
// slices or pointers with the original.
func (d *Document) DeepCopy() (*Document, error) {
	if d == nil {
		return nil, nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to copy document: %w", err)
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parser: failed to copy document: %w", err)
	}
	return &out, nil
}
