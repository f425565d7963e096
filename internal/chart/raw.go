package chart

import (
	"encoding/json"
	"fmt"
)

// RawObject keeps the JSON members a section does not model.
type RawObject map[string]json.RawMessage

func decodeObject(data []byte) (RawObject, error) {
	var raw RawObject
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = RawObject{}
	}
	return raw, nil
}

// take decodes and removes key. A missing key leaves dst untouched.
func (r RawObject) take(key string, dst any) error {
	v, ok := r[key]
	if !ok {
		return nil
	}
	delete(r, key)
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// encode writes the unknown members together with the known fields.
func (r RawObject) encode(fields map[string]any) ([]byte, error) {
	out := make(map[string]any, len(r)+len(fields))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return json.Marshal(out)
}
