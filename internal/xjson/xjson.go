package xjson

import (
	stdjson "encoding/json"

	gjson "github.com/goccy/go-json"
)

// Thin wrappers so the JSON codec can be swapped at a single import site.
// Graph definitions and event payloads go through here.

func Marshal(v interface{}) ([]byte, error) {
	return gjson.Marshal(v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gjson.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v interface{}) error {
	return gjson.Unmarshal(data, v)
}

// RawMessage stays compatible with encoding/json.
type RawMessage = stdjson.RawMessage
