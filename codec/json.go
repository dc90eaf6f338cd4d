package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Record headers are plain structs of strings, booleans and numbers, so JSON
// round-trips them losslessly. Use this codec when the lowest-dependency
// option matters more than encode speed.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for the record directory unless overridden.
//
// This affects newly-created files only. Existing files are self-describing
// (the directory stores the codec name) and are opened by selecting the
// appropriate codec by name.
var Default Codec = GoJSON{}
