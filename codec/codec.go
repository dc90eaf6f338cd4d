// Package codec centralizes record-header and directory encoding.
//
// The container treats codec selection as a breaking-change boundary: the
// record directory written at close stores the codec name, so files created
// with one codec are rejected rather than misread by another.
package codec

import "fmt"

// Codec encodes/decodes record headers and directory documents.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// The container directory is self-describing: it stores the codec name ahead
// of the encoded bytes so the right codec can be selected when reopening.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
