//go:build !jsonstd

package jsoncompat

import "github.com/bytedance/sonic"

// std keeps encoding/json semantics (html escaping, sorted map keys,
// Unmarshaler support) so both builds produce the same documents.
var std = sonic.ConfigStd

// Marshal proxies to sonic when the jsonstd build tag is absent.
func Marshal(v any) ([]byte, error) { return std.Marshal(v) }

// MarshalIndent proxies to sonic when the jsonstd build tag is absent.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return std.MarshalIndent(v, prefix, indent)
}

// Unmarshal proxies to sonic when the jsonstd build tag is absent.
func Unmarshal(data []byte, v any) error { return std.Unmarshal(data, v) }

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool { return std.Valid(data) }
