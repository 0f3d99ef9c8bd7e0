//go:build libpostal

package addrparse

import (
	postal "github.com/openvenues/gopostal/parser"
)

// Available reports whether the binary was built with libpostal.
const Available = true

// Libpostal parses addresses with the libpostal CRF model.
type Libpostal struct{}

// Parse returns the last value libpostal gives each label.
func (Libpostal) Parse(address string) map[string]string {
	components := postal.ParseAddress(address)
	extracted := make(map[string]string, len(components))
	for _, comp := range components {
		extracted[comp.Label] = comp.Value
	}
	return extracted
}
