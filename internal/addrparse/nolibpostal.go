//go:build !libpostal

package addrparse

// Available reports whether the binary was built with libpostal.
const Available = false

// Libpostal is a placeholder in builds without the libpostal tag. It parses
// nothing, so Backfill leaves every query unchanged.
type Libpostal struct{}

// Parse returns no components.
func (Libpostal) Parse(string) map[string]string {
	return nil
}
