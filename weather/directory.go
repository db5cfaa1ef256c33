// Package weather holds the pieces of the forecast that do
// not involve communication: the location directory, the
// temperature synthesizer, and the condition classifier.
package weather

import (
	"errors"
	"fmt"
	"strings"
)

var defaultLocations = []string{
	"New York",
	"Los Angeles",
	"Chicago",
	"Houston",
	"Miami",
	"San Francisco",
	"Boston",
	"Seattle",
	"Denver",
	"Dallas",
}

// A Directory is an ordered, immutable list of location
// names. A location is identified by its index.
type Directory struct {
	names []string
}

// DefaultDirectory returns the ten reference cities.
func DefaultDirectory() *Directory {
	return &Directory{names: append([]string{}, defaultLocations...)}
}

// NewDirectory creates a Directory from a list of names.
//
// Names must be non-empty and unique.
func NewDirectory(names []string) (*Directory, error) {
	if len(names) == 0 {
		return nil, errors.New("location directory is empty")
	}
	seen := map[string]bool{}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("location %d has a blank name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate location: %q", name)
		}
		seen[name] = true
	}
	return &Directory{names: append([]string{}, names...)}, nil
}

// Len returns the number of locations.
func (d *Directory) Len() int {
	return len(d.names)
}

// Name returns the name of the location at index i.
func (d *Directory) Name(i int) string {
	return d.names[i]
}

// Names returns a copy of every location name, in order.
func (d *Directory) Names() []string {
	return append([]string{}, d.names...)
}
