// Package palette holds the qualitative color palettes that charts may use.
package palette

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidPalette is returned for a palette name outside Palettes.
var ErrInvalidPalette = errors.New("invalid palette")

// Palette is a named, ordered list of hex colors.
type Palette struct {
	Name   string
	Colors []string
}

// Palettes are the ColorBrewer qualitative sets.
var Palettes = map[string][]string{
	"Accent":  {"7FC97F", "BEAED4", "FDC086", "FFFF99", "386CB0", "F0027F", "BF5B17", "666666"},
	"Dark2":   {"1B9E77", "D95F02", "7570B3", "E7298A", "66A61E", "E6AB02", "A6761D", "666666"},
	"Paired":  {"A6CEE3", "1F78B4", "B2DF8A", "33A02C", "FB9A99", "E31A1C", "FDBF6F", "FF7F00", "CAB2D6", "6A3D9A", "FFFF99", "B15928"},
	"Pastel1": {"FBB4AE", "B3CDE3", "CCEBC5", "DECBE4", "FED9A6", "FFFFCC", "E5D8BD", "FDDAEC", "F2F2F2"},
	"Pastel2": {"B3E2CD", "FDCDAC", "CBD5E8", "F4CAE4", "E6F5C9", "FFF2AE", "F1E2CC", "CCCCCC"},
	"Set1":    {"E41A1C", "377EB8", "4DAF4A", "984EA3", "FF7F00", "FFFF33", "A65628", "F781BF", "999999"},
	"Set2":    {"66C2A5", "FC8D62", "8DA0CB", "E78AC3", "A6D854", "FFD92F", "E5C494", "B3B3B3"},
	"Set3":    {"8DD3C7", "FFFFB3", "BEBADA", "FB8072", "80B1D3", "FDB462", "B3DE69", "FCCDE5", "D9D9D9", "BC80BD", "CCEBC5", "FFED6F"},
}

// Names returns the valid palette names, sorted.
func Names() []string {
	out := make([]string, 0, len(Palettes))
	for name := range Palettes {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// Validate checks that name is one of Palettes.
func Validate(name string) error {
	if _, exists := Palettes[name]; !exists {
		return fmt.Errorf("%w: %q is not found. Valid palette names include: %s", ErrInvalidPalette, name, strings.Join(Names(), ", "))
	}

	return nil
}

// Get returns the named palette.
func Get(name string) (Palette, error) {
	if err := Validate(name); err != nil {
		return Palette{}, err
	}

	return Palette{Name: name, Colors: Palettes[name]}, nil
}

// Color returns the i'th color, cycling when i exceeds the palette size.
func (p Palette) Color(i int) string {
	if len(p.Colors) == 0 {
		return "000000"
	}
	if i < 0 {
		i = -i
	}

	return p.Colors[i%len(p.Colors)]
}
