/*
Package subsets provides the closed catalog of script subsets used for
webfont packaging.

Each subset names a script (or script extension) together with the Unicode
ranges a webfont file for that script has to cover. The catalog mirrors the
split Google Fonts applies to its hosted families; the range lists are
load-bearing for generated unicode-range descriptors and must not be edited
casually.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package subsets

import (
	"unicode"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/fontpress/core/unirange"
	"golang.org/x/text/unicode/rangetable"
)

// Subset is one entry of the catalog: a script name together with the
// Unicode ranges the script's webfont files are cut to. Subsets are
// immutable; clients receive them by value from All or Get.
type Subset struct {
	name   string
	ranges []unirange.Range
	table  *unicode.RangeTable
}

// Name returns the subset's catalog name, e.g. "latin-ext".
func (s Subset) Name() string {
	return s.name
}

func (s Subset) String() string {
	return s.name
}

// Ranges returns the subset's nominal Unicode ranges in ascending order.
// Callers must not modify the returned slice.
func (s Subset) Ranges() []unirange.Range {
	return s.ranges
}

// RangeTable returns the subset's coverage as a Unicode range table,
// suitable for unicode.Is membership tests.
func (s Subset) RangeTable() *unicode.RangeTable {
	return s.table
}

// CodePoints expands the subset's ranges into the full list of covered
// code points, in ascending order.
func (s Subset) CodePoints() []rune {
	points := make([]rune, 0, 256)
	rangetable.Visit(s.table, func(c rune) {
		points = append(points, c)
	})
	return points
}

// registry holds the catalog, keyed and iterated by subset name.
// Lexicographic key order is the canonical catalog order.
var registry = treemap.NewWithStringComparator()

func define(name string, descriptors string) {
	ranges := unirange.MustParse(descriptors)
	registry.Put(name, Subset{
		name:   name,
		ranges: ranges,
		table:  rangetable.New(unirange.Decode(ranges)...),
	})
}

func init() {
	define("arabic", "U+0600-06FF,U+200C-200E,U+2010-2011,U+204F,U+2E41,U+FB50-FDFF,U+FE80-FEFC")
	define("bengali", "U+0964-0965,U+0981-09FB,U+200C-200D,U+20B9,U+25CC")
	define("cyrillic", "U+0400-045F,U+0490-0491,U+04B0-04B1,U+2116")
	define("cyrillic-ext", "U+0460-052F,U+1C80-1C88,U+20B4,U+2DE0-2DFF,U+A640-A69F,U+FE2E-FE2F")
	define("devanagari", "U+0900-097F,U+1CD0-1CF6,U+1CF8-1CF9,U+200C-200D,U+20A8,U+20B9,U+25CC,U+A830-A839,U+A8E0-A8FB")
	define("georgian", "U+10A0-10FF")
	define("greek", "U+0370-03FF")
	define("greek-ext", "U+1F00-1FFF")
	define("gujarati", "U+0964-0965,U+0A80-0AFF,U+200C-200D,U+20B9,U+25CC,U+A830-A839")
	define("gurmukhi", "U+0964-0965,U+0A01-0A75,U+200C-200D,U+20B9,U+25CC,U+262C,U+A830-A839")
	define("hebrew", "U+0590-05FF,U+20AA,U+25CC,U+FB1D-FB4F")
	define("kannada", "U+0964-0965,U+0C82-0CF2,U+200C-200D,U+20B9,U+25CC")
	define("khmer", "U+1780-17FF,U+200C,U+25CC")
	define("latin", "U+0000-00FF,U+0131,U+0152-0153,U+02BB-02BC,U+02C6,U+02DA,U+02DC,U+2000-206F,U+2074,U+20AC,U+2122,U+2191,U+2193,U+2212,U+2215,U+FEFF,U+FFFD")
	define("latin-ext", "U+0100-024F,U+0259,U+1E00-1EFF,U+2020,U+20A0-20AB,U+20AD-20CF,U+2113,U+2C60-2C7F,U+A720-A7FF")
	define("malayalam", "U+0307,U+0323,U+0964-0965,U+0D02-0D7F,U+200C-200D,U+20B9,U+25CC")
	define("myanmar", "U+1000-109F,U+200C-200D,U+25CC")
	define("oriya", "U+0964-0965,U+0B01-0B77,U+200C-200D,U+20B9,U+25CC")
	define("sinhala", "U+0964-0965,U+0D82-0DF4,U+200C-200D,U+25CC")
	define("tamil", "U+0964-0965,U+0B82-0BFA,U+200C-200D,U+20B9,U+25CC")
	define("telugu", "U+0951-0952,U+0964-0965,U+0C00-0C7F,U+1CDA,U+200C-200D,U+25CC")
	define("thai", "U+0E01-0E5B,U+200C-200D,U+25CC")
	define("tibetan", "U+0F00-0FFF,U+200C-200D,U+25CC")
	define("vietnamese", "U+0102-0103,U+0110-0111,U+1EA0-1EF9,U+20AB")
}

// All returns every subset of the catalog in canonical order.
func All() []Subset {
	all := make([]Subset, 0, registry.Size())
	it := registry.Iterator()
	for it.Next() {
		all = append(all, it.Value().(Subset))
	}
	return all
}

// Get looks up a subset by its catalog name.
func Get(name string) (Subset, bool) {
	if s, ok := registry.Get(name); ok {
		return s.(Subset), true
	}
	return Subset{}, false
}
