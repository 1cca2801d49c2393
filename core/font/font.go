package font

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/fontpress/core"
	"seehuhn.de/go/sfnt"
)

// Resource is a font file used as input or output of the packaging
// pipeline.
type Resource struct {
	Path   string // location on disk
	Format string // container format, e.g. "ttf" or "woff2"

	once   sync.Once
	points []rune
	err    error
}

// NewResource wraps a font file path, deriving the format from the file
// extension.
func NewResource(path string) *Resource {
	return &Resource{
		Path:   path,
		Format: strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")),
	}
}

// NewStatic wraps a font file path with a coverage known up front, e.g. for
// a freshly cut subset file. The points need not be sorted.
func NewStatic(path string, format string, points []rune) *Resource {
	r := &Resource{Path: path, Format: format}
	r.once.Do(func() {
		r.points = make([]rune, len(points))
		copy(r.points, points)
		sort.Slice(r.points, func(i, j int) bool { return r.points[i] < r.points[j] })
	})
	return r
}

// Stem returns the file name without directory and extension.
func (r *Resource) Stem() string {
	name := filepath.Base(r.Path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// CodePoints returns the font's character coverage: every code point which
// the font's cmap maps to a glyph, through any of its subtables, in
// ascending order. The coverage is computed once and cached; callers must
// not modify the returned slice. A font file that cannot be opened or
// parsed yields an error on every call, never an empty coverage.
func (r *Resource) CodePoints() ([]rune, error) {
	r.once.Do(r.readCoverage)
	return r.points, r.err
}

// Supports intersects the font's coverage with a Unicode range table,
// returning the covered code points within the table in ascending order.
func (r *Resource) Supports(rt *unicode.RangeTable) ([]rune, error) {
	points, err := r.CodePoints()
	if err != nil {
		return nil, err
	}
	supported := make([]rune, 0, len(points))
	for _, c := range points {
		if unicode.Is(rt, c) {
			supported = append(supported, c)
		}
	}
	return supported, nil
}

func (r *Resource) readCoverage() {
	otf, err := sfnt.ReadFile(r.Path)
	if err != nil {
		r.err = core.WrapError(err, core.EINVALID, "cannot read font %s", filepath.Base(r.Path))
		return
	}
	if len(otf.CMapTable) == 0 {
		r.err = core.Error(core.EINVALID, "font %s has no character map", filepath.Base(r.Path))
		return
	}
	seen := make(map[rune]bool)
	for key := range otf.CMapTable {
		subtable, err := otf.CMapTable.Get(key)
		if err != nil {
			// exotic subtable encoding; other subtables may still decode
			tracer().Infof("skipping cmap subtable (%d,%d) of %s: %v",
				key.PlatformID, key.EncodingID, filepath.Base(r.Path), err)
			continue
		}
		for c := rune(0); c <= unicode.MaxRune; c++ {
			if c >= 0xD800 && c <= 0xDFFF { // surrogates
				continue
			}
			if seen[c] {
				continue
			}
			if subtable.Lookup(c) != 0 {
				seen[c] = true
			}
		}
	}
	points := make([]rune, 0, len(seen))
	for c := range seen {
		points = append(points, c)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })
	r.points = points
	tracer().Debugf("font %s maps %d code points", filepath.Base(r.Path), len(points))
}
