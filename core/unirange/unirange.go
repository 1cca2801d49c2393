/*
Package unirange compresses sets of Unicode code points into minimal lists
of closed ranges, and renders them as CSS unicode-range descriptors.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package unirange

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/fontpress/core"
)

// Range is a closed interval of Unicode code points.
type Range struct {
	Lo, Hi rune
}

// String renders r as a CSS unicode-range descriptor, i.e. "U+4E" for a
// single code point or "U+61-7A" for an interval. Hex digits are upper-case
// and unpadded.
func (r Range) String() string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("U+%X", r.Lo)
	}
	return fmt.Sprintf("U+%X-%X", r.Lo, r.Hi)
}

// Len returns the number of code points covered by r.
func (r Range) Len() int {
	return int(r.Hi-r.Lo) + 1
}

// Contains checks if a code point lies within r.
func (r Range) Contains(c rune) bool {
	return r.Lo <= c && c <= r.Hi
}

// Encode compresses a set of code points into a minimal ascending list of
// ranges. Input order does not matter and duplicates are tolerated; the
// input slice is left untouched. An empty input yields an empty list.
func Encode(points []rune) []Range {
	if len(points) == 0 {
		return []Range{}
	}
	sorted := make([]rune, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	ranges := make([]Range, 0, 8)
	start, end := sorted[0], sorted[0]
	for _, c := range sorted[1:] {
		if c == end || c == end+1 {
			end = c
			continue
		}
		ranges = append(ranges, Range{start, end})
		start, end = c, c
	}
	return append(ranges, Range{start, end})
}

// Decode expands a list of ranges into the covered code points, in
// ascending order if the ranges are ascending. Decode is the inverse of
// Encode for every list Encode produces.
func Decode(ranges []Range) []rune {
	var points []rune
	for _, r := range ranges {
		for c := r.Lo; c <= r.Hi; c++ {
			points = append(points, c)
		}
	}
	return points
}

// Stringify renders a list of ranges as a comma-separated unicode-range
// descriptor value.
func Stringify(ranges []Range) string {
	var b strings.Builder
	for i, r := range ranges {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(r.String())
	}
	return b.String()
}

// Parse reads a comma-separated list of unicode-range descriptors, e.g.
// "U+0-FF,U+131,U+152-153". It is the inverse of Stringify. Whitespace
// around descriptors is tolerated. Wildcard descriptors ("U+4??") are not
// supported.
func Parse(s string) ([]Range, error) {
	if strings.TrimSpace(s) == "" {
		return []Range{}, nil
	}
	parts := strings.Split(s, ",")
	ranges := make([]Range, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		upper := strings.ToUpper(part)
		if !strings.HasPrefix(upper, "U+") {
			return nil, core.Error(core.EINVALID, "not a unicode-range descriptor: %q", part)
		}
		var r Range
		if strings.ContainsRune(upper[2:], '-') {
			if _, err := fmt.Sscanf(upper, "U+%X-%X", &r.Lo, &r.Hi); err != nil {
				return nil, core.WrapError(err, core.EINVALID, "malformed unicode-range descriptor: %q", part)
			}
		} else {
			if _, err := fmt.Sscanf(upper, "U+%X", &r.Lo); err != nil {
				return nil, core.WrapError(err, core.EINVALID, "malformed unicode-range descriptor: %q", part)
			}
			r.Hi = r.Lo
		}
		if r.Hi < r.Lo {
			return nil, core.Error(core.EINVALID, "descending unicode-range descriptor: %q", part)
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// MustParse is Parse for static range lists; it panics on malformed input.
func MustParse(s string) []Range {
	ranges, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ranges
}
