/*
Package convert cuts and repackages fonts for web delivery.

A Primitive turns a source font file into a deployable webfont file,
either wholesale or reduced to a given set of code points. The packaged
implementation reads TrueType/OpenType sources, rebuilds glyph set and
character map, re-parses the result with an independent font library as a
safety net, and packs it into a WOFF2 container.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	"github.com/npillmayer/schuko/tracing"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"

	"github.com/npillmayer/fontpress/core"
	"github.com/npillmayer/fontpress/core/font"
	"github.com/npillmayer/fontpress/core/font/woff2"
)

// tracer writes to trace with key 'fontpress.font'
func tracer() tracing.Trace {
	return tracing.Select("fontpress.font")
}

// Primitive produces deployable webfont files from source fonts.
//
// Reduce cuts the source down to exactly the given code points and writes
// the result to outPath; keep must be non-empty and covered by the source.
// Convert repackages the complete source. Both return a resource for the
// written file, with its coverage attached.
type Primitive interface {
	Reduce(src *font.Resource, keep []rune, outPath string) (*font.Resource, error)
	Convert(src *font.Resource, outPath string) (*font.Resource, error)
}

// SFNT is the packaged Primitive for TrueType/OpenType sources, emitting
// WOFF2. With StripHints set, hinting tables are dropped from the output
// containers.
type SFNT struct {
	StripHints bool
}

var _ Primitive = SFNT{}

// Reduce is part of the Primitive interface.
func (p SFNT) Reduce(src *font.Resource, keep []rune, outPath string) (*font.Resource, error) {
	if len(keep) == 0 {
		return nil, core.Error(core.EINVALID, "empty code-point set for %s", src.Stem())
	}
	otf, err := sfnt.ReadFile(src.Path)
	if err != nil {
		return nil, core.WrapError(err, core.ECONVERT, "cannot read font %s", filepath.Base(src.Path))
	}
	lookup, err := otf.CMapTable.GetBest()
	if err != nil {
		return nil, core.WrapError(err, core.ECONVERT, "font %s has no usable character map", src.Stem())
	}

	// glyph 0 (.notdef) always survives; all other glyphs are renumbered
	// in first-use order
	glyphs := []glyph.ID{0}
	newGID := map[glyph.ID]glyph.ID{0: 0}
	subsetCMap := cmap.Format4{}
	for _, c := range keep {
		if c > 0xFFFF {
			return nil, core.Error(core.ECONVERT, "%#U is outside the basic plane", c)
		}
		orig := lookup.Lookup(c)
		if orig == 0 {
			return nil, core.Error(core.ECONVERT, "font %s has no glyph for %#U", src.Stem(), c)
		}
		gid, ok := newGID[orig]
		if !ok {
			gid = glyph.ID(len(glyphs))
			newGID[orig] = gid
			glyphs = append(glyphs, orig)
		}
		subsetCMap[uint16(c)] = gid
	}

	work := otf.Clone()
	work.CMapTable = nil
	work.Gdef = nil // layout tables reference dropped glyphs
	work.Gsub = nil
	work.Gpos = nil
	reduced, err := work.Subset(glyphs)
	if err != nil {
		return nil, core.WrapError(err, core.ECONVERT, "cannot subset %s", src.Stem())
	}
	enc := subsetCMap.Encode(0)
	reduced.CMapTable = cmap.Table{
		{PlatformID: 0, EncodingID: 3}: enc,
		{PlatformID: 3, EncodingID: 1}: enc,
	}

	var buf bytes.Buffer
	if _, err := reduced.Write(&buf); err != nil {
		return nil, core.WrapError(err, core.ECONVERT, "cannot serialize subset of %s", src.Stem())
	}
	if err := verifyMapping(buf.Bytes(), keep); err != nil {
		return nil, err
	}
	tracer().Debugf("%s reduced to %d glyphs for %d code points",
		src.Stem(), len(glyphs), len(keep))
	return p.pack(src, buf.Bytes(), keep, outPath)
}

// Convert is part of the Primitive interface.
func (p SFNT) Convert(src *font.Resource, outPath string) (*font.Resource, error) {
	points, err := src.CodePoints()
	if err != nil {
		return nil, core.WrapError(err, core.ECONVERT, "cannot convert font %s", src.Stem())
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, core.WrapError(err, core.ECONVERT, "cannot read font %s", filepath.Base(src.Path))
	}
	return p.pack(src, data, points, outPath)
}

func (p SFNT) pack(src *font.Resource, sfntData []byte, points []rune, outPath string) (*font.Resource, error) {
	packed, err := woff2.Encode(sfntData, p.StripHints)
	if err != nil {
		return nil, core.WrapError(err, core.ECONVERT, "cannot pack %s into WOFF2", src.Stem())
	}
	if err := os.WriteFile(outPath, packed, 0644); err != nil {
		return nil, core.WrapError(err, core.ECONVERT, "cannot write %s", filepath.Base(outPath))
	}
	tracer().Infof("wrote %s (%d bytes)", filepath.Base(outPath), len(packed))
	return font.NewStatic(outPath, "woff2", points), nil
}

// verifyMapping re-parses a cut font with an independent library and
// shapes a sample of the kept characters, guarding against a reduction
// that produced a broken file or lost glyphs.
func verifyMapping(ttf []byte, keep []rune) error {
	face, err := hbtt.Parse(bytes.NewReader(ttf), true)
	if err != nil {
		return core.WrapError(err, core.ECONVERT, "reduced font does not re-parse")
	}
	sample := make([]rune, 0, 64)
	for _, c := range keep {
		if unicode.IsLetter(c) || unicode.IsNumber(c) {
			sample = append(sample, c)
			if len(sample) == cap(sample) {
				break
			}
		}
	}
	if len(sample) == 0 {
		return nil
	}
	buf := hb.NewBuffer()
	buf.Props = hb.SegmentProperties{Direction: hb.LeftToRight}
	buf.AddRunes(sample, 0, len(sample))
	buf.Shape(hb.NewFont(face), nil)
	for _, info := range buf.Info {
		if info.Glyph == 0 {
			return core.Error(core.ECONVERT, "reduced font lost the glyph for %#U", sample[info.Cluster])
		}
	}
	return nil
}
