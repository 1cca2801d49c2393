package webfont

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/fontpress/core/unirange"
)

// CSS serialization matches what web tooling conventionally emits for
// hosted font families: minified blocks, properties in a fixed order,
// strings in double quotes. Generated files are byte-stable across runs.

type property struct {
	name  string
	value string
}

func fontFace(props []property) string {
	var b strings.Builder
	b.WriteString("@font-face{")
	for i, p := range props {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(p.name)
		b.WriteByte(':')
		b.WriteString(p.value)
	}
	b.WriteByte('}')
	return b.String()
}

// relURL renders a font file path as a src URL relative to a reference
// file or directory. Always slash-separated.
func relURL(path string, relativeTo string) string {
	if relativeTo == "" {
		return filepath.ToSlash(path)
	}
	if info, err := os.Stat(relativeTo); err != nil || !info.IsDir() {
		relativeTo = filepath.Dir(relativeTo)
	}
	rel, err := filepath.Rel(relativeTo, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func urlSrc(path, format, relativeTo string) string {
	return "url(" + strconv.Quote(relURL(path, relativeTo)) + ") format(" + strconv.Quote(format) + ")"
}

func (v *Variant) baseProps(family string) []property {
	props := []property{
		{"font-family", strconv.Quote(family)},
		{"font-weight", strconv.Itoa(v.Weight)},
		{"font-style", v.Style},
	}
	if v.Stretch != "" {
		props = append(props, property{"font-stretch", v.Stretch})
	}
	return props
}

// FontFaces renders one @font-face block per subset artifact of the
// variant, each with the unicode-range the artifact actually covers. With
// withMain set, a block for the variant's full-coverage webfont file is
// appended, covering everything the font maps. Src URLs are relative to
// relativeTo (a file or a directory; empty keeps paths as given).
func (v *Variant) FontFaces(family string, relativeTo string, withMain bool) []string {
	blocks := make([]string, 0, len(v.Artifacts)+1)
	for _, a := range v.Artifacts {
		props := append(v.baseProps(family),
			property{"unicode-range", unirange.Stringify(a.Range)},
			property{"src", urlSrc(a.File.Path, a.File.Format, relativeTo)},
		)
		blocks = append(blocks, fontFace(props))
	}
	if withMain && v.Web != nil {
		points, err := v.Web.CodePoints()
		if err != nil {
			tracer().Errorf("no coverage for %s, omitting main font face: %v", v.Web.Stem(), err)
			return blocks
		}
		props := append(v.baseProps(family),
			property{"unicode-range", unirange.Stringify(unirange.Encode(points))},
			property{"src", urlSrc(v.Web.Path, v.Web.Format, relativeTo)},
		)
		blocks = append(blocks, fontFace(props))
	}
	return blocks
}

// FontFace renders the plain @font-face block for the variant's webfont
// file, without unicode-range splitting: the local font is preferred and
// the file is the fallback src.
func (v *Variant) FontFace(family string, relativeTo string) string {
	file := v.Web
	if file == nil {
		file = v.Source
	}
	props := append(v.baseProps(family),
		property{"src", "local(" + strconv.Quote(family) + ")," + urlSrc(file.Path, file.Format, relativeTo)},
	)
	return fontFace(props)
}
