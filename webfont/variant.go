package webfont

import (
	"path/filepath"
	"strings"

	"github.com/derekparker/trie"

	"github.com/npillmayer/fontpress/core/font"
	"github.com/npillmayer/fontpress/core/unirange"
)

// Webfont is a packaged font family.
type Webfont struct {
	Name     string
	Variants []*Variant
}

// Variant is one style of a font family, e.g. Bold Italic or Black.
type Variant struct {
	Source    *font.Resource // compiled source font (TTF or OTF)
	Web       *font.Resource // full-coverage webfont conversion, if made
	Weight    int            // CSS font-weight, 100 to 900
	Style     string         // CSS font-style: "normal" or "italic"
	Stretch   string         // CSS font-stretch keyword, usually empty
	Artifacts []*Artifact
}

// Artifact is one cut of a variant: the reduced font file together with
// the unicode-range descriptors of the characters it actually ships.
type Artifact struct {
	Subset string // catalog name of the subset the cut was made for
	File   *font.Resource
	Range  []unirange.Range
}

// weights maps style-name keywords (as they appear in font file names) to
// CSS font-weight values.
var weights = trie.New()

func init() {
	for kw, w := range map[string]int{
		"thin":       100,
		"extralight": 200,
		"light":      300,
		"normal":     400,
		"regular":    400,
		"italic":     400,
		"medium":     500,
		"semibold":   600,
		"bold":       700,
		"extrabold":  800,
		"black":      900,
		"heavy":      900,
	} {
		weights.Add(kw, w)
	}
}

// NewVariant wraps a source font file, deriving weight and style from the
// file name. The style parameters are the last "-"-separated token of the
// name, case-insensitive, e.g. "Iosevka-BoldItalic.ttf" has token
// "bolditalic": the longest weight keyword prefixing the token decides the
// weight, a contained "italic" makes the style italic. A token without a
// weight keyword falls back to 400 with a warning; it never fails.
func NewVariant(src *font.Resource) *Variant {
	stem := src.Stem()
	token := strings.ToLower(stem[strings.LastIndex(stem, "-")+1:])
	weight := 400
	matched := false
	for l := len(token); l > 0; l-- {
		if node, ok := weights.Find(token[:l]); ok {
			weight = node.Meta().(int)
			matched = true
			break
		}
	}
	if !matched {
		tracer().Errorf("unknown weight %q for %s, assuming 400", token, filepath.Base(src.Path))
	}
	style := "normal"
	if strings.Contains(token, "italic") {
		style = "italic"
	}
	return &Variant{
		Source: src,
		Weight: weight,
		Style:  style,
	}
}
