package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/npillmayer/fontpress/core"
	"github.com/npillmayer/fontpress/core/font"
	"github.com/npillmayer/fontpress/core/font/woff2"
)

func sourceFont(t *testing.T, name string, data []byte) *font.Resource {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return font.NewResource(path)
}

func asciiLetters() []rune {
	var keep []rune
	for c := 'A'; c <= 'Z'; c++ {
		keep = append(keep, c)
	}
	for c := 'a'; c <= 'z'; c++ {
		keep = append(keep, c)
	}
	return keep
}

func TestReduce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.font")
	defer teardown()
	src := sourceFont(t, "Go-Regular.ttf", goregular.TTF)
	out := filepath.Join(t.TempDir(), "go-regular.latin.woff2")
	keep := asciiLetters()
	res, err := SFNT{StripHints: true}.Reduce(src, keep, out)
	require.NoError(t, err)
	assert.Equal(t, "woff2", res.Format)
	assert.Equal(t, out, res.Path)
	points, err := res.CodePoints()
	require.NoError(t, err)
	assert.Equal(t, keep, points)

	packed, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(goregular.TTF), "the cut should shrink the font")
	flavor, tables, err := woff2.Decode(packed)
	require.NoError(t, err)
	assert.EqualValues(t, 0x00010000, flavor)
	for _, tb := range tables {
		switch tb.Tag {
		case "GSUB", "GPOS", "GDEF":
			t.Errorf("layout table %q must not survive the cut", tb.Tag)
		case "fpgm", "prep", "cvt ":
			t.Errorf("hint table %q must be stripped", tb.Tag)
		}
	}
}

func TestReduceRejectsUncoveredCodePoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.font")
	defer teardown()
	src := sourceFont(t, "Go-Regular.ttf", goregular.TTF)
	out := filepath.Join(t.TempDir(), "go-regular.thai.woff2")
	_, err := SFNT{}.Reduce(src, []rune{'ก'}, out)
	require.Error(t, err)
	assert.Equal(t, core.ECONVERT, core.Code(err))
	assert.NoFileExists(t, out, "a failing cut must not leave an output file")
}

func TestReduceRejectsEmptySet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.font")
	defer teardown()
	src := sourceFont(t, "Go-Regular.ttf", goregular.TTF)
	_, err := SFNT{}.Reduce(src, nil, filepath.Join(t.TempDir(), "out.woff2"))
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestReduceRejectsBrokenSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.font")
	defer teardown()
	src := sourceFont(t, "broken.ttf", []byte("not a font at all"))
	_, err := SFNT{}.Reduce(src, []rune{'A'}, filepath.Join(t.TempDir(), "out.woff2"))
	require.Error(t, err)
	assert.Equal(t, core.ECONVERT, core.Code(err))
}

func TestConvert(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.font")
	defer teardown()
	src := sourceFont(t, "Go-Bold.ttf", gobold.TTF)
	out := filepath.Join(t.TempDir(), "go-bold.woff2")
	res, err := SFNT{StripHints: true}.Convert(src, out)
	require.NoError(t, err)
	points, err := res.CodePoints()
	require.NoError(t, err)
	srcPoints, err := src.CodePoints()
	require.NoError(t, err)
	assert.Equal(t, srcPoints, points, "full conversion must keep the source coverage")

	packed, err := os.ReadFile(out)
	require.NoError(t, err)
	h, err := woff2.ReadHeader(packed)
	require.NoError(t, err)
	assert.NotZero(t, h.NumTables)
	assert.Less(t, len(packed), len(gobold.TTF))
}
