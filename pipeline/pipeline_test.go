package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/npillmayer/fontpress/core"
)

func demoFontDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Demo", "TTF")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, data := range map[string][]byte{
		"Demo-Regular.ttf": goregular.TTF,
		"Demo-Bold.ttf":    gobold.TTF,
		"Demo-Italic.ttf":  goitalic.TTF,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
	return dir
}

func TestOptionsFrom(t *testing.T) {
	conf := testconfig.Conf{
		"webfont.fontdir":  "/dist/Demo/TTF",
		"webfont.family":   "Demo",
		"webfont.format":   "woff2",
		"webfont.minchars": "12",
		"webfont.preview":  "true",
	}
	opts := OptionsFrom(conf)
	assert.Equal(t, "/dist/Demo/TTF", opts.FontDir)
	assert.Equal(t, "Demo", opts.Family)
	assert.Equal(t, 12, opts.MinChars)
	assert.True(t, opts.Preview)
}

func TestFamilyName(t *testing.T) {
	assert.Equal(t, "Demo", familyName("/dist/Demo/TTF"))
	assert.Equal(t, "Demo", familyName("/dist/Demo/ttf/"))
	assert.Equal(t, "MyFonts", familyName("/home/u/MyFonts"))
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.pipeline")
	defer teardown()
	_, err := Run(Options{FontDir: t.TempDir(), Format: "eot"})
	require.Error(t, err)
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestRunWithoutInputs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.pipeline")
	defer teardown()
	_, err := Run(Options{FontDir: t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err), "a run without font sources must fail up front")
}

func TestRunEndToEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.pipeline")
	defer teardown()
	fontDir := demoFontDir(t)
	wf, err := Run(Options{FontDir: fontDir, Preview: true})
	require.NoError(t, err)
	require.Len(t, wf.Variants, 3)
	assert.Equal(t, "Demo", wf.Name)

	outDir := filepath.Join(filepath.Dir(fontDir), "WOFF2")
	// variants come back in file order: Bold, Italic, Regular
	assert.Equal(t, 700, wf.Variants[0].Weight)
	assert.Equal(t, "italic", wf.Variants[1].Style)
	assert.Equal(t, 400, wf.Variants[2].Weight)

	for _, stem := range []string{"Demo-Regular", "Demo-Bold", "Demo-Italic"} {
		assert.FileExists(t, filepath.Join(outDir, stem+".woff2"), "full conversion of %s", stem)
		assert.FileExists(t, filepath.Join(outDir, stem+".latin.woff2"))
		assert.FileExists(t, filepath.Join(outDir, stem+".greek.woff2"))
		assert.FileExists(t, filepath.Join(outDir, stem+".css"))
		assert.NoFileExists(t, filepath.Join(outDir, stem+".thai.woff2"),
			"%s does not cover Thai, no cut may exist", stem)
	}
	for _, v := range wf.Variants {
		require.NotEmpty(t, v.Artifacts)
		assert.Equal(t, "cyrillic", v.Artifacts[0].Subset, "artifacts keep catalog order")
	}

	familyCSS, err := os.ReadFile(filepath.Join(outDir, "Demo.css"))
	require.NoError(t, err)
	sheet, err := parser.Parse(string(familyCSS))
	require.NoError(t, err)
	total := 0
	for _, v := range wf.Variants {
		total += len(v.Artifacts)
	}
	assert.Len(t, sheet.Rules, total, "family CSS aggregates every artifact block")
	assert.Contains(t, string(familyCSS), `src:url("Demo-Regular.latin.woff2") format("woff2")`)

	assert.FileExists(t, filepath.Join(outDir, "Demo-preview.html"))
}

func TestRunFailingJobKeepsSiblingOutputs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontpress.pipeline")
	defer teardown()
	fontDir := demoFontDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(fontDir, "Demo-Black.ttf"),
		[]byte("definitely not an sfnt font"), 0644))
	outDir := filepath.Join(t.TempDir(), "out")
	_, err := Run(Options{FontDir: fontDir, OutDir: outDir})
	require.Error(t, err)
	assert.Equal(t, core.ECONVERT, core.Code(err))
	assert.FileExists(t, filepath.Join(outDir, "Demo-Bold.woff2"),
		"outputs of succeeding sibling jobs stay on disk")
	assert.NoFileExists(t, filepath.Join(outDir, "Demo.css"),
		"no family CSS after a failed batch")
}
