/*
Package pipeline runs the end-to-end webfont packaging.

A run takes a directory of compiled per-style font files and produces, in
an output directory: a full-coverage WOFF2 file per style, script-subset
WOFF2 cuts per style, per-style and family-level CSS with @font-face
declarations, and optionally a specimen page.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pipeline

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/fontpress/core"
	"github.com/npillmayer/fontpress/core/font"
	"github.com/npillmayer/fontpress/core/font/convert"
	"github.com/npillmayer/fontpress/core/locate"
	"github.com/npillmayer/fontpress/core/sched"
	"github.com/npillmayer/fontpress/core/subsets"
	"github.com/npillmayer/fontpress/webfont"
)

// tracer writes to trace with key 'fontpress.pipeline'
func tracer() tracing.Trace {
	return tracing.Select("fontpress.pipeline")
}

// Options configures a packaging run.
type Options struct {
	FontDir  string // directory of compiled per-style fonts (required)
	OutDir   string // output directory; default is a WOFF2 dir next to FontDir
	Family   string // font-family name; default derived from FontDir
	Format   string // output container format; only "woff2" is supported
	MinChars int    // subset threshold; webfont.DefaultMinChars if zero
	Preview  bool   // write a specimen HTML page
}

// OptionsFrom reads run options from the application configuration
// (keys webfont.fontdir, webfont.outdir, webfont.family, webfont.format,
// webfont.minchars, webfont.preview).
func OptionsFrom(conf schuko.Configuration) Options {
	opts := Options{
		FontDir: conf.GetString("webfont.fontdir"),
		OutDir:  conf.GetString("webfont.outdir"),
		Family:  conf.GetString("webfont.family"),
		Format:  conf.GetString("webfont.format"),
		Preview: conf.GetString("webfont.preview") == "true",
	}
	if n, err := strconv.Atoi(conf.GetString("webfont.minchars")); err == nil {
		opts.MinChars = n
	}
	return opts
}

// familyName derives a font-family name from the font directory, skipping
// a conventional format folder ("TTF", "OTF") in the path.
func familyName(fontDir string) string {
	name := filepath.Base(filepath.Clean(fontDir))
	switch strings.ToUpper(name) {
	case "TTF", "OTF":
		name = filepath.Base(filepath.Dir(filepath.Clean(fontDir)))
	}
	return name
}

// Run packages the font family found in opts.FontDir.
//
// Full-file conversions of all styles run as one concurrent batch, the
// subset cuts of each style as another. A failing conversion aborts the
// run after its batch has drained; output files of succeeding sibling
// jobs are left in place, but CSS is only written for fully processed
// variants.
func Run(opts Options) (*webfont.Webfont, error) {
	if opts.Format == "" {
		opts.Format = "woff2"
	}
	if opts.Format != "woff2" {
		return nil, core.Error(core.EINVALID, "unsupported webfont format %q", opts.Format)
	}
	if opts.Family == "" {
		opts.Family = familyName(opts.FontDir)
	}
	files, err := locate.FontFiles(opts.FontDir)
	if err != nil {
		return nil, err
	}
	if opts.OutDir == "" {
		opts.OutDir = filepath.Join(filepath.Dir(filepath.Clean(opts.FontDir)), "WOFF2")
	}
	outDir, err := locate.OutputDir(opts.OutDir)
	if err != nil {
		return nil, err
	}
	prim := convert.SFNT{StripHints: true}
	wf := &webfont.Webfont{Name: opts.Family}
	tracer().Infof("making webfont %s from %d styles", wf.Name, len(files))

	// full-coverage conversion of every style
	convTasks := make([]func() (*webfont.Variant, error), len(files))
	for i, path := range files {
		path := path
		convTasks[i] = func() (*webfont.Variant, error) {
			src := font.NewResource(path)
			v := webfont.NewVariant(src)
			web, err := prim.Convert(src, filepath.Join(outDir, src.Stem()+".woff2"))
			if err != nil {
				return nil, err
			}
			v.Web = web
			return v, nil
		}
	}
	variants, err := sched.Fanout(convTasks)
	if err != nil {
		return nil, err
	}
	wf.Variants = variants

	cutter := webfont.Subsetter{MinChars: opts.MinChars, Primitive: prim}
	for _, v := range wf.Variants {
		if _, err := os.Stat(v.Source.Path); err != nil {
			tracer().Errorf("font file %s went missing, not subsetting", v.Source.Path)
			continue
		}
		v := v
		cutTasks := make([]func() (*webfont.Artifact, error), 0, 24)
		for _, sub := range subsets.All() {
			sub := sub
			out := filepath.Join(outDir, v.Source.Stem()+"."+sub.Name()+".woff2")
			cutTasks = append(cutTasks, func() (*webfont.Artifact, error) {
				return cutter.Cut(v, sub, out)
			})
		}
		artifacts, err := sched.Fanout(cutTasks)
		if err != nil {
			return nil, err
		}
		for _, a := range artifacts { // skipped subsets leave nil slots
			if a != nil {
				v.Artifacts = append(v.Artifacts, a)
			}
		}
		if len(v.Artifacts) == 0 {
			continue
		}
		cssPath := filepath.Join(outDir, v.Source.Stem()+".css")
		css := strings.Join(v.FontFaces(wf.Name, v.Web.Path, false), "")
		if err := writeCSS(cssPath, css); err != nil {
			return nil, err
		}
	}

	var all []string
	for _, v := range wf.Variants {
		all = append(all, v.FontFaces(wf.Name, outDir, false)...)
	}
	if err := writeCSS(filepath.Join(outDir, wf.Name+".css"), strings.Join(all, "")); err != nil {
		return nil, err
	}

	if opts.Preview {
		path := filepath.Join(outDir, wf.Name+"-preview.html")
		fd, err := os.Create(path)
		if err != nil {
			return nil, core.WrapError(err, core.EINTERNAL, "cannot write preview page %s", path)
		}
		defer fd.Close()
		if err := webfont.Preview(fd, wf, wf.Name+".css"); err != nil {
			return nil, err
		}
		tracer().Infof("wrote %s", filepath.Base(path))
	}
	return wf, nil
}

// writeCSS writes a generated stylesheet, first parsing it back as a
// safety net against emitting CSS no consumer can read.
func writeCSS(path string, css string) error {
	if _, err := parser.Parse(css); err != nil {
		return core.WrapError(err, core.EINTERNAL, "generated CSS does not parse")
	}
	if err := os.WriteFile(path, []byte(css), 0644); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write stylesheet %s", path)
	}
	tracer().Infof("wrote %s (%d bytes)", filepath.Base(path), len(css))
	return nil
}
