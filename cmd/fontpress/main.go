/*
fontpress packages a directory of compiled font styles as a webfont:
script-subset WOFF2 cuts, @font-face CSS and a specimen page.

Usage:

   fontpress -fonts dist/Demo/TTF [-out dist/Demo/WOFF2] [-family Demo]
             [-minchars 8] [-preview] [-trace Info]

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/npillmayer/fontpress/core"
	"github.com/npillmayer/fontpress/pipeline"
)

// tracer traces with key 'fontpress.pipeline'
func tracer() tracing.Trace {
	return tracing.Select("fontpress.pipeline")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontdir := flag.String("fonts", "", "Directory of compiled font styles")
	outdir := flag.String("out", "", "Output directory (default: WOFF2 next to the font directory)")
	family := flag.String("family", "", "Font family name (default: derived from the font directory)")
	format := flag.String("format", "woff2", "Webfont container format")
	minchars := flag.Int("minchars", 0, "Minimum characters for a subset cut")
	preview := flag.Bool("preview", false, "Write a specimen HTML page")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"app-key":                  "fontpress",
		"tracing.adapter":          "go",
		"trace.fontpress.font":     *tlevel,
		"trace.fontpress.locate":   *tlevel,
		"trace.fontpress.sched":    *tlevel,
		"trace.fontpress.webfont":  *tlevel,
		"trace.fontpress.pipeline": *tlevel,
		"webfont.fontdir":          *fontdir,
		"webfont.outdir":           *outdir,
		"webfont.family":           *family,
		"webfont.format":           *format,
		"webfont.minchars":         strconv.Itoa(*minchars),
		"webfont.preview":          strconv.FormatBool(*preview),
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	if *fontdir == "" {
		pterm.Error.Println("no font directory given (-fonts)")
		flag.Usage()
		os.Exit(2)
	}

	pterm.Info.Println("fontpress webfont packaging")
	wf, err := pipeline.Run(pipeline.OptionsFrom(conf))
	if err != nil {
		core.UserError(err)
		os.Exit(1)
	}
	cuts := 0
	for _, v := range wf.Variants {
		cuts += len(v.Artifacts)
	}
	pterm.Info.Printfln("packaged %s: %d styles, %d subset files", wf.Name, len(wf.Variants), cuts)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
