/*
Package webfont models packaged web font families.

A Webfont aggregates the styles (Variants) of one font family. Each
variant is backed by a compiled source font file and accumulates subset
artifacts, which the package renders into @font-face declarations.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package webfont

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontpress.webfont'
func tracer() tracing.Trace {
	return tracing.Select("fontpress.webfont")
}
