/*
Package font handles font files as packaging resources.

A Resource names a font file on disk together with its container format.
Its character coverage (the set of code points the font's cmap maps to a
glyph) is computed lazily and cached, since several subset jobs of one
variant ask for it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontpress.font'
func tracer() tracing.Trace {
	return tracing.Select("fontpress.font")
}
