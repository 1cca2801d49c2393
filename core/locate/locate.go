/*
Package locate finds the font files a packaging run works on.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package locate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/fontpress/core"
)

// tracer writes to trace with key 'fontpress.locate'
func tracer() tracing.Trace {
	return tracing.Select("fontpress.locate")
}

var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
}

// FontFiles lists the per-style font files of a family directory, sorted
// by file name. A directory without any font files is an error (wrapping
// EMISSING): a packaging run without inputs must fail before doing work.
func FontFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font directory %s", dir)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if fontExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, core.Error(core.EMISSING, "no font files in %s", dir)
	}
	sort.Strings(files)
	tracer().Infof("found %d font files in %s", len(files), dir)
	return files, nil
}

// FontFile resolves a single font input. A path that exists on disk is
// taken as is; otherwise the name is looked up as an installed system
// font.
func FontFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	path, err := findfont.Find(name)
	if err != nil || path == "" {
		return "", core.WrapError(err, core.EMISSING, "font not found: %s", name)
	}
	tracer().Debugf("%s resolved to system font %s", name, path)
	return path, nil
}

// OutputDir makes sure the output directory exists, creating it (and
// missing parents) with permissions 755.
func OutputDir(path string) (string, error) {
	if path == "" {
		return "", core.Error(core.EINVALID, "no output directory configured")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", core.WrapError(err, core.EINVALID, "cannot create output directory %s", path)
	}
	return path, nil
}
