package webfont

import (
	"github.com/npillmayer/fontpress/core/font/convert"
	"github.com/npillmayer/fontpress/core/subsets"
	"github.com/npillmayer/fontpress/core/unirange"
)

// DefaultMinChars is the minimum number of covered characters a subset
// cut must have to be worth a file of its own.
const DefaultMinChars = 8

// Subsetter cuts variants down to script subsets.
type Subsetter struct {
	MinChars  int // threshold for cutting, DefaultMinChars if zero
	Primitive convert.Primitive
}

// Cut reduces a variant's source font to its intersection with a catalog
// subset and writes the result to outPath.
//
// A subset covering fewer characters than the threshold is skipped: Cut
// logs and returns a nil artifact with no error (a threshold-sized
// coverage is kept). The artifact's range descriptors always encode the
// intersection actually shipped, never the subset's nominal ranges. An
// unreadable source or a failing reduction is an error.
func (s Subsetter) Cut(v *Variant, sub subsets.Subset, outPath string) (*Artifact, error) {
	min := s.MinChars
	if min <= 0 {
		min = DefaultMinChars
	}
	available, err := v.Source.Supports(sub.RangeTable())
	if err != nil {
		return nil, err
	}
	if len(available) < min {
		tracer().Infof("subset %s of %s too small (%d chars < %d min chars), skipping",
			sub.Name(), v.Source.Stem(), len(available), min)
		return nil, nil
	}
	tracer().Infof("subsetting %s to %s (%d chars)", v.Source.Stem(), sub.Name(), len(available))
	res, err := s.Primitive.Reduce(v.Source, available, outPath)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Subset: sub.Name(),
		File:   res,
		Range:  unirange.Encode(available),
	}, nil
}
