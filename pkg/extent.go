package pkg

import (
	"github.com/ecopia-map/geofiles/internal/batch"
	"github.com/ecopia-map/geofiles/internal/converters"
	"github.com/pkg/errors"
)

type Extent struct {
	Crs    string    `json:"crs,omitempty"`
	Origin []float64 `json:"origin,omitempty"`
	Min    []float64 `json:"min"`
	Max    []float64 `json:"max"`
}

// RunExtent computes the extent of the input mesh. Geospatial extents of origin based meshes are
// reported without origin as they are absolute.
func RunExtent(opts *batch.Options) (*Extent, error) {
	extentOpts := opts.ExtentOptions
	if extentOpts == nil {
		extentOpts = &batch.ExtentOptions{}
	}

	data, err := readInput(converters.NewLocalConverter(), opts)
	if err != nil {
		return nil, err
	}

	res, err := converters.NewExtentCalculator().UpdateExtent(data, extentOpts.IncludeTransformation, extentOpts.Geospatial, extentOpts.BearingOffset)
	if err != nil {
		return nil, err
	}
	if !res.ContainsExtent() {
		return nil, errors.Errorf("%s contains no vertices", opts.Input)
	}

	extent := &Extent{Crs: res.Crs, Min: res.MinExtent, Max: res.MaxExtent}
	if res.IsOriginBased() && !extentOpts.Geospatial {
		extent.Origin = res.Origin
	}
	return extent, nil
}
