package pkg

import (
	"path/filepath"

	"github.com/ecopia-map/geofiles/internal/batch"
	"github.com/ecopia-map/geofiles/internal/converters"
	"github.com/ecopia-map/geofiles/internal/formats"
	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/ecopia-map/geofiles/pkg/algorithm_manager"
	"github.com/ecopia-map/geofiles/tools"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type IConverter interface {
	RunConverter(opts *batch.Options) (string, error)
}

// Converter converts a single mesh file: it attaches a geo-reference to local meshes, applies the
// pending transformation, reprojects, switches the representation and writes the result.
type Converter struct {
	algorithmManager algorithm_manager.AlgorithmManager
	localConverter   *converters.LocalConverter
	originConverter  *converters.OriginConverter
	transformer      *converters.Transformer
}

func NewConverter(algorithmManager algorithm_manager.AlgorithmManager) IConverter {
	return &Converter{
		algorithmManager: algorithmManager,
		localConverter:   converters.NewLocalConverter(),
		originConverter:  converters.NewOriginConverter(),
		transformer:      converters.NewTransformer(),
	}
}

// RunConverter returns the path of the written file.
func (c *Converter) RunConverter(opts *batch.Options) (string, error) {
	convertOpts := opts.ConvertOptions
	if convertOpts == nil {
		return "", errors.New("missing convert options")
	}

	format, err := formats.ByName(convertOpts.Format)
	if err != nil {
		return "", err
	}

	tools.LogOutput("> reading", opts.Input)
	data, err := readInput(c.localConverter, opts)
	if err != nil {
		return "", err
	}

	if convertOpts.Transform {
		tools.LogOutput("> applying transformation...")
		if data, err = c.transform(data, convertOpts.BearingOffset); err != nil {
			return "", err
		}
	}

	if convertOpts.TargetCrs != "" {
		tools.LogOutput("> reprojecting to", convertOpts.TargetCrs)
		crsConverter := converters.NewCrsConverter(c.algorithmManager.GetCoordinateConverterAlgorithm())
		if data, err = crsConverter.Convert(data, convertOpts.TargetCrs, convertOpts.AlwaysXY, false); err != nil {
			return "", err
		}
	}

	if data, err = c.representation(data, convertOpts); err != nil {
		return "", err
	}

	if convertOpts.Minimize {
		if data, err = data.Minimize(""); err != nil {
			return "", err
		}
	}

	if opts.UpdateExtent {
		data.UpdateExtent()
	}

	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(opts.Output)); err != nil {
		return "", err
	}
	tools.LogOutput("> writing", format.Name())
	return formats.WriteFile(format, opts.Output, data)
}

func bakeAllOptions() converters.TransformOptions {
	opts := converters.DefaultTransformOptions()
	opts.ApplyOnlyGlobal = false
	return opts
}

// transform bakes the global and the object transformations into the vertices, absolute meshes
// pass through their centroid.
func (c *Converter) transform(data *mesh.File, bearingOffset float64) (*mesh.File, error) {
	if data.IsOriginBased() {
		return c.transformer.Transform(data, bakeAllOptions())
	}
	if !data.IsGeoReferenced() {
		// local vertices are offsets from a zero origin already
		local := data.Clone()
		local.Origin = []float64{0, 0, 0}
		transformed, err := c.transformer.Transform(local, bakeAllOptions())
		if err != nil {
			return nil, err
		}
		transformed.Origin = nil
		return transformed, nil
	}

	originBased, err := c.originConverter.ToOrigin(data, nil, bearingOffset, false)
	if err != nil {
		return nil, errors.Wrap(err, "transformation of absolute mesh")
	}
	transformed, err := c.transformer.Transform(originBased, bakeAllOptions())
	if err != nil {
		return nil, err
	}
	return c.originConverter.FromOrigin(transformed, bearingOffset, false)
}

func (c *Converter) representation(data *mesh.File, convertOpts *batch.ConvertOptions) (*mesh.File, error) {
	switch {
	case !data.IsGeoReferenced() || data.IsOriginBased() == convertOpts.OriginBased:
		return data, nil
	case convertOpts.OriginBased:
		return c.originConverter.ToOrigin(data, nil, convertOpts.BearingOffset, false)
	default:
		return c.originConverter.FromOrigin(data, convertOpts.BearingOffset, false)
	}
}

// readInput reads the input file and places local meshes at the configured origin, if any.
func readInput(localConverter *converters.LocalConverter, opts *batch.Options) (*mesh.File, error) {
	format, err := formats.ForPath(opts.Input)
	if err != nil {
		return nil, err
	}
	data, err := formats.ReadFile(format, opts.Input)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("read %s: %d vertices, %d objects", opts.Input, len(data.Vertices), len(data.Objects))

	if data.IsGeoReferenced() || opts.Crs == "" || len(opts.Origin) == 0 {
		return data, nil
	}
	return localConverter.FromLocal(data, opts.Crs, opts.Origin, true, false)
}
