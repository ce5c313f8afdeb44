package io

import (
	"path/filepath"
	"sync"

	"github.com/ecopia-map/geofiles/internal/batch"
	"github.com/ecopia-map/geofiles/internal/converters"
	"github.com/ecopia-map/geofiles/internal/formats"
	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/ecopia-map/geofiles/tools"
	"github.com/golang/glog"
)

// OriginPrefix is prepended to the names of origin based output files.
const OriginPrefix = "origin_"

type StandardProducer struct {
	files           []string
	formats         []formats.Format
	options         *batch.Options
	localConverter  *converters.LocalConverter
	originConverter *converters.OriginConverter
}

func NewStandardProducer(files []string, fmts []formats.Format, options *batch.Options) *StandardProducer {
	return &StandardProducer{
		files:           files,
		formats:         fmts,
		options:         options,
		localConverter:  converters.NewLocalConverter(),
		originConverter: converters.NewOriginConverter(),
	}
}

// Reads every input file and submits a WorkUnit per format and representation to the work channel.
// Files which cannot be read or converted are reported on the results channel.
// Closes the work channel when all work is submitted.
func (p *StandardProducer) Produce(work chan<- *WorkUnit, results chan<- *Result, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(work)

	for _, filePath := range p.files {
		p.produce(filePath, work, results)
	}
}

func (p *StandardProducer) produce(filePath string, work chan<- *WorkUnit, results chan<- *Result) {
	original := &Result{InputPath: filePath}
	defer func() { results <- original }()

	format, err := formats.ForPath(filePath)
	if err != nil {
		original.Err = err
		return
	}
	data, err := formats.ReadFile(format, filePath)
	if err != nil {
		original.Err = err
		return
	}
	original.Vertices = len(data.Vertices)
	if original.Size, err = tools.FileSize(filePath); err != nil {
		original.Err = err
		return
	}

	variants, err := p.variants(data)
	if err != nil {
		original.Err = err
		return
	}
	glog.V(1).Infof("read %s: %d vertices, %d objects", filePath, len(data.Vertices), len(data.Objects))

	name := tools.FilenameWithoutExtension(filePath)
	for _, f := range p.formats {
		for _, representation := range p.options.Representations {
			variant, ok := variants[representation]
			if !ok || (representation == batch.OriginBased && !f.SupportsOriginBase()) {
				continue
			}

			fileName := name
			if representation == batch.OriginBased {
				fileName = OriginPrefix + name
			}
			work <- &WorkUnit{
				InputPath:      filePath,
				Data:           variant,
				Format:         f,
				Representation: representation,
				OutputPath:     filepath.Join(p.options.Output, f.Name(), fileName),
			}
		}
	}
}

// variants returns data in every representation written by the run. Local meshes are placed at the
// configured origin.
func (p *StandardProducer) variants(data *mesh.File) (map[batch.Representation]*mesh.File, error) {
	res := make(map[batch.Representation]*mesh.File)
	updateExtent := p.options.UpdateExtent

	for _, representation := range p.options.Representations {
		originBased := representation == batch.OriginBased

		var variant *mesh.File
		var err error
		switch {
		case !data.IsGeoReferenced():
			variant, err = p.localConverter.FromLocal(data, p.options.Crs, p.options.Origin, originBased, updateExtent)
		case data.IsOriginBased() == originBased:
			variant = data
		case originBased:
			variant, err = p.originConverter.ToOrigin(data, nil, 0, updateExtent)
		default:
			variant, err = p.originConverter.FromOrigin(data, 0, updateExtent)
		}
		if err != nil {
			return nil, err
		}
		res[representation] = variant
	}
	return res, nil
}
