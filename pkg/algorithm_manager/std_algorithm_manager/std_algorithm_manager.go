package std_algorithm_manager

import (
	"sync"

	"github.com/ecopia-map/geofiles/internal/batch"
	"github.com/ecopia-map/geofiles/internal/converters"
	"github.com/ecopia-map/geofiles/internal/converters/proj4_coordinate_converter"
	"github.com/ecopia-map/geofiles/internal/formats"
	"github.com/ecopia-map/geofiles/pkg/algorithm_manager"
)

type StandardAlgorithmManager struct {
	options *batch.Options

	once                sync.Once
	coordinateConverter converters.CoordinateConverter
}

func NewAlgorithmManager(opts *batch.Options) algorithm_manager.AlgorithmManager {
	return &StandardAlgorithmManager{options: opts}
}

// GetCoordinateConverterAlgorithm returns the PROJ backed converter, created on first use and
// shared afterwards.
func (m *StandardAlgorithmManager) GetCoordinateConverterAlgorithm() converters.CoordinateConverter {
	m.once.Do(func() {
		m.coordinateConverter = proj4_coordinate_converter.NewProj4CoordinateConverter()
	})
	return m.coordinateConverter
}

// GetFormats returns the formats named in the options, every format if none is named.
func (m *StandardAlgorithmManager) GetFormats() ([]formats.Format, error) {
	if len(m.options.Formats) == 0 {
		return formats.All(), nil
	}

	res := make([]formats.Format, 0, len(m.options.Formats))
	for _, name := range m.options.Formats {
		format, err := formats.ByName(name)
		if err != nil {
			return nil, err
		}
		res = append(res, format)
	}
	return res, nil
}
