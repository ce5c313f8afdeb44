package algorithm_manager

import (
	"github.com/ecopia-map/geofiles/internal/converters"
	"github.com/ecopia-map/geofiles/internal/formats"
)

type AlgorithmManager interface {
	GetCoordinateConverterAlgorithm() converters.CoordinateConverter
	GetFormats() ([]formats.Format, error)
}
