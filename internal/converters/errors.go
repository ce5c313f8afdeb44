package converters

import "errors"

var (
	ErrAlreadyGeoReferenced = errors.New("mesh is already geo-referenced")
	ErrNotGeoReferenced     = errors.New("mesh is not geo-referenced")
	ErrAlreadyOriginBased   = errors.New("mesh is already origin based")
	ErrNotOriginBased       = errors.New("mesh is not origin based")
	ErrUnsupportedCrs       = errors.New("unsupported coordinate reference system")
	ErrRequiresOriginBased  = errors.New("operation requires an origin based mesh")
	ErrUnsupportedUnit      = errors.New("unsupported unit")
)
