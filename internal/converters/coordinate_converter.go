package converters

// CoordinateConverter reprojects single coordinates between two coordinate reference systems.
//
// Geographic coordinates of EPSG:4326 are always exchanged in latitude, longitude order. For other
// geographic systems alwaysXY selects longitude, latitude order instead of the authority order.
type CoordinateConverter interface {
	ConvertCoordinate(sourceCrs string, targetCrs string, alwaysXY bool, coord []float64) ([]float64, error)
	Cleanup()
}
