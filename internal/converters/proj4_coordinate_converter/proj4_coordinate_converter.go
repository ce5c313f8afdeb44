package proj4_coordinate_converter

import (
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/ecopia-map/geofiles/internal/converters"
	"github.com/ecopia-map/geofiles/tools"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	proj "github.com/xeonx/proj4"
)

const (
	toRadians = math.Pi / 180
	toDegrees = 180 / math.Pi

	// EpsgFileName is looked up in the assets folder next to the executable.
	EpsgFileName = "epsg_projections.txt"
)

type projection struct {
	crsDefinition
	proj *proj.Proj
}

type proj4CoordinateConverter struct {
	sync.Mutex
	definitions map[int]string
	projections map[string]*projection
}

// NewProj4CoordinateConverter builds a converter knowing the built-in projection definitions and
// the ones found in assets/epsg_projections.txt of the working folder, if present.
func NewProj4CoordinateConverter() converters.CoordinateConverter {
	definitions := make(map[int]string, len(builtinDefinitions))
	for code, def := range builtinDefinitions {
		definitions[code] = def
	}

	path := filepath.Join(tools.GetRootFolder(), "assets", EpsgFileName)
	if _, err := os.Stat(path); err == nil {
		loaded, err := loadInitFileFromPath(path)
		if err != nil {
			glog.Warningf("ignoring projection definitions of %s: %v", path, err)
		} else {
			for code, def := range loaded {
				definitions[code] = def
			}
			glog.V(1).Infof("loaded %d projection definitions from %s", len(loaded), path)
		}
	}

	return &proj4CoordinateConverter{
		definitions: definitions,
		projections: make(map[string]*projection),
	}
}

// ConvertCoordinate converts coord from sourceCrs to targetCrs. A missing altitude is treated as 0
// and omitted from the result.
func (cc *proj4CoordinateConverter) ConvertCoordinate(sourceCrs string, targetCrs string, alwaysXY bool, coord []float64) ([]float64, error) {
	if len(coord) < 2 {
		return nil, errors.Errorf("coordinate needs at least 2 components, got %d", len(coord))
	}

	cc.Lock()
	defer cc.Unlock()

	src, err := cc.getProjection(sourceCrs)
	if err != nil {
		return nil, err
	}
	dst, err := cc.getProjection(targetCrs)
	if err != nil {
		return nil, err
	}

	x, y, z := coord[0], coord[1], 0.0
	if len(coord) > 2 {
		z = coord[2]
	}
	if src.isLatLonOrder(alwaysXY) {
		x, y = y, x
	}
	if src.proj.IsLatLong() {
		x, y = x*toRadians, y*toRadians
	}

	xs, ys, zs := []float64{x}, []float64{y}, []float64{z}
	if err := proj.TransformRaw(src.proj, dst.proj, xs, ys, zs); err != nil {
		return nil, errors.Wrapf(err, "transforming %v from %s to %s", coord, sourceCrs, targetCrs)
	}

	x, y, z = xs[0], ys[0], zs[0]
	if dst.proj.IsLatLong() {
		x, y = x*toDegrees, y*toDegrees
	}
	if dst.isLatLonOrder(alwaysXY) {
		x, y = y, x
	}

	if len(coord) > 2 {
		return []float64{x, y, z}, nil
	}
	return []float64{x, y}, nil
}

func (cc *proj4CoordinateConverter) getProjection(crs string) (*projection, error) {
	if p, ok := cc.projections[crs]; ok {
		return p, nil
	}

	def, err := resolveDefinition(crs, cc.definitions)
	if err != nil {
		return nil, err
	}

	pj, err := proj.InitPlus(def.Definition)
	if err != nil {
		return nil, errors.Wrapf(err, "initializing projection %q", def.Definition)
	}
	glog.V(2).Infof("initialized projection %s: %s", crs, def.Definition)

	p := &projection{crsDefinition: def, proj: pj}
	cc.projections[crs] = p
	return p, nil
}

// isLatLonOrder reports whether coordinates of this projection are exchanged latitude first.
// EPSG:4326 always is, other geographic EPSG systems only when the authority order is requested.
func (p *projection) isLatLonOrder(alwaysXY bool) bool {
	if p.Code == 4326 {
		return true
	}
	return !alwaysXY && p.Code != 0 && p.proj.IsLatLong()
}

func (cc *proj4CoordinateConverter) Cleanup() {
	cc.Lock()
	defer cc.Unlock()

	for key, p := range cc.projections {
		p.proj.Close()
		delete(cc.projections, key)
	}
}
