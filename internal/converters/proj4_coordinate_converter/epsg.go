package proj4_coordinate_converter

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const crs84 = "urn:ogc:def:crs:OGC:2:84"

// definitions of the systems used most often with geo-referenced meshes, more can be loaded
// from an epsg init file
var builtinDefinitions = map[int]string{
	4326:  "+proj=longlat +datum=WGS84 +no_defs",
	4258:  "+proj=longlat +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +no_defs",
	4978:  "+proj=geocent +datum=WGS84 +units=m +no_defs",
	3857:  "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs",
	25832: "+proj=utm +zone=32 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	25833: "+proj=utm +zone=33 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	32632: "+proj=utm +zone=32 +datum=WGS84 +units=m +no_defs",
	32633: "+proj=utm +zone=33 +datum=WGS84 +units=m +no_defs",
	26915: "+proj=utm +zone=15 +datum=NAD83 +units=m +no_defs",
	31256: "+proj=tmerc +lat_0=0 +lon_0=16.33333333333333 +k=1 +x_0=0 +y_0=-5000000 +ellps=bessel +towgs84=577.326,90.129,463.919,5.137,1.474,5.297,2.4232 +units=m +no_defs",
}

// matches EPSG:4326, urn:ogc:def:crs:EPSG::4326, urn:ogc:def:crs:EPSG:9.8:4326 and
// http://www.opengis.net/def/crs/EPSG/0/4326
var epsgPattern = regexp.MustCompile(`(?i)^(?:urn:ogc:def:crs:)?epsg(?::[^:]*:|:|/0/)(\d+)$|^https?://www\.opengis\.net/def/crs/EPSG/0/(\d+)$`)

// matches a line of a proj epsg init file: <4326> +proj=longlat +datum=WGS84 +no_defs <>
var initLinePattern = regexp.MustCompile(`^<(\d+)>\s*(.*?)\s*<>\s*$`)

type crsDefinition struct {
	// Code is the EPSG code, 0 for raw proj definitions and CRS84.
	Code       int
	Definition string
}

func parseEpsgCode(crs string) (int, bool) {
	m := epsgPattern.FindStringSubmatch(strings.TrimSpace(crs))
	if m == nil {
		return 0, false
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	code, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return code, true
}

// resolveDefinition maps a crs identifier to the proj definition used to initialize it.
func resolveDefinition(crs string, definitions map[int]string) (crsDefinition, error) {
	trimmed := strings.TrimSpace(crs)
	switch {
	case strings.HasPrefix(trimmed, "+"):
		return crsDefinition{Definition: trimmed}, nil
	case trimmed == crs84 || strings.EqualFold(trimmed, "CRS84"):
		return crsDefinition{Definition: builtinDefinitions[4326]}, nil
	}

	code, ok := parseEpsgCode(trimmed)
	if !ok {
		return crsDefinition{}, errors.Errorf("unknown coordinate reference system %q", crs)
	}
	if def, ok := definitions[code]; ok {
		return crsDefinition{Code: code, Definition: def}, nil
	}
	return crsDefinition{Code: code, Definition: "+init=epsg:" + strconv.Itoa(code)}, nil
}

// loadInitFile reads definitions from a file in the format of the proj epsg init file.
// Lines starting with # are comments.
func loadInitFile(r io.Reader) (map[int]string, error) {
	definitions := make(map[int]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := initLinePattern.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.Errorf("malformed projection definition %q", line)
		}
		code, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, errors.Wrapf(err, "projection code in %q", line)
		}
		definitions[code] = m[2]
	}
	return definitions, scanner.Err()
}

func loadInitFileFromPath(path string) (map[int]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return loadInitFile(file)
}
