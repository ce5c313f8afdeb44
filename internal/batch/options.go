package batch

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Representation string

const (
	// vertices hold absolute coordinates in the crs of the file
	Absolute Representation = "ABSOLUTE"
	// vertices hold offsets in metres from the origin of the file
	OriginBased Representation = "ORIGIN"
)

const (
	DefaultCrs = "urn:ogc:def:crs:OGC:2:84"
)

// DefaultOrigin places meshes in Linz, Austria.
var DefaultOrigin = []float64{14.2842798233032, 48.30284881591775, 279.807006835938}

func (r Representation) String() string {
	if r == Absolute {
		return "ABSOLUTE"
	} else if r == OriginBased {
		return "ORIGIN"
	}
	return ""
}

func ParseRepresentation(value string) Representation {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	if normalizedValue == "ABSOLUTE" {
		return Absolute
	} else if normalizedValue == "ORIGIN" || normalizedValue == "ORIGIN-BASED" {
		return OriginBased
	}
	return ""
}

// Options describes a run of the geofiles tool. A compare job can also be loaded from a YAML file.
type Options struct {
	Input           string           `yaml:"input"`           // input mesh file/folder
	Output          string           `yaml:"output"`          // output file/folder
	Recursive       bool             `yaml:"recursive"`       // recursive lookup of mesh files in subfolders
	Crs             string           `yaml:"crs"`             // crs attached to local meshes
	Origin          []float64        `yaml:"origin"`          // origin attached to local meshes
	Formats         []string         `yaml:"formats"`         // formats to write, all when empty
	Representations []Representation `yaml:"representations"` // representations to write
	Workers         int              `yaml:"workers"`         // number of consumer goroutines, 0 means one per CPU
	UpdateExtent    bool             `yaml:"update_extent"`   // store the extent in written files

	Command        string          `yaml:"-"`
	ConvertOptions *ConvertOptions `yaml:"-"`
	ExtentOptions  *ExtentOptions  `yaml:"-"`
}

type ConvertOptions struct {
	Format        string  // output format
	TargetCrs     string  // crs to reproject to
	AlwaysXY      bool    // exchange coordinates of geographic systems in x/y order
	OriginBased   bool    // write the origin based representation
	Transform     bool    // apply scaling, rotation and translation before writing
	Minimize      bool    // merge all objects into one
	BearingOffset float64 // bearing offset in degrees used by origin conversions
}

type ExtentOptions struct {
	Geospatial            bool
	IncludeTransformation bool
	BearingOffset         float64
}

func DefaultOptions() *Options {
	return &Options{
		Crs:             DefaultCrs,
		Origin:          append([]float64(nil), DefaultOrigin...),
		Representations: []Representation{Absolute, OriginBased},
	}
}

// WritesRepresentation reports whether the run writes the given representation.
func (opt *Options) WritesRepresentation(r Representation) bool {
	for _, rep := range opt.Representations {
		if rep == r {
			return true
		}
	}
	return false
}

func (opt *Options) Copy() *Options {
	newOpt := &Options{
		Input:           opt.Input,
		Output:          opt.Output,
		Recursive:       opt.Recursive,
		Crs:             opt.Crs,
		Origin:          append([]float64(nil), opt.Origin...),
		Formats:         append([]string(nil), opt.Formats...),
		Representations: append([]Representation(nil), opt.Representations...),
		Workers:         opt.Workers,
		UpdateExtent:    opt.UpdateExtent,
		Command:         opt.Command,
	}

	if opt.ConvertOptions != nil {
		convertOpt := *opt.ConvertOptions
		newOpt.ConvertOptions = &convertOpt
	}

	if opt.ExtentOptions != nil {
		extentOpt := *opt.ExtentOptions
		newOpt.ExtentOptions = &extentOpt
	}

	return newOpt
}

// LoadOptions reads a compare job from a YAML file. Unset values keep their defaults.
func LoadOptions(path string) (*Options, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	opts := DefaultOptions()
	if err := yaml.Unmarshal(content, opts); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	for i, r := range opts.Representations {
		parsed := ParseRepresentation(string(r))
		if parsed == "" {
			return nil, errors.Errorf("%s: unknown representation %q", path, r)
		}
		opts.Representations[i] = parsed
	}
	return opts, nil
}
