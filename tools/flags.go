package tools

import (
	"flag"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	CommandConvert = "convert"
	CommandCompare = "compare"
	CommandExtent  = "extent"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

// CommonFlags are shared by all commands.
type CommonFlags struct {
	Input        *string `json:"input"`
	Crs          *string `json:"crs"`
	Origin       *string `json:"origin"`
	UpdateExtent *bool   `json:"update_extent"`
	Silent       *bool   `json:"silent"`
	LogTimestamp *bool   `json:"timestamp"`
}

type FlagsForCommandConvert struct {
	CommonFlags
	Output        *string  `json:"output"`
	Format        *string  `json:"format"`
	TargetCrs     *string  `json:"to_crs"`
	AlwaysXY      *bool    `json:"always_xy"`
	OriginBased   *bool    `json:"origin_based"`
	Transform     *bool    `json:"transform"`
	Minimize      *bool    `json:"minimize"`
	BearingOffset *float64 `json:"bearing_offset"`
}

type FlagsForCommandCompare struct {
	CommonFlags
	Output          *string `json:"output"`
	Config          *string `json:"config"`
	Recursive       *bool   `json:"recursive"`
	Formats         *string `json:"formats"`
	Representations *string `json:"representations"`
	Workers         *int    `json:"workers"`
}

type FlagsForCommandExtent struct {
	CommonFlags
	Geospatial            *bool    `json:"geospatial"`
	IncludeTransformation *bool    `json:"include_transformation"`
	BearingOffset         *float64 `json:"bearing_offset"`
}

// ParseFlagsGlobal parses the flags in front of the command, glog registers its flags here too.
func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of geofiles.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func defineCommonFlags(flagCommand *flag.FlagSet, crsDefault, originDefault string) CommonFlags {
	return CommonFlags{
		Input:        defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input mesh file/folder."),
		Crs:          defineStringFlagCommand(flagCommand, "crs", "c", crsDefault, "Coordinate reference system attached to local meshes."),
		Origin:       defineStringFlagCommand(flagCommand, "origin", "", originDefault, "Origin attached to local meshes, comma separated x,y,z in the given crs."),
		UpdateExtent: defineBoolFlagCommand(flagCommand, "update-extent", "e", false, "Recomputes and stores the extent of written meshes."),
		Silent:       defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp: defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
	}
}

func ParseFlagsForCommandConvert(args []string) FlagsForCommandConvert {
	glog.V(1).Info(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-convert", flag.ExitOnError)

	common := defineCommonFlags(flagCommand, "", "")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output file, the extension of the format is appended if missing.")
	format := defineStringFlagCommand(flagCommand, "format", "f", "geoobj", "Output format, one of geoobj, geooff, geostl or geoply.")
	targetCrs := defineStringFlagCommand(flagCommand, "to-crs", "", "", "Reprojects the mesh to the given coordinate reference system.")
	alwaysXY := defineBoolFlagCommand(flagCommand, "always-xy", "", true, "Exchanges coordinates of geographic systems in x/y order when reprojecting.")
	originBased := defineBoolFlagCommand(flagCommand, "origin-based", "r", false, "Writes vertices as offsets in metres from an origin. Default writes absolute coordinates.")
	transform := defineBoolFlagCommand(flagCommand, "transform", "", false, "Applies scaling, rotation and translation to the vertices before writing.")
	minimize := defineBoolFlagCommand(flagCommand, "minimize", "m", false, "Merges all objects into a single object.")
	bearingOffset := defineFloat64FlagCommand(flagCommand, "bearing-offset", "b", 0, "Bearing offset in degrees applied by origin conversions.")

	flagCommand.Parse(args)

	return FlagsForCommandConvert{
		CommonFlags:   common,
		Output:        output,
		Format:        format,
		TargetCrs:     targetCrs,
		AlwaysXY:      alwaysXY,
		OriginBased:   originBased,
		Transform:     transform,
		Minimize:      minimize,
		BearingOffset: bearingOffset,
	}
}

func ParseFlagsForCommandCompare(args []string, crsDefault, originDefault string) FlagsForCommandCompare {
	glog.V(1).Info(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-compare", flag.ExitOnError)

	common := defineCommonFlags(flagCommand, crsDefault, originDefault)
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output folder, defaults to the input folder.")
	config := defineStringFlagCommand(flagCommand, "config", "", "", "YAML job file replacing all other flags.")
	recursive := defineBoolFlagCommand(flagCommand, "recursive", "", false, "Enables recursive lookup for all mesh files inside the subfolders.")
	formats := defineStringFlagCommand(flagCommand, "formats", "f", "", "Comma separated list of formats to write, all formats when empty.")
	representations := defineStringFlagCommand(flagCommand, "representations", "", "absolute,origin", "Comma separated list of representations to write: absolute, origin.")
	workers := defineIntFlagCommand(flagCommand, "workers", "w", 0, "Number of writer goroutines, one per CPU when 0.")

	flagCommand.Parse(args)

	return FlagsForCommandCompare{
		CommonFlags:     common,
		Output:          output,
		Config:          config,
		Recursive:       recursive,
		Formats:         formats,
		Representations: representations,
		Workers:         workers,
	}
}

func ParseFlagsForCommandExtent(args []string) FlagsForCommandExtent {
	glog.V(1).Info(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-extent", flag.ExitOnError)

	common := defineCommonFlags(flagCommand, "", "")
	geospatial := defineBoolFlagCommand(flagCommand, "geospatial", "g", false, "Reports the extent of origin based meshes in the crs of the origin.")
	includeTransformation := defineBoolFlagCommand(flagCommand, "include-transformation", "x", false, "Applies the transformation of the mesh before computing the extent.")
	bearingOffset := defineFloat64FlagCommand(flagCommand, "bearing-offset", "b", 0, "Bearing offset in degrees applied by origin conversions.")

	flagCommand.Parse(args)

	return FlagsForCommandExtent{
		CommonFlags:           common,
		Geospatial:            geospatial,
		IncludeTransformation: includeTransformation,
		BearingOffset:         bearingOffset,
	}
}

// ParseFloatList parses comma separated numbers like "14.28,48.30,279.8". An empty value gives nil.
func ParseFloatList(value string) ([]float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d of %q", i+1, value)
		}
		values[i] = v
	}
	return values, nil
}

// SplitList splits a comma separated list dropping empty entries.
func SplitList(value string) []string {
	var values []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
