/*
 * This file is part of the geofiles distribution (https://github.com/ecopia-map/geofiles).
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ecopia-map/geofiles/internal/batch"
	"github.com/ecopia-map/geofiles/internal/formats"
	"github.com/ecopia-map/geofiles/pkg"
	"github.com/ecopia-map/geofiles/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/geofiles/tools"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const VERSION = "0.3.0"

const logo = `
                   __ _ _
  __ _  ___  ___  / _(_) | ___  ___
 / _  |/ _ \/ _ \| |_| | |/ _ \/ __|
| (_| |  __/ (_) |  _| | |  __/\__ \
 \__, |\___|\___/|_| |_|_|\___||___/
  __| | Geo-referenced mesh files written in golang
 |___/
`

func main() {
	defer glog.Flush()

	flagsGlobal := tools.ParseFlagsGlobal()
	glog.V(1).Info(tools.FmtJSONString(flagsGlobal))

	if *flagsGlobal.Help {
		showHelp()
		return
	}
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fatalf("Please specify a subcommand [convert|compare|extent].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandConvert:
		mainCommandConvert(args)
	case tools.CommandCompare:
		mainCommandCompare(args)
	case tools.CommandExtent:
		mainCommandExtent(args)
	default:
		fatalf("Unrecognized command [%q]. Command must be one of [convert|compare|extent]", cmd)
	}
}

func setupLogger(common tools.CommonFlags, withLogo bool) {
	if *common.Silent {
		tools.DisableLogger()
	} else if withLogo {
		printLogo()
	}
	if *common.LogTimestamp {
		tools.EnableLoggerTimestamp()
	} else {
		tools.DisableLoggerTimestamp()
	}
}

// commonOptions fills the options shared by all commands.
func commonOptions(common tools.CommonFlags) (*batch.Options, error) {
	origin, err := tools.ParseFloatList(*common.Origin)
	if err != nil {
		return nil, err
	}

	opts := batch.DefaultOptions()
	opts.Input = *common.Input
	opts.Crs = *common.Crs
	opts.Origin = origin
	opts.UpdateExtent = *common.UpdateExtent
	return opts, nil
}

func mainCommandConvert(args []string) {
	flags := tools.ParseFlagsForCommandConvert(args)
	setupLogger(flags.CommonFlags, true)

	opts, err := commonOptions(flags.CommonFlags)
	if err != nil {
		fatalf("Error parsing input parameters: %v", err)
	}
	opts.Command = tools.CommandConvert
	opts.Output = *flags.Output
	opts.ConvertOptions = &batch.ConvertOptions{
		Format:        *flags.Format,
		TargetCrs:     *flags.TargetCrs,
		AlwaysXY:      *flags.AlwaysXY,
		OriginBased:   *flags.OriginBased,
		Transform:     *flags.Transform,
		Minimize:      *flags.Minimize,
		BearingOffset: *flags.BearingOffset,
	}

	if msg, res := validateOptionsForCommandConvert(opts); !res {
		fatalf("Error parsing input parameters: %s", msg)
	}

	defer timeTrack(time.Now(), "conversion")
	path, err := pkg.NewConverter(std_algorithm_manager.NewAlgorithmManager(opts)).RunConverter(opts)
	if err != nil {
		fatalf("Error while converting: %v", err)
	}
	tools.LogOutput("Conversion Completed:", path)
}

func validateOptionsForCommandConvert(opts *batch.Options) (string, bool) {
	if msg, res := validateInputFile(opts); !res {
		return msg, res
	}
	if opts.Output == "" {
		return "Output file not specified", false
	}
	if _, err := formats.ByName(opts.ConvertOptions.Format); err != nil {
		return err.Error(), false
	}
	if msg, res := validateOrigin(opts.Origin); !res {
		return msg, res
	}
	return "", true
}

func mainCommandCompare(args []string) {
	flags := tools.ParseFlagsForCommandCompare(args, batch.DefaultCrs, tools.FormatPoint(batch.DefaultOrigin, ","))
	setupLogger(flags.CommonFlags, true)

	var opts *batch.Options
	var err error
	if *flags.Config != "" {
		opts, err = batch.LoadOptions(*flags.Config)
	} else {
		opts, err = compareOptions(&flags)
	}
	if err != nil {
		fatalf("Error parsing input parameters: %v", err)
	}
	opts.Command = tools.CommandCompare
	if opts.Output == "" {
		opts.Output = defaultCompareOutput(opts.Input)
	}

	if msg, res := validateOptionsForCommandCompare(opts); !res {
		fatalf("Error parsing input parameters: %s", msg)
	}

	defer timeTrack(time.Now(), "comparison")
	err = pkg.NewComparer(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunComparer(opts)
	if err != nil {
		fatalf("Error while comparing: %v", err)
	}
	tools.LogOutput("Comparison Completed")
}

func compareOptions(flags *tools.FlagsForCommandCompare) (*batch.Options, error) {
	opts, err := commonOptions(flags.CommonFlags)
	if err != nil {
		return nil, err
	}
	opts.Output = *flags.Output
	opts.Recursive = *flags.Recursive
	opts.Formats = tools.SplitList(*flags.Formats)
	opts.Workers = *flags.Workers

	opts.Representations = nil
	for _, value := range tools.SplitList(*flags.Representations) {
		r := batch.ParseRepresentation(value)
		if r == "" {
			return nil, errors.Errorf("unknown representation %q", value)
		}
		opts.Representations = append(opts.Representations, r)
	}
	return opts, nil
}

// defaultCompareOutput writes next to the input: into the input folder or the folder of the input file.
func defaultCompareOutput(input string) string {
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		return filepath.Dir(input)
	}
	return input
}

func validateOptionsForCommandCompare(opts *batch.Options) (string, bool) {
	if _, err := os.Stat(opts.Input); opts.Input == "" || os.IsNotExist(err) {
		return "Input file/folder not found", false
	}
	if len(opts.Representations) == 0 {
		return "At least one representation must be written", false
	}
	for _, name := range opts.Formats {
		if _, err := formats.ByName(name); err != nil {
			return err.Error(), false
		}
	}
	if opts.Crs == "" {
		return "A crs is required to geo-reference local meshes", false
	}
	if len(opts.Origin) != 3 {
		return "An origin of 3 values is required to geo-reference local meshes", false
	}
	if opts.Workers < 0 {
		return "workers cannot be negative", false
	}
	return "", true
}

func mainCommandExtent(args []string) {
	flags := tools.ParseFlagsForCommandExtent(args)
	setupLogger(flags.CommonFlags, false)

	opts, err := commonOptions(flags.CommonFlags)
	if err != nil {
		fatalf("Error parsing input parameters: %v", err)
	}
	opts.Command = tools.CommandExtent
	opts.ExtentOptions = &batch.ExtentOptions{
		Geospatial:            *flags.Geospatial,
		IncludeTransformation: *flags.IncludeTransformation,
		BearingOffset:         *flags.BearingOffset,
	}

	if msg, res := validateOptionsForCommandExtent(opts); !res {
		fatalf("Error parsing input parameters: %s", msg)
	}

	extent, err := pkg.RunExtent(opts)
	if err != nil {
		fatalf("Error while computing the extent: %v", err)
	}
	fmt.Println(tools.FmtJSONString(extent))
}

func validateOptionsForCommandExtent(opts *batch.Options) (string, bool) {
	if msg, res := validateInputFile(opts); !res {
		return msg, res
	}
	return validateOrigin(opts.Origin)
}

func validateInputFile(opts *batch.Options) (string, bool) {
	info, err := os.Stat(opts.Input)
	if opts.Input == "" || os.IsNotExist(err) {
		return "Input file not found", false
	}
	if err == nil && info.IsDir() {
		return "Input must be a file", false
	}
	if _, err := formats.ForPath(opts.Input); err != nil {
		return err.Error(), false
	}
	return "", true
}

func validateOrigin(origin []float64) (string, bool) {
	if len(origin) != 0 && len(origin) != 3 {
		return "origin needs exactly 3 values", false
	}
	return "", true
}

func fatalf(format string, args ...interface{}) {
	glog.Errorf(format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	glog.Flush()
	os.Exit(1)
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Print(logo, "\n")
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("geofiles converts mesh files between geo-referenced formats, coordinate reference systems and representations")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: geofiles [global flags] convert|compare|extent [command flags]")
	fmt.Println("")
	fmt.Println("Global flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
	for _, cmd := range []string{tools.CommandConvert, tools.CommandCompare, tools.CommandExtent} {
		fmt.Println("")
		fmt.Printf("Run 'geofiles %s -h' for the flags of %s.\n", cmd, cmd)
	}
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
