package pkg

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ecopia-map/geofiles/internal/batch"
	"github.com/ecopia-map/geofiles/internal/formats"
	"github.com/ecopia-map/geofiles/internal/io"
	"github.com/ecopia-map/geofiles/pkg/algorithm_manager"
	"github.com/ecopia-map/geofiles/tools"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type IComparer interface {
	RunComparer(opts *batch.Options) error
}

// Comparer writes every input mesh in every configured format and representation and reports the
// resulting file sizes in result.csv of the output folder.
type Comparer struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewComparer(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) IComparer {
	return &Comparer{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Starts the comparison. Failing files or formats are reported and skipped, the run fails after
// writing the report if any job failed.
func (c *Comparer) RunComparer(opts *batch.Options) error {
	tools.LogOutput("Preparing list of files to process...")

	files, err := c.fileFinder.GetMeshFilesToProcess(opts)
	if err != nil {
		return errors.Wrap(err, "listing input files")
	}
	for i, filePath := range files {
		glog.V(1).Infof("mesh file %d [%s]", i, filePath)
	}

	fmts, err := c.algorithmManager.GetFormats()
	if err != nil {
		return err
	}
	if err := tools.CreateDirectoryIfDoesNotExist(opts.Output); err != nil {
		return err
	}

	report := newSizeReport(files, fmts, opts)
	numberOfJobs := report.numberOfJobs()
	doneJobs, failedJobs := 0, 0

	for result := range c.process(files, fmts, opts) {
		if result.Format == "" {
			if result.Err != nil {
				failedJobs++
				tools.LogOutput(fmt.Sprintf("Skipping %s: %v", filepath.Base(result.InputPath), result.Err))
			}
			report.add(result)
			continue
		}

		doneJobs++
		if result.Err != nil {
			failedJobs++
			tools.LogOutput(fmt.Sprintf("Step %d of %d failed (%s, %s): %v", doneJobs, numberOfJobs, filepath.Base(result.InputPath), result.Format, result.Err))
			continue
		}
		suffix := ""
		if result.Representation == batch.OriginBased {
			suffix = ", origin-based"
		}
		tools.LogOutput(fmt.Sprintf("Step %d of %d done (%s, %s%s)", doneJobs, numberOfJobs, filepath.Base(result.InputPath), result.Format, suffix))
		report.add(result)
	}

	reportPath := filepath.Join(opts.Output, tools.ResultFileName)
	if err := report.writeFile(reportPath); err != nil {
		return errors.Wrap(err, "writing size report")
	}
	tools.LogOutput("> size report written to", reportPath)

	if failedJobs > 0 {
		return errors.Errorf("%d jobs failed, check the log for details", failedJobs)
	}
	return nil
}

// process starts the producer and the consumers, the returned channel is closed when all work is done.
func (c *Comparer) process(files []string, fmts []formats.Format, opts *batch.Options) <-chan *io.Result {
	// a consumer goroutine per CPU unless configured otherwise
	numConsumers := opts.Workers
	if numConsumers <= 0 {
		numConsumers = runtime.NumCPU()
	}

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, numConsumers*5)
	resultChannel := make(chan *io.Result, numConsumers*5)

	var waitGroup sync.WaitGroup

	// add producer to waitgroup and launch producer goroutine
	waitGroup.Add(1)
	producer := io.NewStandardProducer(files, fmts, opts)
	go producer.Produce(workChannel, resultChannel, &waitGroup)

	// add consumers to waitgroup and launch them
	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		consumer := io.NewStandardConsumer()
		go consumer.Consume(workChannel, resultChannel, &waitGroup)
	}

	// wait for producers and consumers to finish
	go func() {
		waitGroup.Wait()
		close(resultChannel)
	}()

	return resultChannel
}

type column struct {
	format         string
	representation batch.Representation
}

func (c column) header() string {
	if c.representation == batch.OriginBased {
		return c.format + "-origin"
	}
	return c.format
}

type sizeRow struct {
	vertices int
	original int64
	read     bool
	sizes    map[column]int64
}

// sizeReport collects the sizes of written files, one row per input file in input order.
type sizeReport struct {
	files   []string
	columns []column
	rows    map[string]*sizeRow
}

func newSizeReport(files []string, fmts []formats.Format, opts *batch.Options) *sizeReport {
	report := &sizeReport{files: files, rows: make(map[string]*sizeRow, len(files))}
	for _, f := range fmts {
		for _, representation := range []batch.Representation{batch.Absolute, batch.OriginBased} {
			if !opts.WritesRepresentation(representation) || (representation == batch.OriginBased && !f.SupportsOriginBase()) {
				continue
			}
			report.columns = append(report.columns, column{format: f.Name(), representation: representation})
		}
	}
	for _, file := range files {
		report.rows[file] = &sizeRow{sizes: map[column]int64{}}
	}
	return report
}

func (r *sizeReport) numberOfJobs() int {
	return len(r.files) * len(r.columns)
}

func (r *sizeReport) add(result *io.Result) {
	row, ok := r.rows[result.InputPath]
	if !ok || result.Err != nil {
		return
	}
	if result.Format == "" {
		row.vertices, row.original, row.read = result.Vertices, result.Size, true
		return
	}
	row.sizes[column{format: result.Format, representation: result.Representation}] = result.Size
}

// writeFile writes the report as CSV, sizes in KB. Cells of failed jobs stay empty, unreadable
// files are left out.
func (r *sizeReport) writeFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"file", "vertices", "original"}
	for _, c := range r.columns {
		header = append(header, c.header())
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, inputPath := range r.files {
		row := r.rows[inputPath]
		if !row.read {
			continue
		}
		record := []string{filepath.Base(inputPath), fmt.Sprint(row.vertices), tools.FormatKilobytes(row.original)}
		for _, c := range r.columns {
			size, ok := row.sizes[c]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, tools.FormatKilobytes(size))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}
