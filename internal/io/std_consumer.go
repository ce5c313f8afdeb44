package io

import (
	"path/filepath"
	"sync"

	"github.com/ecopia-map/geofiles/internal/formats"
	"github.com/ecopia-map/geofiles/tools"
	"github.com/golang/glog"
)

type StandardConsumer struct{}

func NewStandardConsumer() *StandardConsumer {
	return &StandardConsumer{}
}

// Continually consumes WorkUnits submitted to a work channel writing the corresponding mesh files.
// Continues working until the work channel is closed, the outcome of every unit, failed or not, is
// submitted to the results channel.
func (c *StandardConsumer) Consume(work <-chan *WorkUnit, results chan<- *Result, wg *sync.WaitGroup) {
	defer wg.Done()

	for workUnit := range work {
		results <- c.doWork(workUnit)
	}
}

// Takes a WorkUnit and writes its mesh in its format
func (c *StandardConsumer) doWork(workUnit *WorkUnit) *Result {
	result := &Result{
		InputPath:      workUnit.InputPath,
		Format:         workUnit.Format.Name(),
		Representation: workUnit.Representation,
		Vertices:       len(workUnit.Data.Vertices),
	}

	// Create base folder if it does not exist
	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(workUnit.OutputPath)); err != nil {
		result.Err = err
		return result
	}

	path, err := formats.WriteFile(workUnit.Format, workUnit.OutputPath, workUnit.Data)
	if err != nil {
		glog.Warningf("writing %s failed: %v", workUnit.OutputPath, err)
		result.Err = err
		return result
	}
	result.Path = path

	result.Size, result.Err = tools.FileSize(path)
	return result
}
