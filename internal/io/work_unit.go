package io

import (
	"github.com/ecopia-map/geofiles/internal/batch"
	"github.com/ecopia-map/geofiles/internal/formats"
	"github.com/ecopia-map/geofiles/internal/mesh"
)

// Contains the data needed to write a single mesh in a single format
type WorkUnit struct {
	InputPath      string
	Data           *mesh.File
	Format         formats.Format
	Representation batch.Representation
	// OutputPath is completed by the extension of Format
	OutputPath string
}

// Result reports the outcome of a WorkUnit. A Result with an empty Format describes the input
// file itself.
type Result struct {
	InputPath      string
	Format         string
	Representation batch.Representation
	Vertices       int
	Path           string
	Size           int64
	Err            error
}
