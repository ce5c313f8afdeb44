package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecopia-map/geofiles/internal/batch"
)

// MeshExtensions are the extensions of the files picked up by the compare command.
var MeshExtensions = []string{".obj", ".geoobj"}

type FileFinder interface {
	GetMeshFilesToProcess(opts *batch.Options) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

// GetMeshFilesToProcess returns the input file itself or, for an input folder, the mesh files in
// it, descending into subfolders only if Recursive is set. Files are sorted by path.
func (f *StandardFileFinder) GetMeshFilesToProcess(opts *batch.Options) ([]string, error) {
	baseInfo, err := os.Stat(opts.Input)
	if err != nil {
		return nil, err
	}
	if !baseInfo.IsDir() {
		return []string{opts.Input}, nil
	}

	var meshFiles = make([]string, 0)
	err = filepath.Walk(
		opts.Input,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !opts.Recursive && !os.SameFile(info, baseInfo) {
				return filepath.SkipDir
			} else if !info.IsDir() && isMeshFile(info.Name()) {
				meshFiles = append(meshFiles, path)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	sort.Strings(meshFiles)
	return meshFiles, nil
}

func isMeshFile(name string) bool {
	extension := strings.ToLower(filepath.Ext(name))
	for _, e := range MeshExtensions {
		if e == extension {
			return true
		}
	}
	return false
}
