// Package formats reads and writes the geo-referenced mesh file formats.
package formats

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ecopia-map/geofiles/internal/mesh"
	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
)

var (
	ErrUnknownFormat   = errors.New("unknown file format")
	ErrMalformed       = errors.New("malformed file")
	ErrSingleObject    = errors.New("format can represent only one object, minimize the data")
	ErrNotTriangulated = errors.New("format supports triangles only")
	ErrNotSupported    = errors.New("information not supported by format")
)

// Format is a reader and writer of one file format.
type Format interface {
	Name() string
	Read(r io.Reader) (*mesh.File, error)
	Write(w io.Writer, f *mesh.File) error
	// FileExtension includes the leading dot.
	FileExtension() string
	SupportsOriginBase() bool
}

// All returns every supported format.
func All() []Format {
	return []Format{NewGeoObj(), NewGeoOff(), NewGeoStl(), NewGeoPly()}
}

// ByName finds a format by name or file extension, ignoring case.
func ByName(name string) (Format, error) {
	normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	if normalized == "obj" {
		normalized = "geoobj"
	}
	if normalized == "off" {
		normalized = "geooff"
	}
	if normalized == "stl" {
		normalized = "geostl"
	}
	if normalized == "ply" {
		normalized = "geoply"
	}

	format, ok := lo.Find(All(), func(f Format) bool { return f.Name() == normalized })
	if !ok {
		return nil, pkgerrors.Wrapf(ErrUnknownFormat, "%q", name)
	}
	return format, nil
}

// ForPath picks the format from the extension of path.
func ForPath(path string) (Format, error) {
	return ByName(filepath.Ext(path))
}

func ReadFile(format Format, path string) (*mesh.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := format.Read(bufio.NewReader(file))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// WriteFile writes data to path, appending the extension of the format when path lacks it.
// It returns the path actually written.
func WriteFile(format Format, path string, data *mesh.File) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), format.FileExtension()) {
		path += format.FileExtension()
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	w := bufio.NewWriter(file)
	err = format.Write(w, data)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		file.Close()
		os.Remove(path)
		return "", pkgerrors.Wrapf(err, "writing %s", path)
	}
	return path, file.Close()
}

type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &lineReader{scanner: scanner}
}

// next returns the next line without surrounding whitespace.
func (l *lineReader) next() (string, bool) {
	if !l.scanner.Scan() {
		return "", false
	}
	l.line++
	return strings.TrimSpace(l.scanner.Text()), true
}

// nextContent skips empty lines and comments.
func (l *lineReader) nextContent() (string, bool) {
	for {
		line, ok := l.next()
		if !ok {
			return "", false
		}
		if line != "" && !strings.HasPrefix(line, "#") {
			return line, true
		}
	}
}

func (l *lineReader) err() error {
	return l.scanner.Err()
}

func (l *lineReader) errorf(format string, args ...interface{}) error {
	return pkgerrors.Wrapf(ErrMalformed, "line %d: "+format, append([]interface{}{l.line}, args...)...)
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
