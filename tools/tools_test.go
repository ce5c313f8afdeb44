package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/geofiles/internal/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "14.2842865755919", FormatFloat(14.2842865755919))
	assert.Equal(t, "0.1", FormatFloat(0.1))
	assert.Equal(t, "-0.5", FormatFloat(-0.5))
	assert.Equal(t, "280", FormatFloat(280))
	assert.Equal(t, "1 -2.5 0", FormatPoint([]float64{1, -2.5, 0}, " "))
}

func TestFormatKilobytes(t *testing.T) {
	assert.Equal(t, "1.00", FormatKilobytes(1024))
	assert.Equal(t, "0.50", FormatKilobytes(512))
	assert.Equal(t, "0.00", FormatKilobytes(0))
	assert.Equal(t, "1.21", FormatKilobytes(1234))
}

func TestIsClose(t *testing.T) {
	assert.True(t, IsClose(1, 1.0000001, 1e-6))
	assert.False(t, IsClose(1, 1.00001, 1e-6))
	assert.True(t, IsClose(0, 0, 1e-6))
	assert.False(t, IsClose(0, 1e-12, 1e-6))
}

func TestParseFloatList(t *testing.T) {
	values, err := ParseFloatList(" 14.28, 48.3 ,279.8")
	require.NoError(t, err)
	assert.Equal(t, []float64{14.28, 48.3, 279.8}, values)

	values, err = ParseFloatList("")
	require.NoError(t, err)
	assert.Nil(t, values)

	_, err = ParseFloatList("1,,2")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"geoobj", "geostl"}, SplitList("geoobj, ,geostl,"))
	assert.Nil(t, SplitList(""))
}

func TestParseFlagsForCommandConvert(t *testing.T) {
	flags := ParseFlagsForCommandConvert([]string{"-i", "cube.obj", "-o", "out", "-format", "geooff", "-r", "-crs", "urn:ogc:def:crs:OGC:2:84", "-origin", "1,2,3"})
	assert.Equal(t, "cube.obj", *flags.Input)
	assert.Equal(t, "out", *flags.Output)
	assert.Equal(t, "geooff", *flags.Format)
	assert.True(t, *flags.OriginBased)
	assert.True(t, *flags.AlwaysXY)
	assert.Equal(t, "1,2,3", *flags.Origin)
	assert.False(t, *flags.Transform)
}

func TestParseFlagsForCommandCompare(t *testing.T) {
	flags := ParseFlagsForCommandCompare([]string{"-input", "models", "-w", "2"}, "crs", "1,2,3")
	assert.Equal(t, "models", *flags.Input)
	assert.Equal(t, 2, *flags.Workers)
	assert.Equal(t, "crs", *flags.Crs)
	assert.Equal(t, "1,2,3", *flags.Origin)
	assert.Equal(t, "absolute,origin", *flags.Representations)
}

func TestGetMeshFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.obj", "a.GEOOBJ", "notes.txt", filepath.Join("nested", "c.obj")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
		require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\n"), 0644))
	}

	finder := NewStandardFileFinder()

	files, err := finder.GetMeshFilesToProcess(&batch.Options{Input: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.GEOOBJ"), filepath.Join(dir, "b.obj")}, files)

	files, err = finder.GetMeshFilesToProcess(&batch.Options{Input: dir, Recursive: true})
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = finder.GetMeshFilesToProcess(&batch.Options{Input: filepath.Join(dir, "notes.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, files)

	_, err = finder.GetMeshFilesToProcess(&batch.Options{Input: filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestFileHelpers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, CreateDirectoryIfDoesNotExist(dir))
	require.NoError(t, CreateDirectoryIfDoesNotExist(dir))

	path := filepath.Join(dir, "cube.obj")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0644))
	size, err := FileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(100), size)

	assert.Equal(t, "cube", FilenameWithoutExtension(path))
	assert.Equal(t, "cube.obj", FilenameWithoutExtension("cube.obj.geoobj"))
}
