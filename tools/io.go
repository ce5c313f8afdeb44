package tools

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/golang/glog"
)

// WorkdirEnv overrides the folder holding the assets directory.
const WorkdirEnv = "GEOFILES_WORKDIR"

// GetRootFolder returns the folder the assets directory is looked up in: WorkdirEnv if set, the
// module root when running tests, the folder of the executable otherwise.
func GetRootFolder() string {
	if workdir := os.Getenv(WorkdirEnv); workdir != "" {
		return workdir
	}

	if isTestBinary(os.Args[0]) {
		_, self, _, _ := runtime.Caller(0)
		return filepath.Dir(filepath.Dir(self))
	}

	executable, err := os.Executable()
	if err != nil {
		glog.Fatal("cannot retrieve executable directory: ", err)
	}
	return filepath.Dir(executable)
}

func isTestBinary(name string) bool {
	return strings.HasSuffix(name, ".test") || strings.HasSuffix(name, ".test.exe")
}

func CreateDirectoryIfDoesNotExist(directory string) error {
	_, err := os.Stat(directory)
	if err == nil || !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(directory, 0755)
}

func FileSize(filePath string) (int64, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FilenameWithoutExtension returns the base name of filePath without its extension.
func FilenameWithoutExtension(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
