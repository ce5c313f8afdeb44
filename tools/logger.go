package tools

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

var isEnabled = true
var printTimestamp = false

func EnableLogger() {
	isEnabled = true
}

func DisableLogger() {
	isEnabled = false
}

func EnableLoggerTimestamp() {
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	printTimestamp = false
}

// LogOutput prints user facing progress messages. Messages go to glog as well, so they end up
// in the log files next to the messages of the converters.
func LogOutput(val ...interface{}) {
	if !isEnabled {
		return
	}

	msg := fmt.Sprintln(val...)
	glog.InfoDepth(1, msg)
	if printTimestamp {
		fmt.Print("[" + time.Now().Format("2006-01-02 15.04:05.000") + "] " + msg)
	} else {
		fmt.Print(msg)
	}
}
