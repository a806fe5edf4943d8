package logger

import (
	"log"
	"os"
)

// New returns a printf-style logger for code that runs before the structured
// logger is configured (config loading, flag parsing).
func New(component string) *log.Logger {
	return log.New(os.Stderr, "goalwatcher "+component+": ", log.LstdFlags|log.Lmsgprefix)
}
