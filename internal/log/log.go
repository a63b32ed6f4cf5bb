// Copyright (c) 2026 The gxwf authors.
// SPDX-License-Identifier: MIT

package log

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// GXWF_LOG env variable.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("GXWF_LOG"))
	if level == "" {
		level = "INFO"
	}
	log.SetHandler(&CustomHandler{})
	log.SetLevelFromString(level)
}

// SetVerbosity raises the log level to debug when --verbose was given on
// the command line.
func SetVerbosity(count int) {
	if count > 0 {
		log.SetLevel(log.DebugLevel)
	}
}

// CustomHandler formats log messages and writes to stdout
type CustomHandler struct{}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())
	message := e.Message
	fmt.Fprintf(os.Stdout, "%s %.1s %s\n", timestamp, level, message)
	return nil
}
