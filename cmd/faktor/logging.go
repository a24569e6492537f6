package main

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// setupLogger installs the default logger used by every package. Unknown
// levels fall back to warn.
func setupLogger(level string, w io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Warn
	}
	l := hclog.New(&hclog.LoggerOptions{
		Name:       "faktor",
		Level:      lvl,
		Output:     w,
		JSONFormat: flagJSON,
	})
	hclog.SetDefault(l)
	return l
}
