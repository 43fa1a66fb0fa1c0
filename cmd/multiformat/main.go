// Command multiformat edits multi-format design documents from the command
// line: it analyses anchoring, links and edits elements across canvas sizes,
// runs layout scripts and renders previews.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"multiformat/pkg/observability"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	err := newRootCmd().Execute()
	observability.Sync()
	if err != nil {
		if logger := observability.GetLogger(); logger.Core().Enabled(zap.ErrorLevel) {
			logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
