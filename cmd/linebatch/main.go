// Command linebatch configures counting lines for every video in a directory
// and then runs the analyzer over each configured video.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	app := &commandContext{}
	err := newRootCommand(app).ExecuteContext(context.Background())
	app.close()
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "linebatch: %v\n", err)
		}
		os.Exit(1)
	}
}
