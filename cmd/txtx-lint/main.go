// Command txtx-lint checks txtx runbooks against the addon catalog, the
// workspace manifest and the lint rules, without running them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
)

// Version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(newApp(afero.NewOsFs())).ExecuteContext(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, errLintFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(1)
}
