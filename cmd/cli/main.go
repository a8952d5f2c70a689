// Command pluginspi discovers plugins on a search path and runs the ones that
// serve the requested contract.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mwnorman/pluginspi/internal/app"
	"github.com/mwnorman/pluginspi/internal/cli"
	"github.com/mwnorman/pluginspi/internal/ctxlog"
)

func main() {
	// Parsing logs through the default logger before the configured one exists.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: ctxlog.ReplaceLevel,
	})))

	os.Exit(exitCode(os.Stderr, run(context.Background(), os.Stdout, os.Args[1:])))
}

// exitCode reports err on errW and returns the process status for it: the
// code carried by a *cli.ExitError, 1 for any other error, 0 for none.
func exitCode(errW io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(errW, err)
	return 1
}

func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil || shouldExit {
		return err
	}

	// Module registration panics on programmer errors such as a namespace
	// defined twice; report those as a startup failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	return app.NewApp(outW, appConfig).Run(ctx)
}
