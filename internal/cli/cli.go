package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/mwnorman/pluginspi/internal/app"
	"github.com/mwnorman/pluginspi/internal/config"
	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/hcl"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// resourceFlags collects repeated -resource name=expr flags.
type resourceFlags []app.Resource

func (r *resourceFlags) String() string {
	names := make([]string, 0, len(*r))
	for _, res := range *r {
		names = append(names, res.Name)
	}
	return strings.Join(names, ",")
}

// Set parses "name=expr". The expression is an HCL literal (3, true,
// "text", ["a", "b"]); anything that does not parse binds as a plain string.
func (r *resourceFlags) Set(s string) error {
	name, expr, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return errors.New("resource must have the form name=value")
	}

	value, typ, err := hcl.ParseValue(expr)
	if err != nil {
		slog.Debug("Resource value is not an expression, binding it as a string.", "resource", name, "error", err)
		value, typ = expr, reflect.TypeFor[string]()
	}
	*r = append(*r, app.Resource{Name: name, Type: typ, Value: value})
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	env, err := config.Load()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("pluginspi", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
pluginspi - Discover plugins on a search path and run them.

Usage:
  pluginspi [options]

The search path defaults to PLUGINSPI_PATH, a list of directories and archive
bundles (.zip, .jar, .tar, .tar.gz, .tgz, .tar.zst, .tzst) separated like PATH.

Options:
`)
		flagSet.PrintDefaults()
	}

	var resources resourceFlags
	pathFlag := flagSet.String("path", env.Path, "Search path: directories and archive bundles, separated like PATH.")
	markerFlag := flagSet.String("marker", env.Marker, "Marker file name or glob pattern of a declaration unit.")
	contractFlag := flagSet.String("contract", app.ContractHelper, "Contract to find and run. Options: 'helper' or 'notifier'.")
	eventFlag := flagSet.String("event", "plugins", "Event name emitted by notifier plugins.")
	flagSet.Var(&resources, "resource", "Resource binding as name=value, the value an HCL literal. Repeatable.")
	logFormatFlag := flagSet.String("log-format", env.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env.LogLevel, "Set the logging level. Options: 'trace', 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	// An empty value, flag or environment, means the default.
	logFormat := strings.ToLower(strings.TrimSpace(*logFormatFlag))
	if logFormat == "" {
		logFormat = "text"
	}
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(strings.TrimSpace(*logLevelFlag))
	if logLevel == "" {
		logLevel = "info"
	}
	if _, err := ctxlog.ParseLevel(logLevel); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		SearchPath: config.SplitSearchPath(*pathFlag),
		Marker:     *markerFlag,
		Contract:   strings.ToLower(*contractFlag),
		Event:      *eventFlag,
		Resources:  resources,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
