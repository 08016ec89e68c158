package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/slotkit/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("slotkit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
slotkit - Render component templates with slots and fills.

Usage:
  slotkit [options] [TEMPLATE]

Arguments:
  TEMPLATE
    Path to the page template to render. The result is written to stdout.

Options:
`)
		flagSet.PrintDefaults()
	}

	templateFlag := flagSet.String("template", "", "Path to the page template to render.")
	tFlag := flagSet.String("t", "", "Path to the page template to render (shorthand).")
	componentsFlag := flagSet.String("components", "components", "Path to a component manifest or a directory of manifests.")
	contextFlag := flagSet.String("context", "", "Optional .hcl, .json, .jsonc or .yaml file with the root render context.")
	behaviorFlag := flagSet.String("behavior", "", "Context behavior. Options: 'django' or 'isolated'. Overrides the manifest settings.")
	depsFlag := flagSet.String("deps", "", "Deps strategy. Options: 'raw', 'ignore' or 'simple'. Overrides the manifest settings.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *templateFlag != "" {
		path = *templateFlag
	} else if *tFlag != "" {
		path = *tFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Template path determined.", "path", path)

	if path == "" {
		slog.Debug("No template path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		ComponentsPath: *componentsFlag,
		TemplatePath:   path,
		ContextPath:    *contextFlag,
		Behavior:       strings.ToLower(*behaviorFlag),
		Deps:           strings.ToLower(*depsFlag),
		LogFormat:      strings.ToLower(*logFormatFlag),
		LogLevel:       strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
