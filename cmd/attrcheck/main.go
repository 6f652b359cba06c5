package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/redact"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to an exit code:
// 2 for configuration and usage problems, 1 for any other failure.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var cfgErr *core.ConfigError
	var usage *usageError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &usage):
		_, _ = fmt.Fprintf(stderr, "config error: %s\n", redact.Secrets(err.Error()))
		printHints(stderr, err)
		return 2
	default:
		_, _ = fmt.Fprintf(stderr, "run failed: %s\n", redact.Secrets(err.Error()))
		printHints(stderr, err)
		return 1
	}
}

func printHints(w io.Writer, err error) {
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			_, _ = fmt.Fprintf(w, "hint: %s\n", hint)
		}
	}
}

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }
