package main

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shpitdev/syndigo-attribute-checker/internal/app"
	"github.com/shpitdev/syndigo-attribute-checker/internal/config"
	"github.com/shpitdev/syndigo-attribute-checker/internal/logging"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/worker"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/syndigo"
)

// cli holds per-invocation state shared by the subcommands.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper

	profile    string
	output     string
	format     string
	logJSON    bool
	verbose    bool
	noProgress bool
}

// configFlags maps flag names onto config keys.
var configFlags = map[string]string{
	"tenant":          config.KeyTenant,
	"entity":          config.KeyEntity,
	"user-id":         config.KeyUserID,
	"client-id":       config.KeyClientID,
	"client-secret":   config.KeyClientSecret,
	"base-url":        config.KeyBaseURL,
	"ca-file":         config.KeyCAFile,
	"mode":            config.KeyMode,
	"workers":         config.KeyWorkers,
	"request-timeout": config.KeyRequestTimeout,
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr, v: config.NewViper()}

	root := &cobra.Command{
		Use:   "attrcheck",
		Short: "Count how many Syndigo entities carry a value for each attribute",
		Long: `attrcheck queries the Syndigo entity service once per attribute and reports,
for each attribute, how many entities have a value, whether the attribute is
simple or grouped (Non-Simple), and one sample value.

Attributes come either from a single-column CSV (flat) or from the
E-A-R MODEL sheet of an entity/attribute relationship workbook (ear).

Every flag can also be set as ATTRCHECK_<NAME> in the environment
(e.g. ATTRCHECK_CLIENT_SECRET) or in a --config profile file.`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.String("tenant", "", "Syndigo tenant, e.g. acmeds for acmeds.syndigo.com (ear: defaults to METADATA!B2)")
	pf.String("entity", "", `Entity type to query (flat: required; ear: one entity or "all")`)
	pf.String("user-id", syndigo.DefaultUserID, "Value of the x-rdp-userId header")
	pf.String("client-id", "", "auth-client-id credential")
	pf.String("client-secret", "", "auth-client-secret credential")
	pf.String("base-url", "", "Override the tenant URL (mock servers, proxies)")
	pf.String("ca-file", "", "Extra PEM CA bundle to trust")
	pf.String("mode", string(worker.ModeParallel), "Dispatch mode: sequential or parallel")
	pf.Int("workers", worker.DefaultWorkers, "Concurrent requests in parallel mode")
	pf.Duration("request-timeout", time.Duration(0), "Per-request timeout, 0 disables")
	for name, key := range configFlags {
		if err := c.v.BindPFlag(key, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}

	pf.StringVar(&c.profile, "config", "", "YAML/TOML/JSON profile with default settings")
	pf.StringVarP(&c.output, "output", "o", "", "Write the report to this .csv or .xlsx file")
	pf.StringVar(&c.format, "format", "", "Report format (csv or xlsx); defaults to the --output extension")
	pf.BoolVar(&c.logJSON, "log-json", false, "Log JSON lines to stderr")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Log every request")
	pf.BoolVar(&c.noProgress, "no-progress", false, "Disable the progress bar")

	root.AddCommand(newFlatCmd(c), newEARCmd(c), newVersionCmd(c))
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &usageError{err: errors.Newf("unexpected argument %q for %q", args[0], cmd.CommandPath())}
	}
	return nil
}

// config merges the profile file into the flag/env layers and loads the run configuration.
func (c *cli) config() (config.Config, error) {
	if err := config.ReadProfile(c.v, c.profile); err != nil {
		return config.Config{}, err
	}
	return config.Load(c.v)
}

func (c *cli) logger() (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{JSON: c.logJSON, Verbose: c.verbose})
	if err != nil {
		return nil, core.NewConfigError(errors.Wrap(err, "build logger"))
	}
	return logger, nil
}

func (c *cli) progress(logger *zap.Logger) app.ProgressReporter {
	switch {
	case c.noProgress:
		return app.NopProgress{}
	case c.logJSON:
		return &app.LogProgress{Logger: logger}
	default:
		return &app.BarProgress{Writer: c.stderr}
	}
}

// wantsExport reports whether the report should be written to a file.
func (c *cli) wantsExport() bool {
	return c.output != "" || c.format != ""
}
