package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shpitdev/syndigo-attribute-checker/internal/app"
	"github.com/shpitdev/syndigo-attribute-checker/internal/version"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
)

func newFlatCmd(c *cli) *cobra.Command {
	var attributes string
	cmd := &cobra.Command{
		Use:   "flat",
		Short: "Check attributes listed in a single-column CSV against one entity",
		Example: `  attrcheck flat --attributes attrs.csv --entity finishedgood \
    --tenant acmeds --client-id "$ID" --client-secret "$SECRET" -o counts.xlsx`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if attributes == "" {
				return core.NewConfigError(errors.New("flat requires --attributes"))
			}
			return c.execute(cmd, app.Source{Kind: app.SourceFlat, Path: attributes})
		},
	}
	cmd.Flags().StringVarP(&attributes, "attributes", "a", "", "CSV file with one column of attribute names (header row first)")
	return cmd
}

func newEARCmd(c *cli) *cobra.Command {
	var workbookPath string
	cmd := &cobra.Command{
		Use:   "ear",
		Short: "Check attributes mapped in an E-A-R model workbook",
		Long: `ear reads the ENTITY and MAPPED ATTRIBUTE columns of the "E-A-R MODEL" sheet and
the tenant from METADATA!B2. --entity selects one entity; "all" (the default)
queries every entity in the workbook and adds an Entity column to the report.`,
		Example: `  attrcheck ear --workbook model.xlsx --entity all --client-id "$ID" --client-secret "$SECRET"`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if workbookPath == "" {
				return core.NewConfigError(errors.New("ear requires --workbook"))
			}
			return c.execute(cmd, app.Source{Kind: app.SourceEAR, Path: workbookPath})
		},
	}
	cmd.Flags().StringVarP(&workbookPath, "workbook", "w", "", "E-A-R model workbook (.xlsx)")
	return cmd
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(c.stdout, version.String("attrcheck"))
			return err
		},
	}
}

// execute runs one check end to end: configuration, dispatch, table, optional export.
func (c *cli) execute(cmd *cobra.Command, src app.Source) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	logger, err := c.logger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	plan, err := app.Prepare(cfg, src)
	if err != nil {
		return err
	}
	res, err := app.Execute(cmd.Context(), plan, app.Deps{
		Logger:   logger.With(zap.String("source", src.Kind.String())),
		Progress: c.progress(logger),
	})
	if err != nil {
		return err
	}

	if err := app.RenderTable(c.stdout, res.Table, res.MultiEntity); err != nil {
		return err
	}
	if !c.wantsExport() {
		return nil
	}
	path, err := app.Export(c.output, c.format, res.Table, res.MultiEntity)
	if err != nil {
		return errors.Wrap(err, "export report")
	}
	logger.Info("report written", zap.String("path", path), zap.String("run_id", res.RunID))
	return nil
}
