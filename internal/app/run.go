package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shpitdev/syndigo-attribute-checker/internal/config"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/io/local"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/io/workbook"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/resolve"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/worker"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/report"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/syndigo"
)

// SourceKind identifies the upload format.
type SourceKind int

const (
	// SourceFlat is a single-column CSV of attribute names; the entity comes from config.
	SourceFlat SourceKind = iota
	// SourceEAR is an E-A-R model workbook; entities come from the workbook.
	SourceEAR
)

func (k SourceKind) String() string {
	if k == SourceEAR {
		return "ear"
	}
	return "flat"
}

// Source is the uploaded attribute list.
type Source struct {
	Kind SourceKind
	Path string
}

// Deps are optional collaborators. Zero values get sensible defaults.
type Deps struct {
	Logger   *zap.Logger
	Progress ProgressReporter
	// HTTPClient replaces the client built from config (tests).
	HTTPClient *http.Client
	// Dispatcher replaces the Syndigo client entirely (tests).
	Dispatcher core.Processor[core.WorkItem, core.QueryResult]
}

// Result is the outcome of one run.
type Result struct {
	RunID       string
	Config      config.Config
	Items       []core.WorkItem
	Table       report.Table
	MultiEntity bool
	Summary     report.Summary
	Duration    time.Duration
}

// Plan is a resolved, validated run that has not touched the network yet.
type Plan struct {
	Config      config.Config
	Items       []core.WorkItem
	MultiEntity bool
}

// Prepare reads the source, fills in derived configuration and resolves work items.
// Every failure here is a ConfigError and happens before any request is made.
func Prepare(cfg config.Config, src Source) (Plan, error) {
	switch src.Kind {
	case SourceFlat:
		if err := cfg.Validate(true); err != nil {
			return Plan{}, err
		}
		attrs, err := readFlat(src.Path)
		if err != nil {
			return Plan{}, err
		}
		items := resolve.Flat(cfg.Entity, attrs)
		if len(items) == 0 {
			return Plan{}, core.NewConfigError(errors.Newf("%s contains no attribute names", src.Path))
		}
		return Plan{Config: cfg, Items: items}, nil

	case SourceEAR:
		ear, err := readEAR(src.Path)
		if err != nil {
			return Plan{}, err
		}
		cfg = cfg.WithTenant(ear.Tenant)
		if err := cfg.Validate(false); err != nil {
			return Plan{}, err
		}
		items, err := resolve.Relationship(ear.Pairs, cfg.Entity)
		if err != nil {
			return Plan{}, err
		}
		if len(items) == 0 {
			return Plan{}, core.NewConfigError(errors.Newf("%s maps no attributes", src.Path))
		}
		return Plan{Config: cfg, Items: items, MultiEntity: resolve.SelectsAll(cfg.Entity)}, nil

	default:
		return Plan{}, core.NewConfigError(errors.Newf("unknown source kind %d", src.Kind))
	}
}

func readFlat(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewConfigError(errors.Wrap(err, "open attribute CSV"))
	}
	defer func() {
		_ = f.Close()
	}()
	return local.ReadAttributeColumn(f)
}

func readEAR(path string) (workbook.EAR, error) {
	f, err := os.Open(path)
	if err != nil {
		return workbook.EAR{}, core.NewConfigError(errors.Wrap(err, "open E-A-R workbook"))
	}
	defer func() {
		_ = f.Close()
	}()
	return workbook.ReadEAR(f)
}

// Run prepares and executes a run.
func Run(ctx context.Context, cfg config.Config, src Source, deps Deps) (Result, error) {
	plan, err := Prepare(cfg, src)
	if err != nil {
		return Result{}, err
	}
	return Execute(ctx, plan, deps)
}

// Execute dispatches every work item of plan and aggregates the results. Per-item failures are
// recorded in the table; only setup problems and context cancellation fail the run.
func Execute(ctx context.Context, plan Plan, deps Deps) (Result, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := deps.Progress
	if progress == nil {
		progress = NopProgress{}
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	start := time.Now()

	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		client, err := newClient(plan.Config, deps.HTTPClient)
		if err != nil {
			return Result{}, err
		}
		logger.Info("run start",
			append(plan.Config.LogFields(),
				zap.String("endpoint", client.Endpoint()),
				zap.Int("items", len(plan.Items)),
				zap.Bool("multi_entity", plan.MultiEntity),
			)...,
		)
		dispatcher = core.ProcessFunc[core.WorkItem, core.QueryResult](
			func(ctx context.Context, item core.WorkItem) (core.QueryResult, error) {
				return client.Dispatch(ctx, item), nil
			},
		)
	}
	dispatcher = newTracedDispatcher(dispatcher, logger)

	agg := report.NewAggregator(len(plan.Items))
	counter := worker.NewProgress(len(plan.Items))
	progress.Start(len(plan.Items))
	_, err := worker.Run(ctx, plan.Items, dispatcher.Process,
		func(res worker.Result[core.WorkItem, core.QueryResult]) error {
			out := res.Output
			if res.Err != nil {
				// Dispatch never fails; this covers substituted dispatchers.
				out = core.QueryResult{
					Entity:    res.Input.Entity,
					Attribute: res.Input.Attribute,
					Error:     syndigo.ErrorText(res.Err),
				}
			}
			agg.Add(res.Index, out)
			progress.Advance(out, counter.Done(), counter.Total())
			return nil
		},
		plan.Config.WorkerOptions(),
	)
	progress.Stop()
	if err != nil {
		return Result{}, errors.Wrap(err, "dispatch")
	}
	if !agg.Complete() {
		return Result{}, errors.Newf("run incomplete: %d of %d results", agg.Len(), len(plan.Items))
	}

	table := agg.Table()
	summary := report.Summarize(table)
	elapsed := time.Since(start)
	logger.Info("run complete",
		zap.Int("total", summary.Total),
		zap.Int("populated", summary.Populated),
		zap.Int("empty", summary.Empty),
		zap.Int("failed", summary.Failed),
		zap.Int("simple", summary.Simple),
		zap.Int("non_simple", summary.NonSimple),
		zap.Duration("duration", elapsed.Round(time.Millisecond)),
	)

	return Result{
		RunID:       runID,
		Config:      plan.Config,
		Items:       plan.Items,
		Table:       table,
		MultiEntity: plan.MultiEntity,
		Summary:     summary,
		Duration:    elapsed,
	}, nil
}

func newClient(cfg config.Config, hc *http.Client) (*syndigo.Client, error) {
	opts := []syndigo.Option{syndigo.WithTimeout(cfg.RequestTimeout)}
	if cfg.CAFile != "" {
		opts = append(opts, syndigo.WithCAFile(cfg.CAFile))
	}
	if hc != nil {
		opts = append(opts, syndigo.WithHTTPClient(hc))
	}
	client, err := syndigo.NewClient(cfg.Template(), opts...)
	if err != nil {
		return nil, core.NewConfigError(err)
	}
	return client, nil
}
