package app

import (
	"io"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
)

// ProgressReporter receives one call per completed work item, always from the same goroutine.
type ProgressReporter interface {
	Start(total int)
	Advance(res core.QueryResult, completed, total int)
	Stop()
}

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Start(int) {}

func (NopProgress) Advance(core.QueryResult, int, int) {}

func (NopProgress) Stop() {}

// BarProgress draws a terminal progress bar.
type BarProgress struct {
	Writer io.Writer

	bar *pterm.ProgressbarPrinter
}

func (p *BarProgress) Start(total int) {
	printer := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Processing attributes").
		WithRemoveWhenDone(false)
	if p.Writer != nil {
		printer = printer.WithWriter(p.Writer)
	}
	bar, err := printer.Start()
	if err != nil {
		return
	}
	p.bar = bar
}

func (p *BarProgress) Advance(res core.QueryResult, completed, total int) {
	if p.bar == nil {
		return
	}
	p.bar.UpdateTitle(res.Attribute)
	p.bar.Increment()
}

func (p *BarProgress) Stop() {
	if p.bar == nil {
		return
	}
	_, _ = p.bar.Stop()
	p.bar = nil
}

// LogProgress reports "Processed i/n attributes" through the logger, at most once per
// Interval. The first and last completions are always logged.
type LogProgress struct {
	Logger   *zap.Logger
	Interval time.Duration

	sometimes *rate.Sometimes
}

func (p *LogProgress) Start(total int) {
	interval := p.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	p.sometimes = &rate.Sometimes{First: 1, Interval: interval}
}

func (p *LogProgress) Advance(res core.QueryResult, completed, total int) {
	logLine := func() {
		p.Logger.Info("progress",
			zap.Int("completed", completed),
			zap.Int("total", total),
			zap.String("last_attribute", res.Attribute),
		)
	}
	if completed == total {
		logLine()
		return
	}
	if p.sometimes == nil {
		p.Start(total)
	}
	p.sometimes.Do(logLine)
}

func (p *LogProgress) Stop() {}
