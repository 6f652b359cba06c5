// Package report collects per-attribute query results into the table that is displayed and exported.
package report

import (
	"sync"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/schema"
)

// Table is the ordered set of results for one run, one entry per work item.
type Table []core.QueryResult

// Aggregator collects results as they complete. Safe for concurrent use.
type Aggregator struct {
	mu      sync.Mutex
	results []core.QueryResult
	filled  []bool
	n       int
}

// NewAggregator sizes an aggregator for total work items.
func NewAggregator(total int) *Aggregator {
	return &Aggregator{
		results: make([]core.QueryResult, total),
		filled:  make([]bool, total),
	}
}

// Add stores the result for the work item at index idx (input order).
func (a *Aggregator) Add(idx int, r core.QueryResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx < 0 || idx >= len(a.results) {
		return
	}
	if !a.filled[idx] {
		a.filled[idx] = true
		a.n++
	}
	a.results[idx] = r
}

// Len is the number of results collected so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n
}

// Complete reports whether every work item has a result.
func (a *Aggregator) Complete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n == len(a.results)
}

// Table returns a copy of the collected results in input order.
func (a *Aggregator) Table() Table {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(Table, len(a.results))
	copy(out, a.results)
	return out
}

// Rows renders the table cells in schema.Report column order.
func (t Table) Rows(multiEntity bool) [][]string {
	out := make([][]string, 0, len(t))
	for _, r := range t {
		row := make([]string, 0, 5)
		if multiEntity {
			row = append(row, r.Entity)
		}
		row = append(row, r.Attribute, r.Type.String(), r.CountCell(), r.Sample)
		out = append(out, row)
	}
	return out
}

// WithHeader renders the header row followed by Rows.
func (t Table) WithHeader(multiEntity bool) [][]string {
	return append([][]string{schema.Report(multiEntity).Header()}, t.Rows(multiEntity)...)
}

// Summary aggregates counts over a table.
type Summary struct {
	Total     int
	Populated int
	Empty     int
	Failed    int
	Simple    int
	NonSimple int
}

func Summarize(t Table) Summary {
	s := Summary{Total: len(t)}
	for _, r := range t {
		switch {
		case r.Failed():
			s.Failed++
		case r.Count > 0:
			s.Populated++
		default:
			s.Empty++
		}
		if r.Failed() {
			continue
		}
		if r.Type == core.NonSimple {
			s.NonSimple++
		} else {
			s.Simple++
		}
	}
	return s
}
