package worker

import "sync/atomic"

// Progress counts completed items out of a fixed total. Safe for concurrent use.
type Progress struct {
	total     int64
	completed atomic.Int64
}

func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// Done records one completion and returns the new completed count.
func (p *Progress) Done() int {
	return int(p.completed.Add(1))
}

func (p *Progress) Completed() int {
	return int(p.completed.Load())
}

func (p *Progress) Total() int {
	return int(p.total)
}

// Fraction is completed/total in [0, 1]. An empty run is complete.
func (p *Progress) Fraction() float64 {
	if p.total <= 0 {
		return 1
	}
	return float64(p.completed.Load()) / float64(p.total)
}
