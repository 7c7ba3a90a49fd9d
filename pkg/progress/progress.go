// Package progress tracks completed rows across concurrent workers.
package progress

import "sync/atomic"

// ReportEvery bounds how often the report callback fires.
const ReportEvery = 10

// ReportFunc observes progress. It may be called from several goroutines.
type ReportFunc func(completed, total int)

// Aggregator is a row counter shared by the workers of one strategy run.
// The counter never decreases and never exceeds the total.
type Aggregator struct {
	total     int
	completed atomic.Int64
	report    ReportFunc
}

// New returns an Aggregator for total rows. report may be nil.
func New(total int, report ReportFunc) *Aggregator {
	if total < 0 {
		total = 0
	}
	return &Aggregator{total: total, report: report}
}

func (a *Aggregator) Total() int {
	return a.total
}

// Increment adds n completed rows and reports when a multiple of
// ReportEvery is crossed.
func (a *Aggregator) Increment(n int) {
	if a == nil || n <= 0 {
		return
	}
	limit := int64(a.total)
	for {
		old := a.completed.Load()
		next := min(old+int64(n), limit)
		if next == old {
			return
		}
		if a.completed.CompareAndSwap(old, next) {
			if a.report != nil && next/ReportEvery != old/ReportEvery {
				a.report(int(next), a.total)
			}
			return
		}
	}
}

// Snapshot returns the number of completed rows.
func (a *Aggregator) Snapshot() int {
	if a == nil {
		return 0
	}
	return int(a.completed.Load())
}

// Finish marks every row complete and reports the final total.
func (a *Aggregator) Finish() {
	if a == nil {
		return
	}
	a.completed.Store(int64(a.total))
	if a.report != nil {
		a.report(a.total, a.total)
	}
}
