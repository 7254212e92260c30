// Package profiler - Operation timing for the evaluation loop.
package profiler

import (
	"log/slog"
	"sort"
	"time"
)

// TimeTracker tracks timing statistics of one named operation.
type TimeTracker struct {
	Name      string
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
	Count     int64
}

// Average returns the mean duration, zero when nothing was recorded.
func (t TimeTracker) Average() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.TotalTime / time.Duration(t.Count)
}

// Profiler collects operation timings. It is not safe for concurrent use;
// the evaluation loop is single threaded.
type Profiler struct {
	startTime  time.Time
	operations map[string]*TimeTracker
	now        func() time.Time
}

// New creates a profiler whose clock starts now.
func New() *Profiler {
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *Profiler {
	return &Profiler{
		startTime:  now(),
		operations: make(map[string]*TimeTracker),
		now:        now,
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track.
//
// Returns:
// - A function to call when the operation completes.
//
// @example
// stop := p.StartOperation("load")
// gt, err := decoder.Decode(path)
// stop()
func (p *Profiler) StartOperation(name string) func() {
	start := p.now()
	return func() {
		p.Record(name, p.now().Sub(start))
	}
}

// Record adds one duration sample for an operation.
func (p *Profiler) Record(name string, d time.Duration) {
	t, ok := p.operations[name]
	if !ok {
		t = &TimeTracker{Name: name, MinTime: d, MaxTime: d}
		p.operations[name] = t
	}
	t.TotalTime += d
	t.Count++
	if d < t.MinTime {
		t.MinTime = d
	}
	if d > t.MaxTime {
		t.MaxTime = d
	}
}

// Operations returns a snapshot of every tracker, sorted by name.
func (p *Profiler) Operations() []TimeTracker {
	out := make([]TimeTracker, 0, len(p.operations))
	for _, t := range p.operations {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Elapsed returns the time since the profiler was created.
func (p *Profiler) Elapsed() time.Duration {
	return p.now().Sub(p.startTime)
}

// Log writes one debug record per operation.
func (p *Profiler) Log(logger *slog.Logger) {
	for _, t := range p.Operations() {
		logger.Debug("operation timing",
			slog.String("operation", t.Name),
			slog.Int64("count", t.Count),
			slog.Duration("total", t.TotalTime),
			slog.Duration("avg", t.Average()),
			slog.Duration("min", t.MinTime),
			slog.Duration("max", t.MaxTime),
		)
	}
	logger.Debug("evaluation elapsed", slog.Duration("elapsed", p.Elapsed()))
}
