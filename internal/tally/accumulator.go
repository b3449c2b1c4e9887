package tally

import (
	"errors"
	"sync"
	"time"

	"github.com/sentlog/sentlog/internal/model"
)

// ErrSealed is returned once the accumulator has been handed to the exporter.
var ErrSealed = errors.New("tally: accumulator sealed")

// State is the accumulator lifecycle stage.
type State int

const (
	Accumulating State = iota
	Exporting
)

func (s State) String() string {
	switch s {
	case Accumulating:
		return "accumulating"
	case Exporting:
		return "exporting"
	default:
		return "unknown"
	}
}

// Accumulator owns the run's tally. Events are applied one at a time; the
// mutex only keeps concurrent readers (status page, shutdown) memory safe.
type Accumulator struct {
	mu    sync.Mutex
	runID string
	state State
	tally *model.Tally
	now   func() time.Time
}

func NewAccumulator(runID string) *Accumulator {
	return &Accumulator{
		runID: runID,
		tally: model.NewTally(),
		now:   time.Now,
	}
}

// Record applies one outbound message to key.
func (a *Accumulator) Record(key string, at time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Accumulating {
		return ErrSealed
	}
	a.tally.Apply(key, at)
	return nil
}

// Snapshot returns a copy of the current tally.
func (a *Accumulator) Snapshot() *model.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Seal stops accumulation and returns the final snapshot. It succeeds once.
func (a *Accumulator) Seal() (*model.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Accumulating {
		return nil, ErrSealed
	}
	a.state = Exporting
	return a.snapshotLocked(), nil
}

func (a *Accumulator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Accumulator) RunID() string {
	return a.runID
}

func (a *Accumulator) snapshotLocked() *model.Snapshot {
	return &model.Snapshot{
		RunID:   a.runID,
		TakenAt: a.now(),
		Tally:   a.tally.Clone(),
	}
}
