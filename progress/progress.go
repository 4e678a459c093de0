// Package progress simulates the analysis progress bar: a percentage that
// climbs by a fixed increment on every tick, labelled with one of five
// stages, completing at 100.
//
// Tracker holds the state machine and is driven one tick at a time.
// Simulator drives a Tracker from a ticker and honours cancellation.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	DefaultInterval        = 40 * time.Millisecond
	DefaultIncrement       = 0.67
	DefaultCompletionDelay = 500 * time.Millisecond
)

// DefaultStages are shown in order across five equal bands of progress.
var DefaultStages = []string{
	"Detecting facial regions...",
	"Identifying acne markers...",
	"Analyzing severity levels...",
	"Cross-referencing FDA database...",
	"Generating treatment plan...",
}

var (
	ErrAlreadyStarted = errors.New("progress simulation already started")
	ErrCancelled      = errors.New("progress simulation cancelled")
)

type State int

const (
	Idle State = iota
	Running
	Complete
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Config struct {
	Interval        time.Duration
	Increment       float64
	CompletionDelay time.Duration
	Stages          []string
}

func DefaultConfig() Config {
	return Config{
		Interval:        DefaultInterval,
		Increment:       DefaultIncrement,
		CompletionDelay: DefaultCompletionDelay,
		Stages:          DefaultStages,
	}
}

// TicksToComplete is the number of ticks needed to reach 100.
func (c Config) TicksToComplete() int {
	if c.Increment <= 0 {
		return 0
	}
	return int(math.Ceil(100 / c.Increment))
}

// Snapshot is a point-in-time view of a Tracker.
type Snapshot struct {
	State   State   `json:"state"`
	Percent float64 `json:"percent"`
	Stage   string  `json:"stage"`
	Ticks   int     `json:"ticks"`
}

// Tracker is the progress state machine: Idle → Running → Complete, with
// Cancelled reachable from Running and from Complete. Safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	cfg   Config
	state State
	ticks int
}

func NewTracker(cfg Config) *Tracker {
	if len(cfg.Stages) == 0 {
		cfg.Stages = DefaultStages
	}
	return &Tracker{cfg: cfg}
}

// Start moves an idle tracker to Running.
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Idle {
		return ErrAlreadyStarted
	}
	t.state = Running
	return nil
}

// Tick advances a running tracker by one increment. completed is true only
// for the tick that reaches 100; ticks in any other state change nothing.
func (t *Tracker) Tick() (snap Snapshot, completed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return t.snapshotLocked(), false
	}

	t.ticks++
	if t.percentLocked() >= 100 {
		t.state = Complete
		completed = true
	}
	return t.snapshotLocked(), completed
}

// Cancel stops the tracker. It reports whether the state changed.
func (t *Tracker) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Running || t.state == Complete {
		t.state = Cancelled
		return true
	}
	return false
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) percentLocked() float64 {
	return math.Min(100, t.cfg.Increment*float64(t.ticks))
}

func (t *Tracker) snapshotLocked() Snapshot {
	p := t.percentLocked()
	snap := Snapshot{State: t.state, Percent: p, Ticks: t.ticks}
	if t.state != Idle {
		snap.Stage = StageFor(p, t.cfg.Stages)
	}
	return snap
}

// StageFor maps a percentage onto one of len(stages) equal bands.
func StageFor(percent float64, stages []string) string {
	if len(stages) == 0 {
		return ""
	}
	i := int(math.Floor(percent / 100 * float64(len(stages))))
	i = max(0, min(i, len(stages)-1))
	return stages[i]
}

// Simulator runs a Tracker in real time.
type Simulator struct {
	cfg     Config
	tracker *Tracker
	logger  *slog.Logger
}

func NewSimulator(cfg Config, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{cfg: cfg, tracker: NewTracker(cfg), logger: logger}
}

func (s *Simulator) Snapshot() Snapshot {
	return s.tracker.Snapshot()
}

// Run ticks until the tracker completes, waits the completion delay and
// returns nil. onUpdate, if set, sees every tick. When ctx ends first the
// ticker is stopped, the tracker is cancelled and ErrCancelled wrapping
// ctx.Err() is returned;
// no further update is delivered after that. Run may only be called once.
func (s *Simulator) Run(ctx context.Context, onUpdate func(Snapshot)) error {
	if err := s.tracker.Start(); err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.tracker.Cancel()
			s.logger.Debug("progress simulation cancelled", "percent", s.tracker.Snapshot().Percent)
			return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		case <-ticker.C:
			snap, done := s.tracker.Tick()
			if onUpdate != nil {
				onUpdate(snap)
			}
			if !done {
				continue
			}
			ticker.Stop()
			return s.awaitCompletion(ctx)
		}
	}
}

func (s *Simulator) awaitCompletion(ctx context.Context) error {
	timer := time.NewTimer(s.cfg.CompletionDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.tracker.Cancel()
		return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	case <-timer.C:
		return nil
	}
}
