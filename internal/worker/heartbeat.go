package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// State is the lifecycle stage of a Heartbeat.
type State int32

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Recorder receives ticks off the loop goroutine, each call bounded by the interval.
// A tick that arrives while a record is still in flight is not recorded.
// Failures are logged and never stop the loop.
type Recorder interface {
	RecordHeartbeat(ctx context.Context, t time.Time) error
}

// TickCounter is incremented once per tick.
type TickCounter interface {
	Inc()
}

// Heartbeat is a background loop that logs a line every interval until cancelled.
// It does no work of its own and serves as the template for periodic tasks.
type Heartbeat struct {
	interval time.Duration
	logger   *zap.Logger
	recorder Recorder
	ticks    TickCounter
	state    atomic.Int32

	recording atomic.Bool
	inflight  sync.WaitGroup
}

func NewHeartbeat(interval time.Duration, logger *zap.Logger) (*Heartbeat, error) {
	if interval <= 0 {
		return nil, errors.New("heartbeat interval must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Heartbeat{interval: interval, logger: logger}, nil
}

// WithRecorder attaches an optional tick recorder. Call before Run.
func (h *Heartbeat) WithRecorder(r Recorder) *Heartbeat {
	h.recorder = r
	return h
}

// WithTickCounter attaches an optional tick counter. Call before Run.
func (h *Heartbeat) WithTickCounter(c TickCounter) *Heartbeat {
	h.ticks = c
	return h
}

func (h *Heartbeat) State() State {
	return State(h.state.Load())
}

// Run blocks until ctx is cancelled and returns nil on a clean stop.
// A Heartbeat runs once; a second Run returns an error.
func (h *Heartbeat) Run(ctx context.Context) error {
	if !h.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return errors.New("heartbeat already started")
	}
	h.logger.Info("heartbeat service started", zap.Duration("interval", h.interval))

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.state.Store(int32(Stopping))
			h.logger.Info("heartbeat service stopping")
			h.inflight.Wait()
			h.state.Store(int32(Stopped))
			h.logger.Info("heartbeat service stopped")
			return nil
		case t := <-ticker.C:
			h.tick(ctx, t)
		}
	}
}

func (h *Heartbeat) tick(ctx context.Context, t time.Time) {
	h.logger.Info("heartbeat", zap.Time("at", t))
	if h.ticks != nil {
		h.ticks.Inc()
	}
	if h.recorder == nil {
		return
	}
	if !h.recording.CompareAndSwap(false, true) {
		h.logger.Debug("previous heartbeat still recording, skipping", zap.Time("at", t))
		return
	}

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer h.recording.Store(false)

		rctx, cancel := context.WithTimeout(ctx, h.interval)
		defer cancel()
		if err := h.recorder.RecordHeartbeat(rctx, t); err != nil && ctx.Err() == nil {
			h.logger.Warn("failed to record heartbeat", zap.Error(err))
		}
	}()
}
