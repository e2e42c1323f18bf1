package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/sensor"
)

// Transition describes one applied message.
type Transition struct {
	Msg     Msg
	Prev    State
	Next    State
	Effects []Effect
}

// EngineConfig configures a headless Engine.
type EngineConfig struct {
	Options   Options
	Rand      Rand
	Scanner   device.Scanner
	Connector device.Connector

	// Fetcher is required when Options.SensorsEnabled is set.
	Fetcher sensor.Fetcher

	// FetchTimeout bounds a single sensor fetch. Defaults to
	// Options.Interval, so a hung request fails within its own cycle.
	FetchTimeout time.Duration

	Logger logger.Logger

	// Now stamps fetch results. Defaults to time.Now.
	Now func() time.Time

	// OnTransition runs on the engine goroutine after every message.
	// It must not block.
	OnTransition func(Transition)
}

// Engine drives the reducer without a UI. Messages are applied one at a
// time on the goroutine calling Run; scans, connects, timers and fetches run
// elsewhere and post their results back.
type Engine struct {
	reducer      *Reducer
	scanner      device.Scanner
	connector    device.Connector
	fetcher      sensor.Fetcher
	fetchTimeout time.Duration
	log          logger.Logger
	now          func() time.Time
	onTransition func(Transition)
	runID        string

	msgs chan Msg

	mu    sync.RWMutex
	state State

	timer    *time.Timer
	timerGen uint64
	workers  sync.WaitGroup
}

// NewEngine creates an engine in the initial disconnected state.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Scanner == nil {
		cfg.Scanner = device.NewMockScanner(device.DefaultScanDelay)
	}
	if cfg.Connector == nil {
		cfg.Connector = device.NewMockConnector(device.DefaultConnectDelay)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Noop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Fetcher == nil {
		cfg.Options.SensorsEnabled = false
	}

	r := NewReducer(cfg.Options, cfg.Rand)
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = r.Options().Interval
	}
	return &Engine{
		reducer:      r,
		scanner:      cfg.Scanner,
		connector:    cfg.Connector,
		fetcher:      cfg.Fetcher,
		fetchTimeout: cfg.FetchTimeout,
		log:          cfg.Logger,
		now:          cfg.Now,
		onTransition: cfg.OnTransition,
		runID:        uuid.NewString(),
		msgs:         make(chan Msg, 16),
		state:        NewState(r.Options()),
	}
}

// RunID identifies this engine run in logs and output.
func (e *Engine) RunID() string {
	return e.runID
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Send queues msg for the engine loop.
func (e *Engine) Send(ctx context.Context, msg Msg) error {
	select {
	case e.msgs <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run applies queued messages until ctx is done. Cancellation is a normal
// shutdown and returns nil. Run waits for outstanding scan, connect and
// fetch goroutines before returning.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Debug("engine %s started", e.runID)
	defer func() {
		e.stopTimer()
		e.workers.Wait()
		e.log.Debug("engine %s stopped", e.runID)
	}()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case msg := <-e.msgs:
			e.apply(ctx, msg)
		}
	}
}

func (e *Engine) apply(ctx context.Context, msg Msg) {
	prev := e.State()
	next, effects := e.reducer.Reduce(prev, msg)

	e.mu.Lock()
	e.state = next
	e.mu.Unlock()

	if next.TickGen != e.timerGen {
		e.stopTimer()
	}

	if e.onTransition != nil {
		e.onTransition(Transition{Msg: msg, Prev: prev, Next: next, Effects: effects})
	}

	for _, eff := range effects {
		e.perform(ctx, eff)
	}
}

func (e *Engine) perform(ctx context.Context, eff Effect) {
	switch eff := eff.(type) {
	case RunScan:
		e.spawn(func() {
			devices, err := e.scanner.Scan(ctx)
			if err != nil {
				e.log.Debug("scan aborted: %v", err)
				return
			}
			e.post(ctx, DevicesFound{Devices: devices})
		})

	case RunConnect:
		e.spawn(func() {
			if err := e.connector.Connect(ctx, eff.Device); err != nil {
				e.log.Debug("connect to %s aborted: %v", eff.Device.ID, err)
				return
			}
			e.post(ctx, Paired{DeviceID: eff.Device.ID})
		})

	case ScheduleTick:
		e.stopTimer()
		gen := eff.Gen
		e.timerGen = gen
		e.timer = time.AfterFunc(eff.Delay, func() {
			e.post(ctx, Tick{Gen: gen})
		})

	case FetchSensors:
		seq := eff.Seq
		e.spawn(func() {
			if e.fetcher == nil {
				e.post(ctx, FetchFailed{Seq: seq, Err: errors.New("no sensor fetcher configured")})
				return
			}
			fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
			defer cancel()
			reading, err := e.fetcher.Fetch(fetchCtx)
			if err != nil {
				e.log.Warn("sensor fetch %d failed: %v", seq, err)
				e.post(ctx, FetchFailed{Seq: seq, Err: err})
				return
			}
			e.post(ctx, FetchSucceeded{Seq: seq, Reading: reading, At: e.now()})
		})

	case PromptAlert:
		e.log.Warn("drowning alert: water movement %d%% above threshold %d%%", eff.Value, eff.Threshold)

	case Notify:
		e.log.Info("%s", eff.Text)
	}
}

func (e *Engine) spawn(fn func()) {
	e.workers.Add(1)
	go func() {
		defer e.workers.Done()
		fn()
	}()
}

// post delivers msg from a worker goroutine, giving up when ctx is done.
func (e *Engine) post(ctx context.Context, msg Msg) {
	select {
	case e.msgs <- msg:
	case <-ctx.Done():
	}
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
