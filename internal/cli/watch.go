package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hydroguard/hydroguard/internal/config"
	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/session"
	"github.com/hydroguard/hydroguard/internal/ui"
	"github.com/hydroguard/hydroguard/internal/util"
)

// AlertExitCode is returned by watch --fail-on-alert when the alert fires.
const AlertExitCode = 2

// WatchOptions controls a headless monitoring run.
type WatchOptions struct {
	// Device to connect to. Empty picks the first device the scan lists.
	Device string
	// Ticks stops the run after this many samples. Zero runs until cancelled.
	Ticks int
	// FailOnAlert ends the run with AlertExitCode on the first alert.
	FailOnAlert bool
	// JSON writes one event object per line instead of text.
	JSON bool
}

// WatchSummary is what a finished run reports.
type WatchSummary struct {
	RunID       string `json:"run_id"`
	Device      string `json:"device,omitempty"`
	Ticks       int    `json:"ticks"`
	Alerts      int    `json:"alerts"`
	Readings    int    `json:"readings"`
	FetchErrors int    `json:"fetch_errors"`
}

// WatchEvent is one line of `watch --json` output.
type WatchEvent struct {
	Type        string    `json:"type"`
	RunID       string    `json:"run_id"`
	Time        time.Time `json:"time"`
	Device      string    `json:"device,omitempty"`
	Tick        int       `json:"tick,omitempty"`
	Movement    *int      `json:"movement,omitempty"`
	Threshold   *int      `json:"threshold,omitempty"`
	HeartRate   *float64  `json:"heart_rate,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	Error       string    `json:"error,omitempty"`
	Count       int       `json:"count,omitempty"`
}

// watchDeps are the collaborators a run needs; tests swap in fakes.
type watchDeps struct {
	Rand      session.Rand
	Scanner   device.Scanner
	Connector device.Connector
	Fetcher   sensor.Fetcher
	Logger    logger.Logger
	Now       func() time.Time
}

// depsFromConfig wires the real collaborators for cfg.
func depsFromConfig(cfg *config.Config, log logger.Logger) watchDeps {
	deps := watchDeps{
		Scanner:   device.NewMockScanner(cfg.Discovery.ScanDelay),
		Connector: device.NewMockConnector(cfg.Discovery.ConnectDelay),
		Logger:    log,
		Now:       time.Now,
	}
	if cfg.Sensor.Enabled {
		deps.Fetcher = sensor.NewClient(cfg.Sensor.Endpoint, cfg.Sensor.Timeout, log)
	}
	return deps
}

var (
	watchAlertStyle = lipgloss.NewStyle().Foreground(ui.ColorError).Bold(true)
	watchMutedStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	watchOKStyle    = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
)

// watcher turns engine transitions into scenario steps and output lines.
type watcher struct {
	out       io.Writer
	opts      WatchOptions
	engine    *session.Engine
	threshold int
	now       func() time.Time

	summary  WatchSummary
	stopping bool
}

// transitionQueue hands engine transitions to the watcher. push never
// blocks, so the engine keeps draining its inbox while the watcher is
// busy sending follow-up messages.
type transitionQueue struct {
	mu      sync.Mutex
	pending []session.Transition
	ready   chan struct{}
}

func newTransitionQueue() *transitionQueue {
	return &transitionQueue{ready: make(chan struct{}, 1)}
}

func (q *transitionQueue) push(t session.Transition) {
	q.mu.Lock()
	q.pending = append(q.pending, t)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// drain returns everything queued so far, oldest first.
func (q *transitionQueue) drain() []session.Transition {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// runWatch scans, connects, monitors and prints until the tick budget is
// spent, the first alert with FailOnAlert, or ctx is cancelled.
func runWatch(ctx context.Context, out io.Writer, cfg *config.Config, opts WatchOptions, deps watchDeps) (WatchSummary, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := newTransitionQueue()
	engine := session.NewEngine(session.EngineConfig{
		Options:      cfg.SessionOptions(),
		Rand:         deps.Rand,
		Scanner:      deps.Scanner,
		Connector:    deps.Connector,
		Fetcher:      deps.Fetcher,
		Logger:       deps.Logger,
		Now:          deps.Now,
		OnTransition: events.push,
	})

	w := &watcher{
		out:       out,
		opts:      opts,
		engine:    engine,
		threshold: cfg.Monitor.Threshold,
		now:       deps.Now,
		summary:   WatchSummary{RunID: engine.RunID()},
	}

	runErr := make(chan error, 1)
	go func() { runErr <- engine.Run(ctx) }()

	finish := func(err error) (WatchSummary, error) {
		cancel()
		<-runErr
		w.printSummary()
		// An interrupt is a normal end of run.
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		return w.summary, err
	}

	if err := engine.Send(ctx, session.Scan{}); err != nil {
		return finish(err)
	}
	w.line(WatchEvent{Type: "scan"}, watchMutedStyle.Render("Scanning for devices..."))

	for {
		select {
		case <-events.ready:
			for _, t := range events.drain() {
				done, err := w.handle(ctx, t)
				if err != nil || done {
					return finish(err)
				}
			}
		case err := <-runErr:
			// Cancelled from outside (Ctrl+C); report what we have.
			w.printSummary()
			return w.summary, err
		}
	}
}

// handle reacts to one transition. It returns done once the run should end.
func (w *watcher) handle(ctx context.Context, t session.Transition) (bool, error) {
	switch msg := t.Msg.(type) {
	case session.DevicesFound:
		if t.Next.Connection != session.Listing {
			return false, nil
		}
		return false, w.onDevices(ctx, t.Next.Devices)

	case session.Paired:
		if t.Next.Connection != session.Connected || t.Prev.Connection == session.Connected {
			return false, nil
		}
		w.summary.Device = t.Next.Device.ID
		w.line(WatchEvent{Type: "connected", Device: t.Next.Device.ID},
			watchOKStyle.Render(ui.FormatDeviceLine(*t.Next.Device)+" connected"))
		return false, w.engine.Send(ctx, session.StartMonitoring{})

	case session.Tick:
		// Ticks applied before StopMonitoring landed are past the budget.
		if t.Next.Ticks == t.Prev.Ticks || w.stopping {
			return false, nil
		}
		return w.onTick(ctx, t)

	case session.FetchSucceeded:
		if t.Next.AppliedSeq != t.Prev.AppliedSeq {
			w.summary.Readings++
			w.printReading(t.Next)
		}
		return w.stopping && !t.Next.FetchInFlight, nil

	case session.FetchFailed:
		if t.Next.AppliedSeq != t.Prev.AppliedSeq {
			w.summary.FetchErrors++
			detail := t.Next.LastError
			if msg.Err != nil {
				detail = util.FirstLine(msg.Err.Error())
			}
			w.line(WatchEvent{Type: "fetch_error", Error: detail},
				watchAlertStyle.Render(t.Next.LastError)+" "+watchMutedStyle.Render(detail))
		}
		return w.stopping && !t.Next.FetchInFlight, nil
	}

	return false, nil
}

func (w *watcher) onDevices(ctx context.Context, devices []device.Device) error {
	w.line(WatchEvent{Type: "devices", Count: len(devices)},
		"Found "+util.Count(len(devices), "device", "devices"))

	id := w.opts.Device
	if id == "" && len(devices) > 0 {
		id = devices[0].ID
	}

	if _, ok := device.Find(devices, id); !ok {
		ids := make([]string, len(devices))
		for i, d := range devices {
			ids[i] = d.ID
		}
		return errors.New(errors.ErrDevice,
			fmt.Sprintf("Device '%s' not found", id),
			"Available devices: "+util.JoinOrNone(ids))
	}

	return w.engine.Send(ctx, session.Connect{DeviceID: id})
}

func (w *watcher) onTick(ctx context.Context, t session.Transition) (bool, error) {
	w.summary.Ticks++
	movement := t.Next.WaterMovement
	threshold := w.threshold

	status := watchMutedStyle.Render(t.Next.MonitoringLabel())
	w.line(WatchEvent{Type: "tick", Tick: w.summary.Ticks, Movement: &movement, Threshold: &threshold},
		fmt.Sprintf("tick %-4d movement %3d%%  %s", w.summary.Ticks, movement, status))

	if hasEffect[session.PromptAlert](t.Effects) {
		w.summary.Alerts++
		w.line(WatchEvent{Type: "alert", Tick: w.summary.Ticks, Movement: &movement, Threshold: &threshold},
			watchAlertStyle.Render(fmt.Sprintf("%s DROWNING ALERT: water movement %d%% above %d%%", ui.SymbolAlert, movement, threshold)))

		if w.opts.FailOnAlert {
			return true, errors.NewExitError(AlertExitCode)
		}
		if err := w.engine.Send(ctx, session.AcknowledgeAlert{}); err != nil {
			return false, err
		}
	}

	if w.opts.Ticks > 0 && w.summary.Ticks >= w.opts.Ticks && !w.stopping {
		w.stopping = true
		if err := w.engine.Send(ctx, session.StopMonitoring{}); err != nil {
			return false, err
		}
		// Let an in-flight fetch land before ending the run.
		return !t.Next.FetchInFlight, nil
	}

	return false, nil
}

func (w *watcher) printReading(s session.State) {
	ev := WatchEvent{Type: "reading"}
	text := "reading"

	if s.Reading != nil {
		if v, ok := s.Reading.HeartRate.ChartValue(); ok {
			ev.HeartRate = &v
			text += fmt.Sprintf("  heart rate %.1f", v)
		} else {
			text += "  heart rate --"
		}
		temp := s.Reading.Motion.Temperature
		ev.Temperature = &temp
		text += fmt.Sprintf("  temp %.1f°C", temp)
	}

	w.line(ev, watchMutedStyle.Render(text))
}

func (w *watcher) printSummary() {
	s := w.summary
	if w.opts.JSON {
		_ = writeJSONLine(w.out, struct {
			Type string `json:"type"`
			WatchSummary
		}{Type: "summary", WatchSummary: s})
		return
	}
	fmt.Fprintf(w.out, "%s\n", watchMutedStyle.Render(fmt.Sprintf("run %s: %s, %s, %s, %s",
		shortID(s.RunID),
		util.Count(s.Ticks, "tick", "ticks"),
		util.Count(s.Alerts, "alert", "alerts"),
		util.Count(s.Readings, "reading", "readings"),
		util.Count(s.FetchErrors, "fetch error", "fetch errors"))))
}

// line writes ev as JSON or text as a timestamped human line.
func (w *watcher) line(ev WatchEvent, text string) {
	ev.RunID = w.summary.RunID
	ev.Time = w.now()
	if w.opts.JSON {
		_ = writeJSONLine(w.out, ev)
		return
	}
	fmt.Fprintf(w.out, "%s %s\n", watchMutedStyle.Render(ev.Time.Format(time.TimeOnly)), text)
}

func hasEffect[T session.Effect](effects []session.Effect) bool {
	for _, e := range effects {
		if _, ok := e.(T); ok {
			return true
		}
	}
	return false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
