package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/session"
)

// Width breakpoints
const (
	BreakpointCompact = 60
	BreakpointWide    = 100
)

const (
	defaultWidth  = 72
	defaultHeight = 24

	// toastDuration is how long a notification stays on screen.
	toastDuration = 2500 * time.Millisecond

	// movementTrailSize is how many water-movement samples the sparkline keeps.
	movementTrailSize = 40
)

// Config wires the dashboard to its collaborators.
type Config struct {
	Session   session.Options
	Rand      session.Rand
	Scanner   device.Scanner
	Connector device.Connector
	Fetcher   sensor.Fetcher
	Logger    logger.Logger

	// FetchTimeout bounds a single sensor fetch. Defaults to the session
	// interval.
	FetchTimeout time.Duration

	// DeviceID, when set, is connected to automatically once a scan lists it.
	DeviceID string

	// AutoScan starts a scan as soon as the program starts.
	AutoScan bool

	// Now stamps fetch results. Defaults to time.Now.
	Now func() time.Time

	// Context bounds scans, connects and fetches. Defaults to context.Background.
	Context context.Context
}

// Model is the Bubble Tea model for the HydroGuard dashboard. All session
// transitions go through the reducer; the model only adds presentation state.
type Model struct {
	reducer *session.Reducer
	state   session.State

	scanner   device.Scanner
	connector device.Connector
	fetcher   sensor.Fetcher
	log       logger.Logger
	now       func() time.Time
	ctx       context.Context

	fetchTimeout time.Duration

	autoConnect string
	autoScan    bool

	selected int
	movement sensor.Series

	spinner  spinner.Model
	help     help.Model
	width    int
	height   int
	showHelp bool
	quitting bool

	toast   string
	toastID int
}

// toastExpiredMsg clears the toast with the matching id.
type toastExpiredMsg struct {
	id int
}

// NewModel creates a dashboard in the disconnected state.
func NewModel(cfg Config) Model {
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
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Fetcher == nil {
		cfg.Session.SensorsEnabled = false
	}

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: SpinnerFrames, FPS: time.Second / 8}
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(ColorTextMuted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(ColorBorder)

	r := session.NewReducer(cfg.Session, cfg.Rand)
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = r.Options().Interval
	}
	return Model{
		reducer:      r,
		state:        session.NewState(r.Options()),
		scanner:      cfg.Scanner,
		connector:    cfg.Connector,
		fetcher:      cfg.Fetcher,
		log:          cfg.Logger,
		now:          cfg.Now,
		ctx:          cfg.Context,
		fetchTimeout: cfg.FetchTimeout,
		autoConnect:  cfg.DeviceID,
		autoScan:     cfg.AutoScan || cfg.DeviceID != "",
		movement:     sensor.NewSeries(movementTrailSize),
		spinner:      sp,
		help:         h,
	}
}

// Init starts the spinner and, when configured, the first scan.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.autoScan {
		cmds = append(cmds, func() tea.Msg { return session.Scan{} })
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}

	case session.Msg:
		cmd := m.dispatch(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current screen, with overlays on top.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.state.Alert {
		return m.renderAlertOverlay()
	}
	return m.renderScreen()
}

// State returns the current session state.
func (m Model) State() session.State {
	return m.state
}

// dispatch runs msg through the reducer and turns the resulting effects into commands.
func (m *Model) dispatch(msg session.Msg) tea.Cmd {
	prev := m.state
	next, effects := m.reducer.Reduce(prev, msg)
	m.state = next

	if next.Ticks != prev.Ticks {
		m.movement = m.movement.Push(m.now().Format(sensor.LabelFormat), float64(next.WaterMovement))
	}
	if next.Connection != prev.Connection {
		m.log.Debug("connection %s -> %s", prev.Connection, next.Connection)
	}

	var cmds []tea.Cmd
	for _, eff := range effects {
		if cmd := m.perform(eff); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch msg.(type) {
	case session.DevicesFound:
		m.selected = 0
		if m.autoConnect != "" && next.Connection == session.Listing {
			id := m.autoConnect
			m.autoConnect = ""
			for i, d := range next.Devices {
				if d.ID == id {
					m.selected = i
				}
			}
			cmds = append(cmds, m.dispatch(session.Connect{DeviceID: id}))
		}
	case session.Disconnect:
		m.selected = 0
		m.movement = m.movement.Reset()
	}

	return tea.Batch(cmds...)
}

// perform converts one effect into a command.
func (m *Model) perform(eff session.Effect) tea.Cmd {
	ctx := m.ctx

	switch eff := eff.(type) {
	case session.RunScan:
		scanner := m.scanner
		return func() tea.Msg {
			devices, err := scanner.Scan(ctx)
			if err != nil {
				return nil
			}
			return session.DevicesFound{Devices: devices}
		}

	case session.RunConnect:
		connector := m.connector
		d := eff.Device
		return func() tea.Msg {
			if err := connector.Connect(ctx, d); err != nil {
				return nil
			}
			return session.Paired{DeviceID: d.ID}
		}

	case session.ScheduleTick:
		gen := eff.Gen
		return tea.Tick(eff.Delay, func(time.Time) tea.Msg {
			return session.Tick{Gen: gen}
		})

	case session.FetchSensors:
		fetcher, now, log, timeout := m.fetcher, m.now, m.log, m.fetchTimeout
		seq := eff.Seq
		return func() tea.Msg {
			if fetcher == nil {
				return session.FetchFailed{Seq: seq}
			}
			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			reading, err := fetcher.Fetch(fetchCtx)
			if err != nil {
				log.Warn("sensor fetch %d failed: %v", seq, err)
				return session.FetchFailed{Seq: seq, Err: err}
			}
			return session.FetchSucceeded{Seq: seq, Reading: reading, At: now()}
		}

	case session.PromptAlert:
		m.log.Warn("drowning alert: water movement %d%% above threshold %d%%", eff.Value, eff.Threshold)
		m.showHelp = false
		return nil

	case session.Notify:
		m.toastID++
		m.toast = eff.Text
		id := m.toastID
		return tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		})
	}
	return nil
}

// contentWidth is the width used for sections, capped for readability.
func (m Model) contentWidth() int {
	w := m.width
	if w == 0 {
		w = defaultWidth
	}
	if w > BreakpointWide {
		w = BreakpointWide
	}
	return w
}

// viewHeight returns the terminal height or a default before the first resize.
func (m Model) viewHeight() int {
	if m.height == 0 {
		return defaultHeight
	}
	return m.height
}

// viewWidth returns the terminal width or a default before the first resize.
func (m Model) viewWidth() int {
	if m.width == 0 {
		return defaultWidth
	}
	return m.width
}
