package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/session"
)

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

type stubFetcher struct {
	reading *sensor.Reading
	err     error
}

func (f stubFetcher) Fetch(context.Context) (*sensor.Reading, error) {
	return f.reading, f.err
}

var fixedNow = time.Date(2024, 6, 1, 9, 15, 30, 0, time.Local)

func newTestModel(t *testing.T, sample int, fetcher sensor.Fetcher) Model {
	t.Helper()
	return NewModel(Config{
		Session:   session.DefaultOptions(),
		Rand:      fixedRand(sample),
		Scanner:   device.NewMockScanner(time.Millisecond),
		Connector: device.NewMockConnector(time.Millisecond),
		Fetcher:   fetcher,
		Logger:    logger.NewBufferLogger(),
		Now:       func() time.Time { return fixedNow },
	})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// connectedModel drives a model through scan and connect to device 001.
func connectedModel(t *testing.T, sample int, fetcher sensor.Fetcher) Model {
	t.Helper()
	m := newTestModel(t, sample, fetcher)
	m, _ = update(t, m, keyRunes("s"))
	m, _ = update(t, m, session.DevicesFound{Devices: device.MockDevices()})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, session.Paired{DeviceID: "001"})
	require.Equal(t, session.Connected, m.State().Connection)
	return m
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t, 0, stubFetcher{})

	assert.Equal(t, session.Disconnected, m.State().Connection)
	assert.True(t, m.reducer.Options().SensorsEnabled)
	assert.Equal(t, movementTrailSize, m.movement.Cap())
	assert.False(t, m.autoScan)
}

func TestNewModel_NoFetcherDisablesSensors(t *testing.T) {
	m := NewModel(Config{Session: session.DefaultOptions()})

	assert.False(t, m.reducer.Options().SensorsEnabled)
}

func TestNewModel_DeviceImpliesAutoScan(t *testing.T) {
	m := NewModel(Config{DeviceID: "002"})

	assert.True(t, m.autoScan)
	assert.NotNil(t, m.Init())
}

func TestModel_ScanKeyStartsScan(t *testing.T) {
	m := newTestModel(t, 0, nil)

	m, cmd := update(t, m, keyRunes("s"))

	assert.Equal(t, session.Scanning, m.State().Connection)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Scanning for devices")
}

func TestModel_RunScanEffectDeliversDevices(t *testing.T) {
	m := newTestModel(t, 0, nil)

	cmd := m.perform(session.RunScan{})
	require.NotNil(t, cmd)

	msg := cmd()
	found, ok := msg.(session.DevicesFound)
	require.True(t, ok)
	assert.Len(t, found.Devices, 3)
}

func TestModel_RunConnectEffectDeliversPaired(t *testing.T) {
	m := newTestModel(t, 0, nil)

	cmd := m.perform(session.RunConnect{Device: device.MockDevices()[2]})

	assert.Equal(t, session.Paired{DeviceID: "003"}, cmd())
}

func TestModel_DeviceSelection(t *testing.T) {
	m := newTestModel(t, 0, nil)
	m, _ = update(t, m, keyRunes("s"))
	m, _ = update(t, m, session.DevicesFound{Devices: device.MockDevices()})

	m, _ = update(t, m, keyRunes("j"))
	m, _ = update(t, m, keyRunes("j"))
	m, _ = update(t, m, keyRunes("j"))
	assert.Equal(t, 2, m.selected, "selection stops at the last device")

	m, _ = update(t, m, keyRunes("k"))
	assert.Equal(t, 1, m.selected)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, session.Connecting, m.State().Connection)
	assert.Equal(t, "002", m.State().Device.ID)
	assert.Equal(t, "Connecting to HydroGuard Band B...", m.toast)
}

func TestModel_AutoConnect(t *testing.T) {
	m := NewModel(Config{
		Scanner:   device.NewMockScanner(time.Millisecond),
		Connector: device.NewMockConnector(time.Millisecond),
		DeviceID:  "003",
	})
	m, _ = update(t, m, session.Scan{})

	m, cmd := update(t, m, session.DevicesFound{Devices: device.MockDevices()})

	require.NotNil(t, cmd)
	assert.Equal(t, session.Connecting, m.State().Connection)
	assert.Equal(t, 2, m.selected)
	assert.Empty(t, m.autoConnect, "auto-connect runs once")
}

func TestModel_StartStopMonitoring(t *testing.T) {
	m := connectedModel(t, 10, stubFetcher{})

	m, cmd := update(t, m, keyRunes("m"))
	assert.Equal(t, session.Active, m.State().Monitoring)
	assert.NotNil(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Equal(t, session.Idle, m.State().Monitoring)
}

func TestModel_TickUpdatesMovementTrail(t *testing.T) {
	m := connectedModel(t, 42, stubFetcher{})
	m, _ = update(t, m, keyRunes("m"))

	m, _ = update(t, m, session.Tick{Gen: m.State().TickGen})

	assert.Equal(t, 42, m.State().WaterMovement)
	assert.Equal(t, []float64{42}, m.movement.Values())
	assert.Contains(t, m.View(), "42%")
}

func TestModel_FetchEffect(t *testing.T) {
	red := sensor.Float(74)
	m := connectedModel(t, 10, stubFetcher{reading: &sensor.Reading{HeartRate: sensor.HeartRate{Red: red}}})

	msg := m.perform(session.FetchSensors{Seq: 3})()

	assert.Equal(t, session.FetchSucceeded{
		Seq:     3,
		Reading: &sensor.Reading{HeartRate: sensor.HeartRate{Red: red}},
		At:      fixedNow,
	}, msg)
}

func TestModel_FetchEffectFailure(t *testing.T) {
	m := connectedModel(t, 10, stubFetcher{err: errors.New("refused")})

	msg := m.perform(session.FetchSensors{Seq: 1})()

	failed, ok := msg.(session.FetchFailed)
	require.True(t, ok)
	assert.Equal(t, uint64(1), failed.Seq)
	assert.Error(t, failed.Err)
}

type hangingFetcher struct{}

func (hangingFetcher) Fetch(ctx context.Context) (*sensor.Reading, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestModel_FetchEffectTimesOut(t *testing.T) {
	m := NewModel(Config{
		Session:      session.DefaultOptions(),
		Rand:         fixedRand(10),
		Fetcher:      hangingFetcher{},
		FetchTimeout: 5 * time.Millisecond,
		Logger:       logger.NewBufferLogger(),
	})

	msg := m.perform(session.FetchSensors{Seq: 2})()

	failed, ok := msg.(session.FetchFailed)
	require.True(t, ok)
	assert.Equal(t, uint64(2), failed.Seq)
	assert.ErrorIs(t, failed.Err, context.DeadlineExceeded)
}

func TestNewModel_FetchTimeoutDefaultsToInterval(t *testing.T) {
	m := newTestModel(t, 10, stubFetcher{})
	assert.Equal(t, session.DefaultOptions().Interval, m.fetchTimeout)
}

func TestModel_AlertOverlayIsModal(t *testing.T) {
	m := connectedModel(t, 95, stubFetcher{})
	m, _ = update(t, m, keyRunes("m"))
	m, _ = update(t, m, session.Tick{Gen: m.State().TickGen})
	require.True(t, m.State().Alert)

	view := m.View()
	assert.Contains(t, view, "Drowning Alert")
	assert.Contains(t, view, "95%")

	// Disconnect is blocked while the alert is up.
	m, _ = update(t, m, keyRunes("d"))
	assert.Equal(t, session.Connected, m.State().Connection)

	m, _ = update(t, m, keyRunes("a"))
	assert.False(t, m.State().Alert)
	assert.Equal(t, session.Active, m.State().Monitoring)
	assert.NotContains(t, m.View(), "Drowning Alert")
}

func TestModel_StopFromAlert(t *testing.T) {
	m := connectedModel(t, 95, stubFetcher{})
	m, _ = update(t, m, keyRunes("m"))
	m, _ = update(t, m, session.Tick{Gen: m.State().TickGen})

	m, _ = update(t, m, keyRunes("m"))

	assert.False(t, m.State().Alert)
	assert.Equal(t, session.Idle, m.State().Monitoring)
}

func TestModel_Disconnect(t *testing.T) {
	m := connectedModel(t, 30, stubFetcher{})
	m, _ = update(t, m, keyRunes("m"))
	m, _ = update(t, m, session.Tick{Gen: m.State().TickGen})

	m, _ = update(t, m, keyRunes("d"))

	assert.Equal(t, session.Disconnected, m.State().Connection)
	assert.Equal(t, 0, m.movement.Len())
	assert.Contains(t, m.View(), "No device connected")
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, 0, nil)

	m, _ = update(t, m, keyRunes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	// Keys other than esc and ? are swallowed.
	m, _ = update(t, m, keyRunes("s"))
	assert.Equal(t, session.Disconnected, m.State().Connection)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, 0, nil)

	m, cmd := update(t, m, keyRunes("q"))

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestModel_ToastExpires(t *testing.T) {
	m := connectedModel(t, 0, nil)
	require.NotEmpty(t, m.toast)
	id := m.toastID

	m, _ = update(t, m, toastExpiredMsg{id: id - 1})
	assert.NotEmpty(t, m.toast, "stale expiry keeps the newer toast")

	m, _ = update(t, m, toastExpiredMsg{id: id})
	assert.Empty(t, m.toast)
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t, 0, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})

	assert.Equal(t, 140, m.viewWidth())
	assert.Equal(t, 50, m.viewHeight())
	assert.Equal(t, BreakpointWide, m.contentWidth())
}
