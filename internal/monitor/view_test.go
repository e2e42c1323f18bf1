package monitor

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/session"
)

func TestAxisLabels(t *testing.T) {
	points := []sensor.Point{{Label: "10:00:00"}, {Label: "10:00:03"}, {Label: "10:00:06"}}

	got := stripANSI(axisLabels(points, 30))

	assert.Equal(t, 30, lipgloss.Width(got))
	assert.Regexp(t, `^10:00:00 +10:00:06$`, got)
}

func TestAxisLabels_SinglePoint(t *testing.T) {
	got := stripANSI(axisLabels([]sensor.Point{{Label: "10:00:00"}}, 12))
	assert.Equal(t, "    10:00:00", got)
}

func TestAxisLabels_Narrow(t *testing.T) {
	points := []sensor.Point{{Label: "10:00:00"}, {Label: "10:00:03"}}
	assert.Equal(t, "10:00:03", stripANSI(axisLabels(points, 10)))
}

func TestFormatOptional(t *testing.T) {
	assert.Equal(t, "--", formatOptional(nil))
	assert.Equal(t, "72.5", formatOptional(sensor.Float(72.49)))
}

func TestSignalBars(t *testing.T) {
	assert.Equal(t, 4, lipgloss.Width(signalBars(2)))
}

func TestModel_renderHeader(t *testing.T) {
	m := connectedModel(t, 10, stubFetcher{})

	header := stripANSI(m.renderHeader())

	assert.Contains(t, header, "HydroGuard")
	assert.Contains(t, header, "HydroGuard Band A")
	assert.Contains(t, header, "connected")
	assert.Contains(t, header, "monitoring idle")
}

func TestModel_renderDevices(t *testing.T) {
	m := newTestModel(t, 0, nil)
	m, _ = update(t, m, keyRunes("s"))
	m, _ = update(t, m, session.DevicesFound{})

	assert.Contains(t, m.renderDevices(), "No devices found")
}

func TestModel_renderDashboard_WithSensorData(t *testing.T) {
	m := connectedModel(t, 20, stubFetcher{})
	m, _ = update(t, m, keyRunes("m"))
	m, _ = update(t, m, session.Tick{Gen: m.State().TickGen})
	m, _ = update(t, m, session.FetchSucceeded{
		Seq: m.State().FetchSeq,
		Reading: &sensor.Reading{
			HeartRate: sensor.HeartRate{Red: sensor.Float(81)},
			Motion:    sensor.Motion{Temperature: 26.4, Gyroscope: sensor.Vector3{X: 1.5}},
		},
		At: time.Date(2024, 6, 1, 9, 15, 30, 0, time.Local),
	})

	view := stripANSI(m.renderDashboard())

	assert.Contains(t, view, "Water movement")
	assert.Contains(t, view, "20%")
	assert.Contains(t, view, "Heart rate")
	assert.Contains(t, view, "81")
	assert.Contains(t, view, "09:15:30")
	assert.Contains(t, view, "26.4°C")
	assert.Contains(t, view, "1.50")
	assert.NotContains(t, view, session.FetchErrorMessage)
}

func TestModel_renderDashboard_FetchError(t *testing.T) {
	m := connectedModel(t, 20, stubFetcher{})
	m, _ = update(t, m, keyRunes("m"))
	m, _ = update(t, m, session.Tick{Gen: m.State().TickGen})
	m, _ = update(t, m, session.FetchFailed{Seq: m.State().FetchSeq})

	view := stripANSI(m.renderDashboard())

	assert.Contains(t, view, session.FetchErrorMessage)
	assert.Contains(t, view, "Waiting for sensor data")
}

func TestModel_renderDashboard_FetchErrorKeepsLastReading(t *testing.T) {
	m := connectedModel(t, 20, stubFetcher{})
	m, _ = update(t, m, keyRunes("m"))
	m, _ = update(t, m, session.Tick{Gen: m.State().TickGen})
	m, _ = update(t, m, session.FetchSucceeded{
		Seq: m.State().FetchSeq,
		Reading: &sensor.Reading{
			HeartRate: sensor.HeartRate{Red: sensor.Float(77)},
			Motion:    sensor.Motion{Temperature: 25.8},
		},
		At: time.Date(2024, 6, 1, 9, 15, 30, 0, time.Local),
	})
	m, _ = update(t, m, session.Tick{Gen: m.State().TickGen})
	m, _ = update(t, m, session.FetchFailed{Seq: m.State().FetchSeq})

	view := stripANSI(m.renderDashboard())

	assert.Contains(t, view, session.FetchErrorMessage)
	assert.Contains(t, view, "77")
	assert.Contains(t, view, "25.8°C")
	assert.Contains(t, view, "09:15:30")
	assert.NotContains(t, view, "Waiting for sensor data")
}

func TestModel_renderDashboard_SensorsDisabled(t *testing.T) {
	m := connectedModel(t, 20, nil)

	view := stripANSI(m.renderDashboard())

	assert.Contains(t, view, "Monitoring is off")
	assert.NotContains(t, view, "Heart rate")
}
