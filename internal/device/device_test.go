package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDevices(t *testing.T) {
	devices := MockDevices()

	require.Len(t, devices, 3)
	assert.Equal(t, "001", devices[0].ID)
	assert.Equal(t, "002", devices[1].ID)
	assert.Equal(t, "003", devices[2].ID)

	for _, d := range devices {
		assert.NotEmpty(t, d.Name)
		assert.GreaterOrEqual(t, d.SignalStrength, 0)
		assert.LessOrEqual(t, d.SignalStrength, 100)
	}
}

func TestMockDevices_ReturnsCopy(t *testing.T) {
	a := MockDevices()
	a[0].Name = "changed"

	b := MockDevices()
	assert.Equal(t, "HydroGuard Band A", b[0].Name)
}

func TestFind(t *testing.T) {
	devices := MockDevices()

	d, ok := Find(devices, "002")
	assert.True(t, ok)
	assert.Equal(t, "HydroGuard Band B", d.Name)

	_, ok = Find(devices, "999")
	assert.False(t, ok)

	_, ok = Find(nil, "001")
	assert.False(t, ok)
}

func TestDevice_String(t *testing.T) {
	d := Device{ID: "001", Name: "Band"}
	assert.Equal(t, "Band (001)", d.String())
}

func TestDevice_SignalBars(t *testing.T) {
	tests := []struct {
		strength int
		want     int
	}{
		{0, 0},
		{10, 1},
		{40, 2},
		{64, 3},
		{92, 4},
		{100, 4},
	}

	for _, tt := range tests {
		d := Device{SignalStrength: tt.strength}
		assert.Equal(t, tt.want, d.SignalBars(), "strength %d", tt.strength)
	}
}

func TestNewMockScanner_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultScanDelay, NewMockScanner(0).Delay)
	assert.Equal(t, DefaultScanDelay, NewMockScanner(-time.Second).Delay)
	assert.Equal(t, time.Second, NewMockScanner(time.Second).Delay)
}

func TestMockScanner_Scan(t *testing.T) {
	s := NewMockScanner(10 * time.Millisecond)

	start := time.Now()
	devices, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Len(t, devices, 3)
}

func TestMockScanner_ScanCancelled(t *testing.T) {
	s := NewMockScanner(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	devices, err := s.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, devices)
}

func TestNewMockConnector_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultConnectDelay, NewMockConnector(0).Delay)
	assert.Equal(t, 1500*time.Millisecond, DefaultConnectDelay)
	assert.Equal(t, 2*time.Second, DefaultScanDelay)
}

func TestMockConnector_Connect(t *testing.T) {
	c := NewMockConnector(5 * time.Millisecond)

	err := c.Connect(context.Background(), MockDevices()[1])
	assert.NoError(t, err)
}

func TestMockConnector_ConnectCancelled(t *testing.T) {
	c := NewMockConnector(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	err := c.Connect(ctx, MockDevices()[0])
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
