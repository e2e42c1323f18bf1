package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/errors"
)

func TestRunDevices_Table(t *testing.T) {
	isolate(t)
	var out bytes.Buffer

	err := runDevices(context.Background(), DevicesOptions{Out: &out},
		fakeScanner{devices: device.MockDevices()}, fakeConnector{})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Scanning for devices")
	assert.Contains(t, text, "HydroGuard Band A")
	assert.Contains(t, text, "HydroGuard Pool Sensor")
	assert.Contains(t, text, "92%")
}

func TestRunDevices_JSON(t *testing.T) {
	isolate(t)
	setMachineMode(t)
	var out bytes.Buffer

	err := runDevices(context.Background(), DevicesOptions{Out: &out},
		fakeScanner{devices: device.MockDevices()}, fakeConnector{})
	require.NoError(t, err)

	var env struct {
		Success bool            `json:"success"`
		Data    []device.Device `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, device.MockDevices(), env.Data)
}

func TestRunDevices_JSONEmptyList(t *testing.T) {
	isolate(t)
	setMachineMode(t)
	var out bytes.Buffer

	require.NoError(t, runDevices(context.Background(), DevicesOptions{Out: &out}, fakeScanner{}, fakeConnector{}))
	assert.Contains(t, out.String(), `"data": []`)
}

func TestRunDevices_PickWithJSON(t *testing.T) {
	isolate(t)
	setMachineMode(t)

	err := runDevices(context.Background(), DevicesOptions{Pick: true, Out: &bytes.Buffer{}},
		fakeScanner{devices: device.MockDevices()}, fakeConnector{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestRunDevices_ScanError(t *testing.T) {
	isolate(t)

	err := runDevices(context.Background(), DevicesOptions{Out: &bytes.Buffer{}},
		fakeScanner{err: stderrors.New("adapter off")}, fakeConnector{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDevice))
	assert.Contains(t, err.Error(), "adapter off")
}

func TestRunDevices_PickSingleDevice(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	only := device.MockDevices()[1:2]

	err := runDevices(context.Background(), DevicesOptions{Pick: true, Out: &out, In: strings.NewReader("")},
		fakeScanner{devices: only}, fakeConnector{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Connecting to HydroGuard Band B")
	assert.Contains(t, out.String(), "hydroguard monitor --device 002")
}

func TestRunDevices_PickConnectFails(t *testing.T) {
	isolate(t)
	only := device.MockDevices()[:1]

	err := runDevices(context.Background(), DevicesOptions{Pick: true, Out: &bytes.Buffer{}, In: strings.NewReader("")},
		fakeScanner{devices: only}, fakeConnector{err: stderrors.New("out of range")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDevice))
	assert.Contains(t, err.Error(), "Could not pair with HydroGuard Band A")
}

func TestRunDevices_PickNothingFound(t *testing.T) {
	isolate(t)

	err := runDevices(context.Background(), DevicesOptions{Pick: true, Out: &bytes.Buffer{}, In: strings.NewReader("")},
		fakeScanner{}, fakeConnector{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDevice))
}
