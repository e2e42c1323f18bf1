package monitor

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/session"
)

func TestKeyMap_ShortHelp(t *testing.T) {
	assert.Len(t, keys.ShortHelp(), 4)
}

func TestKeyMap_FullHelp(t *testing.T) {
	help := keys.FullHelp()

	assert.Len(t, help, 3)
	total := 0
	for _, group := range help {
		total += len(group)
	}
	assert.Equal(t, 9, total, "every binding is listed once")
}

func TestKeyMap_BindingsHaveHelp(t *testing.T) {
	for _, group := range keys.FullHelp() {
		for _, b := range group {
			assert.NotEmpty(t, b.Help().Key)
			assert.NotEmpty(t, b.Help().Desc)
			assert.NotEmpty(t, b.Keys())
		}
	}
}

func TestKeyMap_ShortHelpFor(t *testing.T) {
	connected := session.State{Connection: session.Connected}
	alert := session.State{Connection: session.Connected, Monitoring: session.Active, Alert: true}
	listing := session.State{Connection: session.Listing, Devices: device.MockDevices()}

	tests := []struct {
		name  string
		state session.State
		first key.Binding
	}{
		{"disconnected", session.State{}, keys.Scan},
		{"listing", listing, keys.Up},
		{"connected", connected, keys.Toggle},
		{"alert", alert, keys.Acknowledge},
		{"scanning", session.State{Connection: session.Scanning}, keys.Quit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bindings := keys.shortHelpFor(tt.state)
			assert.NotEmpty(t, bindings)
			assert.Equal(t, tt.first.Help(), bindings[0].Help())
		})
	}
}
