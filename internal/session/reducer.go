package session

import (
	"fmt"
	"math/rand/v2"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/sensor"
)

// Rand is the random source for water-movement samples.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// RandFunc adapts a function to Rand.
type RandFunc func(n int) int

// IntN calls f(n).
func (f RandFunc) IntN(n int) int {
	return f(n)
}

// DefaultRand draws from the global math/rand/v2 source.
var DefaultRand Rand = RandFunc(rand.IntN)

// Reducer applies messages to State.
type Reducer struct {
	opts Options
	rng  Rand
}

// NewReducer creates a reducer. A nil rng uses DefaultRand.
func NewReducer(opts Options, rng Rand) *Reducer {
	if rng == nil {
		rng = DefaultRand
	}
	return &Reducer{opts: opts.withDefaults(), rng: rng}
}

// Options returns the reducer's effective options.
func (r *Reducer) Options() Options {
	return r.opts
}

// Reduce returns the state after msg and the effects to perform.
// Messages that do not apply in the current state return s unchanged and no effects.
func (r *Reducer) Reduce(s State, msg Msg) (State, []Effect) {
	switch msg := msg.(type) {
	case Scan:
		return r.scan(s)
	case DevicesFound:
		return r.devicesFound(s, msg)
	case Connect:
		return r.connect(s, msg)
	case Paired:
		return r.paired(s, msg)
	case StartMonitoring:
		return r.startMonitoring(s)
	case Tick:
		return r.tick(s, msg)
	case StopMonitoring:
		return r.stopMonitoring(s)
	case AcknowledgeAlert:
		s.Alert = false
		return s, nil
	case FetchSucceeded:
		return r.fetchSucceeded(s, msg)
	case FetchFailed:
		return r.fetchFailed(s, msg)
	case Disconnect:
		return r.disconnect(s)
	}
	return s, nil
}

func (r *Reducer) scan(s State) (State, []Effect) {
	if s.Connection != Disconnected && s.Connection != Listing {
		return s, nil
	}
	s.Connection = Scanning
	s.Devices = nil
	s.Device = nil
	s.Notice = "Scanning for devices..."
	return s, []Effect{RunScan{}}
}

func (r *Reducer) devicesFound(s State, msg DevicesFound) (State, []Effect) {
	if s.Connection != Scanning {
		return s, nil
	}
	devices := make([]device.Device, len(msg.Devices))
	copy(devices, msg.Devices)

	s.Connection = Listing
	s.Devices = devices
	s.Notice = fmt.Sprintf("Found %d devices", len(devices))
	return s, nil
}

func (r *Reducer) connect(s State, msg Connect) (State, []Effect) {
	if s.Connection != Listing {
		return s, nil
	}
	d, ok := device.Find(s.Devices, msg.DeviceID)
	if !ok {
		return s, nil
	}
	s.Connection = Connecting
	s.Device = &d
	s.Notice = "Connecting to " + d.Name + "..."
	return s, []Effect{Notify{Text: s.Notice}, RunConnect{Device: d}}
}

func (r *Reducer) paired(s State, msg Paired) (State, []Effect) {
	if s.Connection != Connecting || s.Device == nil || s.Device.ID != msg.DeviceID {
		return s, nil
	}
	s.Connection = Connected
	s.Notice = "Connected to " + s.Device.Name
	return s, []Effect{Notify{Text: s.Notice}}
}

func (r *Reducer) startMonitoring(s State) (State, []Effect) {
	if s.Connection != Connected || s.Monitoring != Idle {
		return s, nil
	}
	s.Monitoring = Active
	s.Alert = false
	s.TickGen++
	return s, []Effect{ScheduleTick{Gen: s.TickGen, Delay: r.opts.Interval}}
}

func (r *Reducer) stopMonitoring(s State) (State, []Effect) {
	if s.Monitoring != Active {
		return s, nil
	}
	s.Monitoring = Idle
	s.Alert = false
	s.TickGen++
	return s, nil
}

func (r *Reducer) tick(s State, msg Tick) (State, []Effect) {
	if !s.IsMonitoring() || msg.Gen != s.TickGen {
		return s, nil
	}

	var effects []Effect

	value := r.rng.IntN(100)
	s.WaterMovement = value
	s.HasSample = true
	s.Ticks++

	// No hysteresis: every sample above the threshold prompts again.
	s.Alert = value > r.opts.Threshold
	if s.Alert {
		effects = append(effects, PromptAlert{Value: value, Threshold: r.opts.Threshold})
	}

	if r.opts.SensorsEnabled && !s.FetchInFlight {
		s.FetchSeq++
		s.FetchInFlight = true
		effects = append(effects, FetchSensors{Seq: s.FetchSeq})
	}

	effects = append(effects, ScheduleTick{Gen: s.TickGen, Delay: r.opts.Interval})
	return s, effects
}

// settleFetch clears the in-flight flag for seq and reports whether the
// result should be applied.
func (r *Reducer) settleFetch(s *State, seq uint64) bool {
	if seq == s.FetchSeq {
		s.FetchInFlight = false
	}
	if seq <= s.AppliedSeq || seq > s.FetchSeq || s.Connection != Connected {
		return false
	}
	s.AppliedSeq = seq
	return true
}

func (r *Reducer) fetchSucceeded(s State, msg FetchSucceeded) (State, []Effect) {
	if !r.settleFetch(&s, msg.Seq) {
		return s, nil
	}
	if msg.Reading == nil {
		s.LastError = FetchErrorMessage
		return s, nil
	}

	reading := *msg.Reading
	s.Reading = &reading
	s.LastError = ""
	if v, ok := reading.HeartRate.ChartValue(); ok {
		s.Series = s.Series.Push(msg.At.Format(sensor.LabelFormat), v)
	}
	return s, nil
}

func (r *Reducer) fetchFailed(s State, msg FetchFailed) (State, []Effect) {
	if !r.settleFetch(&s, msg.Seq) {
		return s, nil
	}
	s.LastError = FetchErrorMessage
	return s, nil
}

func (r *Reducer) disconnect(s State) (State, []Effect) {
	s.Connection = Disconnected
	s.Devices = nil
	s.Device = nil
	s.Monitoring = Idle
	s.Alert = false
	s.WaterMovement = 0
	s.HasSample = false
	s.Reading = nil
	s.Series = sensor.NewSeries(r.opts.SeriesSize)
	s.LastError = ""
	s.TickGen++
	s.FetchInFlight = false
	s.AppliedSeq = s.FetchSeq
	s.Notice = "Disconnected"
	return s, nil
}
