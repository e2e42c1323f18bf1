package sensor

// Reading is one snapshot served by a HydroGuard device's /sensors endpoint.
// Readings are replaced wholesale on every successful fetch.
type Reading struct {
	HeartRate HeartRate `json:"heart_rate"`
	Motion    Motion    `json:"motion"`
}

// HeartRate holds the optical pulse channels. Either may be missing.
type HeartRate struct {
	Red *float64 `json:"red,omitempty"`
	IR  *float64 `json:"ir,omitempty"`
}

// Motion holds IMU output from the wearable.
type Motion struct {
	Gyroscope     Vector3 `json:"gyroscope"`
	Accelerometer Vector3 `json:"accelerometer"`
	Temperature   float64 `json:"temperature"`
}

// Vector3 is a three-axis sample.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ChartValue returns the value plotted on the heart-rate chart: the red
// channel, or the IR channel when red is absent.
func (h HeartRate) ChartValue() (float64, bool) {
	switch {
	case h.Red != nil:
		return *h.Red, true
	case h.IR != nil:
		return *h.IR, true
	default:
		return 0, false
	}
}

// Float returns a pointer to v, for building readings in code.
func Float(v float64) *float64 {
	return &v
}
