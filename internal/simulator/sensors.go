package simulator

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/sensor"
	"github.com/hydroguard/hydroguard/internal/session"
)

// Ranges the fake readings are drawn from.
const (
	heartRateMin   = 55.0
	heartRateMax   = 110.0
	temperatureMin = 24.0
	temperatureMax = 31.0
	gyroSpan       = 2.0
	accelSpan      = 1.0
	gravity        = 9.8
)

// SensorAPI serves GET /sensors.
type SensorAPI struct {
	Metrics *Metrics
	Logger  logger.Logger

	// FailPercent is the chance, 0..100, that a request gets a 503.
	FailPercent int
	// DropRedPercent is the chance the red channel is omitted, which makes
	// clients fall back to IR.
	DropRedPercent int

	mu  sync.Mutex
	rng session.Rand
}

// NewSensorAPI creates the handler group. A nil rng uses the package-level source.
func NewSensorAPI(rng session.Rand, metrics *Metrics, log logger.Logger) *SensorAPI {
	if rng == nil {
		rng = session.DefaultRand
	}
	if log == nil {
		log = logger.Noop()
	}
	return &SensorAPI{Metrics: metrics, Logger: log, rng: rng}
}

func (a *SensorAPI) BaseURL() string {
	return ""
}

func (a *SensorAPI) Middlewares() []gin.HandlerFunc {
	return []gin.HandlerFunc{}
}

func (a *SensorAPI) Register(group *gin.RouterGroup) {
	group.GET("/sensors", a.GetSensors)
}

// GetSensors answers with one random reading, or an injected 503.
func (a *SensorAPI) GetSensors(ctx *gin.Context) {
	reading, fail := a.next()
	if fail {
		a.Metrics.failures.Inc()
		a.Logger.Debug("injecting sensor failure")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "sensor busy"})
		return
	}

	a.Metrics.readings.Inc()
	if reading.HeartRate.Red != nil {
		a.Metrics.heartRate.Set(*reading.HeartRate.Red)
	}
	ctx.JSON(http.StatusOK, reading)
}

func (a *SensorAPI) next() (sensor.Reading, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.FailPercent > 0 && a.rng.IntN(100) < a.FailPercent {
		return sensor.Reading{}, true
	}

	var hr sensor.HeartRate
	if a.DropRedPercent == 0 || a.rng.IntN(100) >= a.DropRedPercent {
		hr.Red = sensor.Float(a.between(heartRateMin, heartRateMax))
	}
	hr.IR = sensor.Float(a.between(heartRateMin, heartRateMax))

	return sensor.Reading{
		HeartRate: hr,
		Motion: sensor.Motion{
			Gyroscope:     a.vector(gyroSpan, 0),
			Accelerometer: a.vector(accelSpan, gravity),
			Temperature:   a.between(temperatureMin, temperatureMax),
		},
	}, false
}

// between draws from [lo, hi) at 0.1 resolution.
func (a *SensorAPI) between(lo, hi float64) float64 {
	steps := int((hi - lo) * 10)
	return lo + float64(a.rng.IntN(steps))/10
}

// vector draws each axis from [-span, span); zOffset shifts Z (gravity).
func (a *SensorAPI) vector(span, zOffset float64) sensor.Vector3 {
	return sensor.Vector3{
		X: a.between(-span, span),
		Y: a.between(-span, span),
		Z: a.between(-span, span) + zOffset,
	}
}
