// Package climate computes the celestial state driving each tick's weather,
// and applies the per-region weather update, tidal effects, eclipse
// shading, and pollution diffusion described in spec.md §4.6.
package climate

import "math"

// Celestial cycle periods, in ticks. Stylized — not astronomically
// calibrated, but stable enough to produce repeatable day/night, lunar, and
// tidal cycles for the simulation's own clock.
const (
	LunarPeriod   = 2958 // ticks per lunar cycle
	TidalPeriod   = 719  // ticks per tidal cycle (roughly a quarter of the lunar period)
	eclipseWindow = 3    // ticks of near-alignment counted as an eclipse
)

// EclipseType distinguishes solar from lunar eclipses.
type EclipseType string

const (
	EclipseNone  EclipseType = ""
	EclipseSolar EclipseType = "solar"
	EclipseLunar EclipseType = "lunar"
)

// State is the celestial snapshot for one tick at one latitude.
type State struct {
	SolarElevation    float64 // [0,1]
	LunarIllumination float64 // [0,1]
	TidalForce        float64 // [0,1]
	IsEclipse         bool
	EclipseType       EclipseType
}

// hourAngle maps a tick into a 24-hour cycle expressed as radians from
// solar noon, using the same 86.4-ticks-per-year convention as the rest of
// the content layer scaled down to a day: one in-game day is ticksPerYear/365.
const ticksPerDay = 86.4 / 365.0

func hourAngle(tick uint64) float64 {
	fraction := math.Mod(float64(tick)/ticksPerDay, 1.0)
	return (fraction - 0.5) * 2 * math.Pi
}

// Compute returns the celestial state for tick at latitude (degrees).
func Compute(tick uint64, latitudeDegrees float64) State {
	declination := 23.44 * math.Sin(2*math.Pi*float64(tick)/(365*ticksPerDay))
	latRad := latitudeDegrees * math.Pi / 180
	declRad := declination * math.Pi / 180

	solar := math.Cos(hourAngle(tick)) * math.Cos(latRad-declRad)
	solarElevation := clamp01((solar + 1) / 2)

	lunarPhase := math.Mod(float64(tick), LunarPeriod) / LunarPeriod
	lunarIllumination := clamp01((1 - math.Cos(2*math.Pi*lunarPhase)) / 2)

	tidalPhase := math.Mod(float64(tick), TidalPeriod) / TidalPeriod
	tidalForce := clamp01((1 + math.Cos(2*math.Pi*tidalPhase)) / 2)

	isEclipse := false
	eclipseType := EclipseNone
	lunarTickInPeriod := math.Mod(float64(tick), LunarPeriod)
	if lunarTickInPeriod < eclipseWindow {
		isEclipse = true
		eclipseType = EclipseLunar
	} else if math.Abs(lunarTickInPeriod-LunarPeriod/2) < eclipseWindow {
		isEclipse = true
		eclipseType = EclipseSolar
	}

	return State{
		SolarElevation:    solarElevation,
		LunarIllumination: lunarIllumination,
		TidalForce:        tidalForce,
		IsEclipse:         isEclipse,
		EclipseType:       eclipseType,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
