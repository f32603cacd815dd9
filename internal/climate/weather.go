package climate

import (
	"math"

	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/species"
)

// forestLikeBiomes absorb pollution faster than desert-like biomes do.
var forestLikeBiomes = map[region.Biome]bool{
	region.BiomeTropicalRainforest: true,
	region.BiomeTemperateForest:    true,
	region.BiomeBorealForest:       true,
	region.BiomeWetland:            true,
	region.BiomeKelpForest:         true,
}

const (
	convergenceRate     = 0.05
	eclipseTempDrop      = 4.0
	pollutionOutflowRate = 0.02
	forestAbsorption     = 0.08
	nonForestAbsorption  = 0.03
	undergroundBaseTemp  = 14.0
	undergroundBand      = 10.0
)

// seasonalTargetTemperature returns the target temperature for a region at
// a given latitude and season, with low variance near the equator and high
// variance toward the poles.
func seasonalTargetTemperature(latitudeDegrees float64, season string, solarElevation float64) float64 {
	absLat := math.Abs(latitudeDegrees)
	base := 30 - absLat*0.55 // warmer at the equator, colder at the poles

	seasonalSwing := map[string]float64{
		"spring": 0,
		"summer": 1,
		"autumn": 0,
		"winter": -1,
	}[season]

	variance := (absLat / 90) * 15 // poles swing more than the equator
	target := base + seasonalSwing*variance
	target += (solarElevation - 0.5) * 4
	return target
}

// UpdateWeather blends the region's current temperature toward a seasonal
// target (or a thermally buffered underground curve) and keeps humidity
// bounded, per spec.md §4.6. It mutates r in place; callers are expected to
// hold whatever lock already guards r (region.World.Update supplies one).
func UpdateWeather(r *region.Region, season string, celestial State) {
	var target float64
	if r.Layer == species.LayerUnderground {
		target = undergroundBaseTemp
		if r.Climate.Temperature > undergroundBaseTemp+undergroundBand {
			target = undergroundBaseTemp + undergroundBand
		} else if r.Climate.Temperature < undergroundBaseTemp-undergroundBand {
			target = undergroundBaseTemp - undergroundBand
		} else {
			target = r.Climate.Temperature
		}
	} else {
		target = seasonalTargetTemperature(r.Coords.Latitude, season, celestial.SolarElevation)
	}

	if celestial.IsEclipse && celestial.EclipseType == EclipseSolar {
		target -= eclipseTempDrop
	}

	r.Climate.Temperature += (target - r.Climate.Temperature) * convergenceRate
	if math.IsNaN(r.Climate.Temperature) || math.IsInf(r.Climate.Temperature, 0) {
		r.Climate.Temperature = undergroundBaseTemp
	}
	if r.Layer == species.LayerUnderground {
		lo, hi := undergroundBaseTemp-undergroundBand, undergroundBaseTemp+undergroundBand
		if r.Climate.Temperature > hi {
			r.Climate.Temperature = hi
		} else if r.Climate.Temperature < lo {
			r.Climate.Temperature = lo
		}
	}

	humidityTarget := 0.5 + celestial.TidalForce*0.1
	r.Climate.Humidity = clamp01(r.Climate.Humidity + (humidityTarget-r.Climate.Humidity)*convergenceRate)

	applyTidalEffects(r, celestial)
}

// applyTidalEffects boosts resource renewal in underwater/coastal regions
// proportional to tidal force, per spec.md §4.6.
func applyTidalEffects(r *region.Region, celestial State) {
	if r.Layer != species.LayerUnderwater && r.Biome != region.BiomeCoastal {
		return
	}
	multiplier := 1 + celestial.TidalForce*0.3
	for i := range r.Resources {
		r.Resources[i].RenewRate *= multiplier
	}
}

// NeighborPollution is the minimal view DiffusePollutionGraph needs of a
// neighboring region: enough to compute a gradient without a live pointer.
type NeighborPollution struct {
	Pollution float64
}

// DiffusePollutionGraph computes the pollution delta for region r given its
// neighbors' current pollution levels, and applies absorption for r's own
// biome. It returns the new pollution value; callers apply it to their own
// copy of the region (the engine holds the actual lock).
func DiffusePollutionGraph(r region.Region, neighbors []NeighborPollution) float64 {
	pollution := r.Climate.Pollution
	for _, n := range neighbors {
		gradient := pollution - n.Pollution
		if gradient > 0 {
			pollution -= gradient * pollutionOutflowRate
		}
	}

	absorption := nonForestAbsorption
	if forestLikeBiomes[r.Biome] {
		absorption = forestAbsorption
	}
	pollution -= pollution * absorption

	if pollution < 0 {
		pollution = 0
	}
	return pollution
}
