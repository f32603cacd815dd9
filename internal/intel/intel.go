// Package intel tracks what each family tree knows about the regions it has
// observed: reliability-weighted records that decay, get shared between
// families, or get deliberately falsified.
package intel

import (
	"sync"

	"github.com/meerski/arakh/internal/ids"
)

// Source tags how a record was acquired.
type Source string

const (
	SourceExploration Source = "exploration"
	SourceShared      Source = "shared"
	SourceRumor       Source = "rumor"
)

// Observation is the minimal read shape intel needs out of a region: the
// engine derives it from internal/region + internal/species + internal/
// ecosystem and passes it in, keeping this package decoupled from those.
type Observation struct {
	Resources      []string
	SpeciesPresent []ids.SpeciesId
	Threats        []ids.SpeciesId
	PopEstimate    int
}

// Record is one family's knowledge of one region.
type Record struct {
	Reliability      float64
	Source           Source
	Resources        []string
	SpeciesPresent   []ids.SpeciesId
	Threats          []ids.SpeciesId
	PopEstimate      int
	IsMisinformation bool
	LastUpdatedTick  uint64
}

func cloneRecord(r Record) Record {
	r.Resources = append([]string(nil), r.Resources...)
	r.SpeciesPresent = append([]ids.SpeciesId(nil), r.SpeciesPresent...)
	r.Threats = append([]ids.SpeciesId(nil), r.Threats...)
	return r
}

// Registry holds every family's intel map. Owned exclusively by the engine;
// readers get copies.
type Registry struct {
	mu       sync.RWMutex
	byFamily map[ids.FamilyTreeId]map[ids.RegionId]Record
}

// NewRegistry returns an empty intel registry.
func NewRegistry() *Registry {
	return &Registry{byFamily: make(map[ids.FamilyTreeId]map[ids.RegionId]Record)}
}

// GetOrCreate ensures familyTreeID has an (initially empty) intel map and
// returns a copy of it.
func (reg *Registry) GetOrCreate(familyTreeID ids.FamilyTreeId) map[ids.RegionId]Record {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.ensureFamilyLocked(familyTreeID)
}

func (reg *Registry) ensureFamilyLocked(familyTreeID ids.FamilyTreeId) map[ids.RegionId]Record {
	m, ok := reg.byFamily[familyTreeID]
	if !ok {
		m = make(map[ids.RegionId]Record)
		reg.byFamily[familyTreeID] = m
	}
	out := make(map[ids.RegionId]Record, len(m))
	for k, v := range m {
		out[k] = cloneRecord(v)
	}
	return out
}

// Get returns a copy of the record familyTreeID holds for regionID, if any.
func (reg *Registry) Get(familyTreeID ids.FamilyTreeId, regionID ids.RegionId) (Record, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	m, ok := reg.byFamily[familyTreeID]
	if !ok {
		return Record{}, false
	}
	r, ok := m[regionID]
	if !ok {
		return Record{}, false
	}
	return cloneRecord(r), true
}

// RecordExploration stores a first-hand, fully reliable observation for
// familyTreeID, per spec.md §4.9.
func (reg *Registry) RecordExploration(familyTreeID ids.FamilyTreeId, regionID ids.RegionId, obs Observation, tick uint64) Record {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.ensureFamilyLocked(familyTreeID)

	rec := Record{
		Reliability:     1.0,
		Source:          SourceExploration,
		Resources:       append([]string(nil), obs.Resources...),
		SpeciesPresent:  append([]ids.SpeciesId(nil), obs.SpeciesPresent...),
		Threats:         append([]ids.SpeciesId(nil), obs.Threats...),
		PopEstimate:     obs.PopEstimate,
		LastUpdatedTick: tick,
	}
	reg.byFamily[familyTreeID][regionID] = rec
	return cloneRecord(rec)
}

// ShareIntel copies fromFamily's record for regionID to toFamily at 0.8 of
// its reliability, but only if that beats whatever toFamily already has.
func (reg *Registry) ShareIntel(fromFamily, toFamily ids.FamilyTreeId, regionID ids.RegionId, tick uint64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	source, ok := reg.byFamily[fromFamily][regionID]
	if !ok {
		return
	}
	reg.ensureFamilyLocked(toFamily)

	shared := cloneRecord(source)
	shared.Reliability *= 0.8
	shared.Source = SourceShared
	shared.LastUpdatedTick = tick

	existing, hasExisting := reg.byFamily[toFamily][regionID]
	if hasExisting && existing.Reliability >= shared.Reliability {
		return
	}
	reg.byFamily[toFamily][regionID] = shared
}

const misinformationBlendThreshold = 0.6
const misinformationBlendPenalty = 0.2

// PlantMisinformation falsifies familyTreeID's knowledge of regionID, per
// spec.md §4.9: a weak or absent record is overwritten wholesale; a strong
// one is blended, keeping the real resources/species/popEstimate and only
// appending false threats.
func (reg *Registry) PlantMisinformation(familyTreeID ids.FamilyTreeId, regionID ids.RegionId, falsified Observation, tick uint64) Record {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.ensureFamilyLocked(familyTreeID)

	existing, hasExisting := reg.byFamily[familyTreeID][regionID]
	if !hasExisting || existing.Reliability < misinformationBlendThreshold {
		rec := Record{
			Reliability:      misinformationBlendThreshold,
			Source:           SourceRumor,
			Resources:        append([]string(nil), falsified.Resources...),
			SpeciesPresent:   append([]ids.SpeciesId(nil), falsified.SpeciesPresent...),
			Threats:          append([]ids.SpeciesId(nil), falsified.Threats...),
			PopEstimate:      falsified.PopEstimate,
			IsMisinformation: true,
			LastUpdatedTick:  tick,
		}
		reg.byFamily[familyTreeID][regionID] = rec
		return cloneRecord(rec)
	}

	blended := cloneRecord(existing)
	blended.Reliability -= misinformationBlendPenalty
	blended.Threats = append(blended.Threats, falsified.Threats...)
	blended.IsMisinformation = true
	blended.LastUpdatedTick = tick
	reg.byFamily[familyTreeID][regionID] = blended
	return cloneRecord(blended)
}

const reliabilityDecayPerTick = 0.001

// DecayIntelReliability decays every record held by familyTreeID by
// 0.001 x ticksSinceUpdate, removing any record whose reliability reaches
// zero or below.
func (reg *Registry) DecayIntelReliability(familyTreeID ids.FamilyTreeId, tick uint64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	m, ok := reg.byFamily[familyTreeID]
	if !ok {
		return
	}
	for regionID, rec := range m {
		elapsed := tick - rec.LastUpdatedTick
		rec.Reliability -= reliabilityDecayPerTick * float64(elapsed)
		rec.LastUpdatedTick = tick
		if rec.Reliability <= 0 {
			delete(m, regionID)
			continue
		}
		m[regionID] = rec
	}
}

// DecayAll decays every family's intel map at tick.
func (reg *Registry) DecayAll(tick uint64) {
	reg.mu.Lock()
	families := make([]ids.FamilyTreeId, 0, len(reg.byFamily))
	for f := range reg.byFamily {
		families = append(families, f)
	}
	reg.mu.Unlock()

	for _, f := range families {
		reg.DecayIntelReliability(f, tick)
	}
}
