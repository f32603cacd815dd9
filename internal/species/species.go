// Package species holds fully-resolved species: their taxonomy-derived
// traits, tier, status, and running population total.
package species

import (
	"sync"

	"github.com/meerski/arakh/internal/errors"
	"github.com/meerski/arakh/internal/ids"
)

// Layer partitions a region (and a species' habitat) into observability
// classes. A character only perceives others whose species occupies the
// same effective layer within the region (aquatic species always count as
// underwater).
type Layer string

const (
	LayerSurface     Layer = "surface"
	LayerUnderwater  Layer = "underwater"
	LayerUnderground Layer = "underground"
)

// Diet is a closed tagged union; the action kernel dispatches on it rather
// than on a polymorphic method.
type Diet string

const (
	DietCarnivore     Diet = "carnivore"
	DietHerbivore     Diet = "herbivore"
	DietOmnivore      Diet = "omnivore"
	DietFilterFeeder  Diet = "filter_feeder"
	DietDetritivore   Diet = "detritivore"
)

// Tier classifies how a species entered the world. generated is declared
// for completeness but, per the design notes, is never produced by any
// seed data — it is left unused rather than guessed at.
type Tier string

const (
	TierFlagship  Tier = "flagship"
	TierNotable   Tier = "notable"
	TierGenerated Tier = "generated"
)

// Status moves monotonically down this track; extinction is final within a
// run and never reverses.
type Status string

const (
	StatusStable               Status = "stable"
	StatusVulnerable            Status = "vulnerable"
	StatusEndangered            Status = "endangered"
	StatusCriticallyEndangered Status = "critically_endangered"
	StatusExtinct              Status = "extinct"
)

var statusTrack = []Status{StatusStable, StatusVulnerable, StatusEndangered, StatusCriticallyEndangered, StatusExtinct}

func statusRank(s Status) int {
	for i, st := range statusTrack {
		if st == s {
			return i
		}
	}
	return 0
}

// Perception holds the sense-modality profile resolved from taxonomy.
type Perception struct {
	VisualRange      float64
	HearingRange     float64
	SmellRange       float64
	Echolocation     bool
	Electroreception bool
	ThermalSensing   bool
}

// Descriptor is the input to Register: the fully-resolved trait set for a
// new species plus its name and tier, typically produced by resolving a
// taxonomy path and layering a seed-specific override map on top.
type Descriptor struct {
	Name             string
	Tier             Tier
	Intelligence     float64
	Size             float64
	Strength         float64
	Speed            float64
	LifespanTicks    int
	MaturityTicks    int
	GestationTicks   int
	ReproductionRate float64
	Diet             Diet
	SocialStructure  string
	Nocturnal        bool
	Aquatic          bool
	CanFly           bool
	Habitat          []Layer
	Perception       Perception
	Overrides        map[string]float64
}

// Species is the resolved, registered record.
type Species struct {
	ID               ids.SpeciesId
	Name             string
	Tier             Tier
	Status           Status
	Intelligence     float64
	Size             float64
	Strength         float64
	Speed            float64
	LifespanTicks    int
	MaturityTicks    int
	GestationTicks   int
	ReproductionRate float64
	Diet             Diet
	SocialStructure  string
	Nocturnal        bool
	Aquatic          bool
	CanFly           bool
	Habitat          []Layer
	Perception       Perception
	Overrides        map[string]float64
	TotalPopulation  int
}

// HasHabitat reports whether the species' habitat set includes layer l.
func (s Species) HasHabitat(l Layer) bool {
	for _, h := range s.Habitat {
		if h == l {
			return true
		}
	}
	return false
}

// Registry holds every species ever created, indexed by id and name.
// Species are retained for history even after extinction: nothing is ever
// deleted from this registry.
type Registry struct {
	mu      sync.RWMutex
	arena   ids.Arena
	byID    map[ids.SpeciesId]*Species
	byName  map[string]ids.SpeciesId
	nextPop map[ids.SpeciesId]int
}

// NewRegistry returns an empty species registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[ids.SpeciesId]*Species),
		byName: make(map[string]ids.SpeciesId),
	}
}

// Register resolves a descriptor into a stored Species and returns its id.
func (r *Registry) Register(d Descriptor) (ids.SpeciesId, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[d.Name]; exists {
		return 0, errors.Wrap(errors.ErrDuplicateID, "species already registered: "+d.Name, nil)
	}

	id := ids.SpeciesId(r.arena.Next())
	habitat := append([]Layer(nil), d.Habitat...)
	overrides := make(map[string]float64, len(d.Overrides))
	for k, v := range d.Overrides {
		overrides[k] = v
	}

	sp := &Species{
		ID:               id,
		Name:             d.Name,
		Tier:             d.Tier,
		Status:           StatusStable,
		Intelligence:     d.Intelligence,
		Size:             d.Size,
		Strength:         d.Strength,
		Speed:            d.Speed,
		LifespanTicks:    d.LifespanTicks,
		MaturityTicks:    d.MaturityTicks,
		GestationTicks:   d.GestationTicks,
		ReproductionRate: d.ReproductionRate,
		Diet:             d.Diet,
		SocialStructure:  d.SocialStructure,
		Nocturnal:        d.Nocturnal,
		Aquatic:          d.Aquatic,
		CanFly:           d.CanFly,
		Habitat:          habitat,
		Perception:       d.Perception,
		Overrides:        overrides,
	}
	r.byID[id] = sp
	r.byName[d.Name] = id
	return id, nil
}

// Get returns a copy of the species registered under id.
func (r *Registry) Get(id ids.SpeciesId) (Species, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.byID[id]
	if !ok {
		return Species{}, false
	}
	return *sp, true
}

// GetByName returns a copy of the species registered under name.
func (r *Registry) GetByName(name string) (Species, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return Species{}, false
	}
	return *r.byID[id], true
}

// GetAll returns a copy of every registered species, in no particular
// order.
func (r *Registry) GetAll() []Species {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Species, 0, len(r.byID))
	for _, sp := range r.byID {
		out = append(out, *sp)
	}
	return out
}

// populationThresholds maps a status to the population ceiling below which
// that status (or worse) applies. Stylized, not ecologically calibrated.
var populationThresholds = []struct {
	status    Status
	belowOrEq int
}{
	{StatusCriticallyEndangered, 10},
	{StatusEndangered, 50},
	{StatusVulnerable, 200},
}

// UpdatePopulation adjusts a species' total population by delta and moves
// its status monotonically down the stable→extinct track as thresholds are
// crossed. Extinction, once reached, never reverses even if delta is later
// positive (e.g. a late-arriving birth event racing a death).
func (r *Registry) UpdatePopulation(id ids.SpeciesId, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.byID[id]
	if !ok {
		return errors.ErrSpeciesNotFound
	}
	if sp.Status == StatusExtinct {
		return nil
	}
	sp.TotalPopulation += delta
	if sp.TotalPopulation < 0 {
		sp.TotalPopulation = 0
	}

	target := StatusStable
	if sp.TotalPopulation <= 0 {
		target = StatusExtinct
	} else {
		for _, th := range populationThresholds {
			if sp.TotalPopulation <= th.belowOrEq {
				target = th.status
				break
			}
		}
	}
	if statusRank(target) > statusRank(sp.Status) {
		sp.Status = target
	}
	return nil
}

// Restore reinserts a species exactly as recorded in a snapshot document,
// preserving its id rather than minting a new one. Used only during
// world boot-from-checkpoint, before any other caller can observe the
// registry.
func (r *Registry) Restore(sp Species) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := sp
	cp.Habitat = append([]Layer(nil), sp.Habitat...)
	overrides := make(map[string]float64, len(sp.Overrides))
	for k, v := range sp.Overrides {
		overrides[k] = v
	}
	cp.Overrides = overrides

	r.byID[sp.ID] = &cp
	r.byName[sp.Name] = sp.ID
	r.arena.Bump(uint64(sp.ID))
}
