// Package taxonomy registers rank nodes (class/order/family/genus/species)
// with parent links and partial traits, and resolves the full trait set for
// a species by walking the path from root to leaf and layering overrides.
package taxonomy

import (
	"sync"

	"github.com/meerski/arakh/internal/errors"
)

// Rank is one level of the taxonomic hierarchy. The forest is rooted at
// rank=class; every other rank must name a parent at the next rank up.
type Rank string

const (
	RankClass   Rank = "class"
	RankOrder   Rank = "order"
	RankFamily  Rank = "family"
	RankGenus   Rank = "genus"
	RankSpecies Rank = "species"
)

// rankOrder fixes root-to-leaf traversal order for resolveTraits.
var rankOrder = []Rank{RankClass, RankOrder, RankFamily, RankGenus, RankSpecies}

// Perception carries the sense-modality partial overlay. It is deep-merged
// field by field rather than replaced wholesale when folding a path.
type Perception struct {
	VisualRange      *float64
	HearingRange     *float64
	SmellRange       *float64
	Echolocation     *bool
	Electroreception *bool
	ThermalSensing   *bool
}

func mergePerception(base, override *Perception) *Perception {
	if override == nil {
		return base
	}
	if base == nil {
		cp := *override
		return &cp
	}
	out := *base
	if override.VisualRange != nil {
		out.VisualRange = override.VisualRange
	}
	if override.HearingRange != nil {
		out.HearingRange = override.HearingRange
	}
	if override.SmellRange != nil {
		out.SmellRange = override.SmellRange
	}
	if override.Echolocation != nil {
		out.Echolocation = override.Echolocation
	}
	if override.Electroreception != nil {
		out.Electroreception = override.Electroreception
	}
	if override.ThermalSensing != nil {
		out.ThermalSensing = override.ThermalSensing
	}
	return &out
}

// Traits is a partial overlay of resolved species traits. A nil field is
// absent at this node and falls through to a more general ancestor, or to
// the class-level default if absent along the whole path.
type Traits struct {
	Intelligence     *float64
	Size             *float64
	Strength         *float64
	Speed            *float64
	LifespanTicks    *int
	MaturityTicks    *int
	GestationTicks   *int
	ReproductionRate *float64
	Diet             *string
	SocialStructure  *string
	Nocturnal        *bool
	Aquatic          *bool
	CanFly           *bool
	Habitat          []string
	Perception       *Perception
	// Extra holds any additional named trait overrides registered on this
	// node, merged key-by-key (later registrations win per key).
	Extra map[string]float64
}

// merge folds override onto base: non-nil/non-empty fields in override win,
// Perception deep-merges, Extra merges key by key.
func merge(base, override Traits) Traits {
	out := base
	if override.Intelligence != nil {
		out.Intelligence = override.Intelligence
	}
	if override.Size != nil {
		out.Size = override.Size
	}
	if override.Strength != nil {
		out.Strength = override.Strength
	}
	if override.Speed != nil {
		out.Speed = override.Speed
	}
	if override.LifespanTicks != nil {
		out.LifespanTicks = override.LifespanTicks
	}
	if override.MaturityTicks != nil {
		out.MaturityTicks = override.MaturityTicks
	}
	if override.GestationTicks != nil {
		out.GestationTicks = override.GestationTicks
	}
	if override.ReproductionRate != nil {
		out.ReproductionRate = override.ReproductionRate
	}
	if override.Diet != nil {
		out.Diet = override.Diet
	}
	if override.SocialStructure != nil {
		out.SocialStructure = override.SocialStructure
	}
	if override.Nocturnal != nil {
		out.Nocturnal = override.Nocturnal
	}
	if override.Aquatic != nil {
		out.Aquatic = override.Aquatic
	}
	if override.CanFly != nil {
		out.CanFly = override.CanFly
	}
	if override.Habitat != nil {
		out.Habitat = override.Habitat
	}
	out.Perception = mergePerception(out.Perception, override.Perception)
	if len(override.Extra) > 0 {
		merged := make(map[string]float64, len(out.Extra)+len(override.Extra))
		for k, v := range out.Extra {
			merged[k] = v
		}
		for k, v := range override.Extra {
			merged[k] = v
		}
		out.Extra = merged
	}
	return out
}

// defaults supplies class-level fallbacks for anything absent along an
// entire path, so resolveTraits never returns a field with zero meaning.
func defaults() Traits {
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }
	b := func(v bool) *bool { return &v }
	s := func(v string) *string { return &v }
	return Traits{
		Intelligence:     f(10),
		Size:             f(10),
		Strength:         f(10),
		Speed:            f(10),
		LifespanTicks:    i(8640),
		MaturityTicks:    i(864),
		GestationTicks:   i(86),
		ReproductionRate: f(1),
		Diet:             s("omnivore"),
		SocialStructure:  s("solitary"),
		Nocturnal:        b(false),
		Aquatic:          b(false),
		CanFly:           b(false),
		Habitat:          []string{"surface"},
		Perception: &Perception{
			VisualRange:      f(10),
			HearingRange:     f(10),
			SmellRange:       f(10),
			Echolocation:     b(false),
			Electroreception: b(false),
			ThermalSensing:   b(false),
		},
	}
}

// Key identifies a node by rank and name. Names are unique within a rank.
type Key struct {
	Rank Rank
	Name string
}

type node struct {
	key    Key
	parent *Key
	traits Traits
}

// Path names a node at every rank down to species, used to resolve a full
// trait set. Ranks above the node's own rank may be left empty only if the
// node itself is rooted at a higher rank (e.g. resolving for a genus path).
type Path struct {
	Class   string
	Order   string
	Family  string
	Genus   string
	Species string
}

func (p Path) name(r Rank) string {
	switch r {
	case RankClass:
		return p.Class
	case RankOrder:
		return p.Order
	case RankFamily:
		return p.Family
	case RankGenus:
		return p.Genus
	case RankSpecies:
		return p.Species
	}
	return ""
}

// Registry holds every registered taxonomy node, guarded by a single mutex
// in the style used throughout this module's registries: callers never
// receive a live pointer into internal state.
type Registry struct {
	mu    sync.RWMutex
	nodes map[Key]node
}

// NewRegistry returns an empty taxonomy registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[Key]node)}
}

// Register adds a rank node. A class node must have no parent; every other
// rank must name a parent at the next rank up, and that parent must already
// exist — registering against an unknown parent is a contract violation.
func (r *Registry) Register(rank Rank, name string, parentName string, traits Traits) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key{Rank: rank, Name: name}
	if _, exists := r.nodes[key]; exists {
		return errors.Wrap(errors.ErrDuplicateID, "taxonomy node already registered: "+string(rank)+"/"+name, nil)
	}

	var parentKey *Key
	switch rank {
	case RankClass:
		if parentName != "" {
			return errors.NewInvalidInput("class %q must not declare a parent", name)
		}
	case RankOrder, RankFamily, RankGenus, RankSpecies:
		if parentName == "" {
			return errors.NewInvalidInput("%s %q requires a parent", rank, name)
		}
		pRank := parentRank(rank)
		pk := Key{Rank: pRank, Name: parentName}
		if _, ok := r.nodes[pk]; !ok {
			return errors.Wrap(errors.ErrUnknownParent, "unknown parent "+string(pRank)+"/"+parentName+" for "+string(rank)+"/"+name, nil)
		}
		parentKey = &pk
	default:
		return errors.NewInvalidInput("unknown rank %q", rank)
	}

	r.nodes[key] = node{key: key, parent: parentKey, traits: traits}
	return nil
}

func parentRank(rank Rank) Rank {
	switch rank {
	case RankOrder:
		return RankClass
	case RankFamily:
		return RankOrder
	case RankGenus:
		return RankFamily
	case RankSpecies:
		return RankGenus
	}
	return ""
}

// Get returns the node registered at rank/name, if any.
func (r *Registry) Get(rank Rank, name string) (Key, Traits, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[Key{Rank: rank, Name: name}]
	if !ok {
		return Key{}, Traits{}, false
	}
	return n.key, n.traits, true
}

// ResolveTraits walks class→species along path, folding each node's trait
// map left to right so the most specific rank wins, then layers the
// class-level defaults under anything still unset. A rank left blank in
// path is simply skipped. Registration order of unrelated branches never
// affects the result: this only ever reads the path named, never iterates
// the whole registry.
func (r *Registry) ResolveTraits(path Path) (Traits, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := defaults()
	for _, rank := range rankOrder {
		name := path.name(rank)
		if name == "" {
			continue
		}
		n, ok := r.nodes[Key{Rank: rank, Name: name}]
		if !ok {
			return Traits{}, errors.NewNotFound("taxonomy node not registered: %s/%s", rank, name)
		}
		out = merge(out, n.traits)
	}
	return out, nil
}
