// Package genetics implements breeding compatibility checks and offspring
// gene blending on top of internal/character.
package genetics

import (
	"math/rand"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/species"
)

// crossSpeciesAttemptProbability is the deliberately rare per-attempt
// success rate for otherwise-compatible cross-species breeding, per
// spec.md §9 ("Cross-species breeding is deliberately rare... a behavioral
// contract, not a bug").
const crossSpeciesAttemptProbability = 0.01

const minHealthToBreed = 0.3

// CanBreed reports whether a and b may breed, and a reason when they may
// not. For cross-species pairs, habitat and size-ratio failures are always
// deterministic and are the only failures that report "habitat" or "size"
// in the reason; any other refusal (same sex, immaturity, kinship,
// gestation, low health, or a failed cross-species attempt roll) uses a
// different reason string.
func CanBreed(rng *rand.Rand, a, b character.Character, spA, spB species.Species, tick uint64) (bool, string) {
	if a.Sex == b.Sex {
		return false, "same_sex"
	}
	if !character.IsMature(a, spA) || !character.IsMature(b, spB) {
		return false, "not_mature"
	}
	if character.IsParentChild(a, b) {
		return false, "parent_child"
	}
	if character.IsSibling(a, b) {
		return false, "sibling"
	}
	female := a
	if b.Sex == character.SexFemale {
		female = b
	}
	if character.IsGestating(female, tick) {
		return false, "gestating"
	}
	if a.Health < minHealthToBreed || b.Health < minHealthToBreed {
		return false, "low_health"
	}

	if spA.ID == spB.ID {
		return true, ""
	}

	if !habitatsIntersect(spA, spB) {
		return false, "habitat"
	}
	sizeRatio := sizeRatio(spA.Size, spB.Size)
	if sizeRatio > 2 {
		return false, "size"
	}

	if rng.Float64() < crossSpeciesAttemptProbability {
		return true, ""
	}
	return false, "cross_species_attempt_failed"
}

func habitatsIntersect(a, b species.Species) bool {
	for _, ha := range a.Habitat {
		for _, hb := range b.Habitat {
			if ha == hb {
				return true
			}
		}
	}
	return false
}

func sizeRatio(a, b float64) float64 {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	if lo <= 0 {
		return hi
	}
	return hi / lo
}

const mutationSigma = 6.0

func clamp0to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// CalculateOffspringGenetics blends mother and father genes into a child
// gene vector: every gene on either parent becomes
// clamp(0,100, Gaussian((m+f)/2, mutationSigma)).
func CalculateOffspringGenetics(rng *rand.Rand, mother, father character.Character) map[character.Gene]float64 {
	out := make(map[character.Gene]float64, len(character.AllGenes))
	for _, gene := range character.AllGenes {
		m, hasM := mother.Genetics[gene]
		f, hasF := father.Genetics[gene]
		if !hasM && !hasF {
			continue
		}
		if !hasM {
			m = f
		}
		if !hasF {
			f = m
		}
		mean := (m + f) / 2
		out[gene] = clamp0to100(rng.NormFloat64()*mutationSigma + mean)
	}
	return out
}

// OffspringSex chooses a uniform-random sex for a new offspring.
func OffspringSex(rng *rand.Rand) character.Sex {
	if rng.Intn(2) == 0 {
		return character.SexMale
	}
	return character.SexFemale
}

// OffspringGeneration returns max(parent generations) + 1.
func OffspringGeneration(mother, father character.Character) int {
	gen := mother.Generation
	if father.Generation > gen {
		gen = father.Generation
	}
	return gen + 1
}

// OffspringCount samples species.ReproductionRate with small jitter and
// rounds to a non-negative integer count of offspring for one breeding
// event.
func OffspringCount(rng *rand.Rand, sp species.Species) int {
	jitter := 1 + (rng.Float64()-0.5)*0.4 // +/-20%
	n := sp.ReproductionRate * jitter
	count := int(n + 0.5)
	if count < 1 {
		count = 1
	}
	return count
}

// OffspringParentIDs fixes parent id order as [father, mother].
func OffspringParentIDs(mother, father character.Character) []ids.CharacterId {
	return []ids.CharacterId{father.ID, mother.ID}
}
