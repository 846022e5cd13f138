// Package production implements the pure, side-effect-free formulas
// of spec.md §4.4 (the "Production Calculator"): the two upgrade-factor
// combination rules, extraction efficiency, mining/building rates, the
// zone-crowding penalty, the probe-count scaling penalty, and
// structure rates. Nothing here touches GameState; callers thread
// their own skill/upgrade values in and a rate back out.
package production

import "math"

// WeightedSumFactor implements the additive combination rule used by
// energy and structure categories: F = 1 + Σ w_i (s_i − 1). Skill
// values that are not strictly positive contribute zero, per
// spec.md §4.4.
func WeightedSumFactor(weights, skills map[string]float64) float64 {
	f := 1.0
	for name, s := range skills {
		if s <= 0 {
			continue
		}
		w := weights[name]
		f += w * (s - 1)
	}
	return f
}

// GeometricExponentialFactor implements the multiplicative combination
// rule used by probe/Dyson production categories:
//
//	F = (Π v_i)^(alpha/n), v_i = coefficient_i * skill_i > 0
//
// computed as exp(alpha * mean(log v_i)) to avoid overflow on large
// products. Non-positive values are excluded from both the product
// and n.
func GeometricExponentialFactor(coefficients, skills map[string]float64, alpha float64) float64 {
	sumLog := 0.0
	n := 0
	for name, s := range skills {
		v := coefficients[name] * s
		if v <= 0 {
			continue
		}
		sumLog += math.Log(v)
		n++
	}
	if n == 0 {
		return 1
	}
	return math.Exp(alpha * (sumLog / float64(n)))
}

// ExtractionEfficiency computes η(z), the fraction of mined mass that
// yields refined metal (spec.md §4.4):
//
//	η = clamp(metalPercentage + max(0, recyclingSkill-0.75)*0.5 + refineryBonus, 0, 1)
func ExtractionEfficiency(metalPercentage, recyclingSkill, refineryBonus float64) float64 {
	eta := metalPercentage + math.Max(0, recyclingSkill-0.75)*0.5 + refineryBonus
	if eta < 0 {
		return 0
	}
	if eta > 1 {
		return 1
	}
	return eta
}

// MiningRate returns the kg/day extraction rate of n probes in a zone
// with the given catalog mining multiplier and probe_mining upgrade
// factor. The Dyson zone never mines; callers pass isDyson so the
// formula's zero case is explicit rather than relying on a zero
// catalog multiplier.
func MiningRate(n, zoneMiningMultiplier, probeMiningUpgrade float64, isDyson bool) float64 {
	if isDyson || n <= 0 {
		return 0
	}
	return n * 100 * zoneMiningMultiplier * probeMiningUpgrade
}

// CrowdingPenalty computes the zone-crowding decay factor (spec.md
// §4.4, Intelligence: autonomy tree). Dyson zones are exempt and
// should not call this (or should pass exempt=true).
func CrowdingPenalty(probeMass, zoneTotalMass, thresholdRatio, decayRate float64, exempt bool) float64 {
	if exempt || zoneTotalMass <= 0 {
		return 1
	}
	ratio := probeMass / zoneTotalMass
	if ratio <= thresholdRatio {
		return 1
	}
	excess := ratio - thresholdRatio
	return math.Exp(-decayRate * excess)
}

// ProbeCountScalingPenalty returns n^β, the sub-linear dampener that
// replaces the naive linear probe-count term in BuildingRate (spec.md
// §4.4). β defaults to 1 (linear, no penalty) when the catalog has no
// explicit crowding exponent for the rate kind.
func ProbeCountScalingPenalty(n, beta float64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Pow(n, beta)
}

// BuildingRate returns the kg/day construction-mass rate of n probes,
// applying the probe-count scaling penalty in place of a naive linear
// n term, the probe_build upgrade factor, and (unless exempt) the
// zone-crowding factor.
func BuildingRate(n, beta, probeBuildUpgrade, crowdingFactor float64, crowdingExempt bool) float64 {
	rate := ProbeCountScalingPenalty(n, beta) * 20 * probeBuildUpgrade
	if !crowdingExempt {
		rate *= crowdingFactor
	}
	return rate
}

// StructureBaseRate resolves a building's explicit rate multiplier
// against a base per-probe rate, falling back to a legacy
// effects.*_per_day field when the multiplier is zero (spec.md §4.4).
func StructureBaseRate(rateMultiplier, baseProbeRate, legacyPerDay float64) float64 {
	if rateMultiplier > 0 {
		return rateMultiplier * baseProbeRate
	}
	return legacyPerDay
}

// StructureRate computes a structure's effective kg/day (mining or
// building) or W (energy, when baseRate is already in watts) rate:
//
//	base_rate × k^γ × orbital_efficiency × structure_perf_factor
func StructureRate(count int, gamma, baseRate, orbitalEfficiency, perfFactor float64) float64 {
	if count <= 0 || baseRate <= 0 {
		return 0
	}
	return baseRate * math.Pow(float64(count), gamma) * orbitalEfficiency * perfFactor
}
