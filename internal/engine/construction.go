package engine

import (
	"math"
	"strings"

	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/production"
)

// splitConstructionKey splits a "zone::building" key (§3) into its parts.
func splitConstructionKey(key string) (zoneID, buildingID string, ok bool) {
	parts := strings.SplitN(key, "::", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// runConstruction advances structure construction for every zone with
// a positive construct allocation, consuming the zone's enabled queue
// in order (§3 enabled_construction is an ordered sequence; §4.7's
// probe formula generalizes directly to the construct allocation,
// which the source groups with the rest of per-probe activity rather
// than giving it its own component).
func runConstruction(cat *catalog.Catalog, g *GameState, theta, dt float64) {
	buildUpgrade := upgradeFactor(g, "probe_build")
	beta := cat.Economic.Crowding.Exponent("construct")

	for zoneID, alloc := range g.ProbeAllocationsByZone {
		if alloc.Construct <= 0 {
			continue
		}
		key := nextConstructionKey(g, zoneID)
		if key == "" {
			continue
		}
		zone, ok := g.Zones[zoneID]
		if !ok {
			continue
		}
		catZone, ok := cat.GetZone(zoneID)
		if !ok {
			continue
		}

		n := float64(g.ZoneProbeCount(zoneID))
		limits := g.ZoneMassLimits[zoneID]
		massThrottle := replicateMassThrottle(zone, limits.Construct)
		if massThrottle <= 0 {
			continue
		}

		crowding := production.CrowdingPenalty(zone.ProbeMass, zone.TotalMass(), cat.Economic.Crowding.ThresholdRatio, cat.Economic.Crowding.DecayRate, catZone.IsDyson)
		rate := production.BuildingRate(n*alloc.Construct, beta, buildUpgrade, crowding, catZone.IsDyson) * theta * massThrottle *
			(1 + skillBonus(g, "dexterity_bonus"))
		progressKG := rate * dt
		if progressKG <= 0 {
			continue
		}

		metalRatio := 1.0
		if progressKG > 0 {
			metalRatio = math.Min(1, zone.StoredMetal/progressKG)
		}
		actualProgress := progressKG * metalRatio
		zone.StoredMetal -= actualProgress
		g.ConstructionProgress[key] += actualProgress

		target := g.ConstructionTargets[key]
		if target > 0 && g.ConstructionProgress[key] >= target {
			g.ConstructionProgress[key] -= target
			_, buildingID, _ := splitConstructionKey(key)
			if g.StructuresByZone[zoneID] == nil {
				g.StructuresByZone[zoneID] = map[string]int{}
			}
			g.StructuresByZone[zoneID][buildingID]++
			g.CumulativeStats["total_structures_built"]++
		}
	}
}

// nextConstructionKey returns the first enabled construction key
// belonging to zoneID, in enabled_construction order. A key stays
// enabled after a structure commits, so it keeps being returned.
func nextConstructionKey(g *GameState, zoneID string) string {
	prefix := zoneID + "::"
	for _, key := range g.EnabledConstruction {
		if strings.HasPrefix(key, prefix) {
			return key
		}
	}
	return ""
}
