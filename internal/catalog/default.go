package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed data/orbital_zones.json data/buildings.json data/research_trees.json data/economic_rules.json data/transfer_delta_v.json
var defaultData embed.FS

// Default builds the Catalog the engine boots with when no explicit
// catalog files are injected by the collaborator. It is equivalent to
// loading the five catalog files named in spec.md §6 from disk.
func Default() (*Catalog, error) {
	zonesRaw, err := defaultData.ReadFile("data/orbital_zones.json")
	if err != nil {
		return nil, err
	}
	buildingsRaw, err := defaultData.ReadFile("data/buildings.json")
	if err != nil {
		return nil, err
	}
	treesRaw, err := defaultData.ReadFile("data/research_trees.json")
	if err != nil {
		return nil, err
	}
	econRaw, err := defaultData.ReadFile("data/economic_rules.json")
	if err != nil {
		return nil, err
	}
	deltaVRaw, err := defaultData.ReadFile("data/transfer_delta_v.json")
	if err != nil {
		return nil, err
	}
	return LoadJSON(zonesRaw, buildingsRaw, treesRaw, econRaw, deltaVRaw)
}

// LoadJSON assembles a Catalog from the five catalog-file payloads
// named in spec.md §6 (orbital_mechanics, buildings, research_trees,
// economic_rules, transfer_delta_v). Each payload is a self-describing
// JSON document; unknown fields are ignored by encoding/json.
func LoadJSON(zonesJSON, buildingsJSON, treesJSON, econJSON, deltaVJSON []byte) (*Catalog, error) {
	var zones []Zone
	if err := json.Unmarshal(zonesJSON, &zones); err != nil {
		return nil, fmt.Errorf("catalog: decoding orbital zones: %w", err)
	}
	var buildings []Building
	if err := json.Unmarshal(buildingsJSON, &buildings); err != nil {
		return nil, fmt.Errorf("catalog: decoding buildings: %w", err)
	}
	var trees []ResearchTree
	if err := json.Unmarshal(treesJSON, &trees); err != nil {
		return nil, fmt.Errorf("catalog: decoding research trees: %w", err)
	}
	var econ EconomicRules
	if err := json.Unmarshal(econJSON, &econ); err != nil {
		return nil, fmt.Errorf("catalog: decoding economic rules: %w", err)
	}
	var deltaV []DeltaVEntry
	if err := json.Unmarshal(deltaVJSON, &deltaV); err != nil {
		return nil, fmt.Errorf("catalog: decoding transfer delta-v table: %w", err)
	}
	return New(zones, buildings, trees, econ, deltaV), nil
}
