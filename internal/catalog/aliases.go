package catalog

// skillAliases normalizes the legacy skill names the catalog files may
// still carry into the canonical names the core uses internally
// (spec.md §9 Design Notes). The boundary between catalog and core is
// the only place these aliases are resolved; nothing downstream of
// New should ever see a non-canonical name.
var skillAliases = map[string]string{
	"energy_collection":  "solar_pv",
	"robotic":            "manipulation",
	"thermal_efficiency": "radiator",
	"energy_storage":     "battery_density",
	"materials_science":  "materials",
}

// CanonicalSkill resolves a possibly-aliased skill or tree name to its
// canonical form. Unknown names pass through unchanged.
func CanonicalSkill(name string) string {
	if canon, ok := skillAliases[name]; ok {
		return canon
	}
	return name
}
