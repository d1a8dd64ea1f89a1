package cel

import "github.com/slott56/rete"

// Convert maps bind-argument values into forms CEL can work with. Facts
// become three-key maps; anything else passes through for CEL's own native
// type adaption.
func Convert(v any) any {
	switch v := v.(type) {
	case *rete.Fact:
		return map[string]any{
			"identifier": v.Identifier,
			"attribute":  v.Attribute,
			"value":      v.Value,
		}
	case rete.View:
		// The reserved network parameter has no CEL representation;
		// expressions should not declare it.
		return map[string]any{}
	default:
		return v
	}
}
