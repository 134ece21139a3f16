package compilation

import (
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// copySettingsValue returns a deep copy of a decoded settings value. Maps and lists are copied recursively; scalars
// keep their decoded type.
func copySettingsValue(value any) any {
	return mapSettingsValue(value, func(v any) any { return v })
}

// mapSettingsValue rebuilds a decoded settings value, passing every scalar through leaf.
func mapSettingsValue(value any, leaf func(any) any) any {
	switch v := value.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = mapSettingsValue(item, leaf)
		}
		return m
	case map[any]any:
		m := make(map[any]any, len(v))
		for k, item := range v {
			m[k] = mapSettingsValue(item, leaf)
		}
		return m
	case []any:
		list := make([]any, len(v))
		for i, item := range v {
			list[i] = mapSettingsValue(item, leaf)
		}
		return list
	default:
		return leaf(value)
	}
}

// yamlFloatNode keeps whole-number floats as floats in YAML output. yaml.v3 writes float64(1) as "1", which decodes
// back as an int.
func yamlFloatNode(value any) any {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return value
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) >= 1e21 {
		return value
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'f', 1, 64)}
}

// MarshalYAML encodes the CompilerConfig so that settings decode back to the same types.
func (c CompilerConfig) MarshalYAML() (any, error) {
	type plainCompilerConfig CompilerConfig
	plain := plainCompilerConfig(c)
	if c.Settings != nil {
		plain.Settings = mapSettingsValue(c.Settings, yamlFloatNode).(map[string]any)
	}
	return plain, nil
}
