package qstage

import (
	"strings"

	"github.com/spf13/cast"
)

// Parameters control the generated input file. Only the restart section is
// read here; everything else is passed through to the Generator.
type Parameters map[string]any

// Clone returns a deep copy of p.
func (p Parameters) Clone() Parameters {
	if p == nil {
		return nil
	}
	return Parameters(cloneMap(p))
}

// Lookup resolves a dotted key such as "md.timestep" through nested sections.
func (p Parameters) Lookup(key string) (any, bool) {
	var cur any = p
	for _, part := range strings.Split(key, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// RestartPolicy says which restart files the simulation writes.
type RestartPolicy struct {
	PrintFinal        bool
	PrintIntermediate bool
}

// RestartPolicy reads parameters.restart. A missing or non-mapping section
// means no restart files are written.
func (p Parameters) RestartPolicy() RestartPolicy {
	section, ok := asMap(p["restart"])
	if !ok {
		return RestartPolicy{}
	}
	return RestartPolicy{
		PrintFinal:        cast.ToBool(section["print_final"]),
		PrintIntermediate: cast.ToBool(section["print_intermediate"]),
	}
}

// asMap accepts the mapping shapes decoders and callers produce. Strings are
// not parsed as JSON.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Parameters:
		return m, true
	case map[string]any:
		return m, true
	case map[any]any:
		out, err := cast.ToStringMapE(m)
		return out, err == nil
	default:
		return nil, false
	}
}
