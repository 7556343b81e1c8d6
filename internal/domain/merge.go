package domain

import (
	"bytes"
	"encoding/json"
)

// Patch is a partial config document naming only the sections a writer changed
type Patch map[string]any

// TreePatch writes structure.tree
func TreePatch(tree []*Node) Patch {
	if tree == nil {
		tree = []*Node{}
	}
	return Patch{"structure": map[string]any{"tree": tree}}
}

// StatsPatch writes the whole stats section
func StatsPatch(s Stats) Patch {
	if s.DailyWords == nil {
		s.DailyWords = map[string]int{}
	}
	if s.PerChapter == nil {
		s.PerChapter = map[string]int{}
	}
	return Patch{"stats": s}
}

// BasicPatch writes the basic section
func BasicPatch(b Basic) Patch {
	return Patch{"basic": b}
}

// ExportPatch writes the export section
func ExportPatch(e Export) Patch {
	return Patch{"export": e}
}

// DocumentPatch writes every section of doc
func DocumentPatch(doc *ConfigDocument) Patch {
	p := TreePatch(doc.Structure.Tree)
	p["basic"] = doc.Basic
	p["stats"] = StatsPatch(doc.Stats)["stats"]
	p["export"] = doc.Export
	return p
}

// Generic converts a patch into plain JSON values (maps, slices, strings, numbers)
func (p Patch) Generic() (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return DecodeGeneric(data)
}

// DecodeGeneric parses a JSON object keeping numbers as json.Number
func DecodeGeneric(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// MergeJSON deep-merges src into dst and returns dst.
//
// Objects merge key by key; keys missing from src are untouched. Non-empty
// strings and arrays from src win, empty ones never clear a populated value,
// null never overwrites. Numbers and booleans from src win. Dotted paths in
// replace (e.g. "stats.per_chapter") take the src value as is.
func MergeJSON(dst, src map[string]any, replace map[string]bool) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		dst[k] = mergeValue(k, dst[k], v, replace)
	}
	return dst
}

func mergeValue(keyPath string, dst, src any, replace map[string]bool) any {
	if replace[keyPath] {
		return src
	}
	switch s := src.(type) {
	case nil:
		if dst != nil {
			return dst
		}
		return nil
	case map[string]any:
		d, ok := dst.(map[string]any)
		if !ok {
			d = map[string]any{}
		}
		for k, v := range s {
			d[k] = mergeValue(keyPath+"."+k, d[k], v, replace)
		}
		return d
	case string:
		if s == "" && !isEmpty(dst) {
			return dst
		}
		return s
	case []any:
		if len(s) == 0 && !isEmpty(dst) {
			return dst
		}
		return s
	default:
		return src
	}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	}
	return false
}
