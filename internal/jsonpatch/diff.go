package jsonpatch

import (
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"covid-estimator/internal/model"
)

// Diff computes an RFC 6902 JSON Patch that transforms a into b.
// Both a and b are decoded JSON values (maps, slices, scalars).
// Path should be "" for the root document. Object keys are visited in
// sorted order so the patch is deterministic.
func Diff(a, b interface{}, path string) []model.PatchOp {
	if a == nil && b == nil {
		return nil
	}
	if a == nil || b == nil {
		return []model.PatchOp{replaceOp(path, b)}
	}

	aMap, aIsMap := a.(map[string]interface{})
	bMap, bIsMap := b.(map[string]interface{})
	if aIsMap && bIsMap {
		return diffObjects(aMap, bMap, path)
	}

	aArr, aIsArr := a.([]interface{})
	bArr, bIsArr := b.([]interface{})
	if aIsArr && bIsArr {
		return diffArrays(aArr, bArr, path)
	}

	if !equalScalar(a, b) {
		return []model.PatchOp{replaceOp(path, b)}
	}
	return nil
}

// DiffImpact returns the operations that turn branch a into branch b,
// rooted at path (for example "/impact").
func DiffImpact(a, b model.Impact, path string) []model.PatchOp {
	ops := Diff(a.Map(), b.Map(), path)
	if ops == nil {
		return []model.PatchOp{}
	}
	return ops
}

func diffObjects(a, b map[string]interface{}, path string) []model.PatchOp {
	var ops []model.PatchOp

	for _, k := range sortedKeys(a) {
		if _, ok := b[k]; !ok {
			ops = append(ops, removeOp(path+"/"+escapeKey(k)))
		}
	}

	for _, k := range sortedKeys(b) {
		childPath := path + "/" + escapeKey(k)
		av, inA := a[k]
		if !inA {
			ops = append(ops, addOp(childPath, b[k]))
			continue
		}
		ops = append(ops, Diff(av, b[k], childPath)...)
	}

	return ops
}

func diffArrays(a, b []interface{}, path string) []model.PatchOp {
	var ops []model.PatchOp

	common := len(a)
	if len(b) < common {
		common = len(b)
	}

	for i := 0; i < common; i++ {
		ops = append(ops, Diff(a[i], b[i], path+"/"+strconv.Itoa(i))...)
	}

	// Remove from the end so earlier indices stay valid.
	for i := len(a) - 1; i >= common; i-- {
		ops = append(ops, removeOp(path+"/"+strconv.Itoa(i)))
	}
	for i := common; i < len(b); i++ {
		ops = append(ops, addOp(path+"/"+strconv.Itoa(i), b[i]))
	}

	return ops
}

// equalScalar compares two non-container values by their JSON encoding,
// so int64(5) and float64(5) are equal.
func equalScalar(a, b interface{}) bool {
	return string(marshalValue(a)) == string(marshalValue(b))
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func marshalValue(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

func replaceOp(path string, value interface{}) model.PatchOp {
	return model.PatchOp{Op: "replace", Path: path, Value: marshalValue(value)}
}

func addOp(path string, value interface{}) model.PatchOp {
	return model.PatchOp{Op: "add", Path: path, Value: marshalValue(value)}
}

func removeOp(path string) model.PatchOp {
	return model.PatchOp{Op: "remove", Path: path}
}

// escapeKey escapes a JSON Pointer token per RFC 6901.
func escapeKey(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}
