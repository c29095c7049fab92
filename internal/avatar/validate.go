package avatar

import (
	"bytes"
	"encoding/json"
	"math"
)

// Validate reports whether candidate has the shape of a Config: every top-level field
// present with the right primitive type, a known gender, hex colors and finite numbers.
// Numeric ranges are not checked. Accepted candidates are Config, *Config, a decoded
// document (map[string]any from JSON or YAML), or raw JSON as []byte or string.
// Validate never panics.
func Validate(candidate any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	switch c := candidate.(type) {
	case Config:
		return validConfig(&c)
	case *Config:
		return c != nil && validConfig(c)
	case map[string]any:
		return validDocument(c)
	case []byte:
		return validJSON(c)
	case string:
		return validJSON([]byte(c))
	default:
		return false
	}
}

// validJSON keeps numbers as literals so integer fields are checked the way the decoder
// will read them: "3.0" and "1e300" are not ints.
func validJSON(data []byte) bool {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return false
	}
	return validDocument(doc)
}

func validConfig(c *Config) bool {
	if !ValidGender(c.Gender) {
		return false
	}
	for _, col := range []string{c.Hair.RootColor, c.Hair.TipColor, c.Eyes.ColorLeft, c.Eyes.ColorRight,
		c.Outfit.PrimaryColor, c.Outfit.SecondaryColor, c.SkinTone} {
		if !ValidColor(col) {
			return false
		}
	}
	nums := []float64{c.Hair.Gloss, c.Eyes.IrisShape, c.Physique.Height, c.Physique.Width,
		c.Physique.Bust, c.Physique.Waist, c.Physique.Hips}
	for _, a := range c.Accessories {
		nums = append(nums, a.Pos[:]...)
		nums = append(nums, a.Rot[:]...)
		nums = append(nums, a.Scale)
	}
	for _, n := range nums {
		if !finite(n) {
			return false
		}
	}
	return true
}

func validDocument(doc map[string]any) bool {
	if doc == nil {
		return false
	}
	g, ok := doc["gender"].(string)
	if !ok || !ValidGender(Gender(g)) {
		return false
	}
	if !isInteger(doc["faceId"]) || !isString(doc["baseBody"]) || !isColor(doc["skinTone"]) {
		return false
	}
	hair, ok := asMap(doc["hair"])
	if !ok || !isString(hair["style"]) || !isColor(hair["rootColor"]) || !isColor(hair["tipColor"]) || !isNumber(hair["gloss"]) {
		return false
	}
	eyes, ok := asMap(doc["eyes"])
	if !ok || !isNumber(eyes["irisShape"]) || !isColor(eyes["colorLeft"]) || !isColor(eyes["colorRight"]) {
		return false
	}
	outfit, ok := asMap(doc["outfit"])
	if !ok || !isString(outfit["id"]) || !isColor(outfit["primaryColor"]) || !isColor(outfit["secondaryColor"]) {
		return false
	}
	phys, ok := asMap(doc["physique"])
	if !ok {
		return false
	}
	for _, k := range []string{"height", "width", "bust", "waist", "hips"} {
		if !isNumber(phys[k]) {
			return false
		}
	}
	raw, present := doc["accessories"]
	if !present {
		return false
	}
	list, ok := raw.([]any)
	if !ok && raw != nil {
		return false
	}
	for _, item := range list {
		acc, ok := asMap(item)
		if !ok || !isString(acc["id"]) || !isVec3(acc["pos"]) || !isVec3(acc["rot"]) || !isNumber(acc["scale"]) {
			return false
		}
	}
	return true
}

// asMap accepts both map[string]any (JSON, yaml.v3) and map[any]any documents.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	}
	return nil, false
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isColor(v any) bool {
	s, ok := v.(string)
	return ok && ValidColor(s)
}

func isNumber(v any) bool {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		f, err := n.Float64()
		return err == nil && finite(f)
	}
	return false
}

func isInteger(v any) bool {
	switch n := v.(type) {
	case float64:
		return finite(n) && n == math.Trunc(n) && n >= math.MinInt && n < -float64(math.MinInt)
	case int, int8, int16, int32, uint8, uint16:
		return true
	case int64:
		return n >= math.MinInt && n <= math.MaxInt
	case uint:
		return n <= math.MaxInt
	case uint32:
		return uint64(n) <= math.MaxInt
	case uint64:
		return n <= math.MaxInt
	case json.Number:
		i, err := n.Int64()
		return err == nil && i >= math.MinInt && i <= math.MaxInt
	}
	return false
}

func isVec3(v any) bool {
	list, ok := v.([]any)
	if !ok || len(list) != 3 {
		return false
	}
	for _, n := range list {
		if !isNumber(n) {
			return false
		}
	}
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
