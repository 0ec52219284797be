package game

import (
	"fmt"
	"strings"
)

// PlayerKey returns the per-seat prefix ("P2") under which the engine keys a
// colour's fields in PlayerState.
func PlayerKey(state State, color Color) (string, bool) {
	for i, c := range state.Colors() {
		if c == color {
			return fmt.Sprintf("P%d", i), true
		}
	}
	return "", false
}

// Field reads one raw per-seat value, e.g. Field(ps, "P0", "WOOD_IN_HAND").
func Field(ps map[string]any, key, name string) (any, bool) {
	if ps == nil {
		return nil, false
	}
	v, ok := ps[key+"_"+name]
	return v, ok
}

// IntField reads a per-seat numeric value. Missing or non-numeric values read as 0.
func IntField(ps map[string]any, key, name string) int {
	v, ok := Field(ps, key, name)
	if !ok {
		return 0
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	n, _ := ToInt(v)
	return n
}

// BoolField reads a per-seat flag. Non-zero numbers and "true" strings count as set.
func BoolField(ps map[string]any, key, name string) bool {
	v, ok := Field(ps, key, name)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "true" {
			return true
		}
	}
	n, ok := ToInt(v)
	return ok && n != 0
}
