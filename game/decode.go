package game

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// DecodeMove turns the engine's raw (type tag, value) pair into a typed move.
// It never fails: a tag it does not know, or a value that does not have the
// expected shape, yields Unknown carrying the raw data.
func DecodeMove(kind string, value any) Move {
	k := MoveKind(strings.ToUpper(strings.TrimSpace(kind)))
	unknown := Unknown{Type: k, Value: value}

	switch k {
	case RollKind:
		return Roll{}
	case EndTurnKind:
		return EndTurn{}
	case BuyDevelopmentCardKind:
		return BuyDevelopmentCard{}
	case PlayKnightKind:
		return PlayKnight{}
	case PlayRoadBuildingKind:
		return PlayRoadBuilding{}
	case RejectTradeKind:
		return RejectTrade{}
	case CancelTradeKind:
		return CancelTrade{}

	case BuildSettlementKind, BuildCityKind:
		node, ok := ToInt(value)
		if !ok {
			return unknown
		}
		if k == BuildCityKind {
			return BuildCity{Node: node}
		}
		return BuildSettlement{Node: node}

	case BuildRoadKind:
		items, ok := toList(value)
		if !ok || len(items) != 2 {
			return unknown
		}
		a, okA := ToInt(items[0])
		b, okB := ToInt(items[1])
		if !okA || !okB {
			return unknown
		}
		return BuildRoad{Edge: [2]int{a, b}}

	case PlayYearOfPlentyKind:
		if r, ok := toResource(value); ok {
			return PlayYearOfPlenty{Resources: []Resource{r}}
		}
		items, ok := toList(value)
		if !ok || len(items) == 0 || len(items) > 2 {
			return unknown
		}
		var resources []Resource
		for _, item := range items {
			r, ok := toResource(item)
			if !ok {
				return unknown
			}
			resources = append(resources, r)
		}
		return PlayYearOfPlenty{Resources: resources}

	case PlayMonopolyKind:
		r, ok := toResource(value)
		if !ok {
			return unknown
		}
		return PlayMonopoly{Resource: r}

	case MaritimeTradeKind:
		if m, ok := decodeMaritime(value); ok {
			return m
		}
		return unknown

	case OfferTradeKind, AcceptTradeKind, ConfirmTradeKind:
		items, ok := toList(value)
		if !ok || len(items) < 10 {
			return unknown
		}
		give, okG := toCounts(items[:5])
		want, okW := toCounts(items[5:10])
		if !okG || !okW {
			return unknown
		}
		switch k {
		case OfferTradeKind:
			return OfferTrade{Give: give, Want: want}
		case AcceptTradeKind:
			return AcceptTrade{Give: give, Want: want}
		}
		var partner Color
		if len(items) > 10 {
			if s, ok := items[10].(string); ok {
				partner = Color(strings.ToUpper(s))
			}
		}
		return ConfirmTrade{Give: give, Want: want, Partner: partner}

	case MoveRobberKind:
		if m, ok := decodeRobber(value); ok {
			return m
		}
		return unknown

	case DiscardKind:
		if value == nil {
			return Discard{}
		}
		if counts, ok := toResourceCounts(value); ok {
			return Discard{Counts: counts}
		}
		return unknown
	}

	return unknown
}

func decodeMaritime(value any) (MaritimeTrade, bool) {
	items, ok := toList(value)
	if !ok {
		return MaritimeTrade{}, false
	}
	// Five give amounts followed by the wanted resource.
	if len(items) == 6 {
		give, okG := toCounts(items[:5])
		want, okW := toResource(items[5])
		if okG && okW {
			return MaritimeTrade{Give: give, Want: want}, true
		}
	}
	// Engine-native form: up to four offered resource cards (nil padded) and the wanted one.
	if len(items) == 5 {
		want, okW := toResource(items[4])
		if !okW {
			return MaritimeTrade{}, false
		}
		var give [5]int
		for _, item := range items[:4] {
			if item == nil {
				continue
			}
			r, ok := toResource(item)
			if !ok {
				return MaritimeTrade{}, false
			}
			give[resourceIndex(r)]++
		}
		return MaritimeTrade{Give: give, Want: want}, true
	}
	return MaritimeTrade{}, false
}

func decodeRobber(value any) (MoveRobber, bool) {
	items, ok := toList(value)
	if !ok || len(items) == 0 {
		return MoveRobber{}, false
	}
	if c, ok := toCube(items); ok {
		return MoveRobber{Coordinate: c}, true
	}
	inner, ok := toList(items[0])
	if !ok {
		return MoveRobber{}, false
	}
	c, ok := toCube(inner)
	if !ok {
		return MoveRobber{}, false
	}
	m := MoveRobber{Coordinate: c}
	if len(items) > 1 {
		if s, ok := items[1].(string); ok {
			m.Victim = Color(strings.ToUpper(s))
		} else if col, ok := items[1].(Color); ok {
			m.Victim = col
		}
	}
	return m, true
}

func toCube(items []any) (CubeCoord, bool) {
	if len(items) != 3 {
		return CubeCoord{}, false
	}
	var xyz [3]int
	for i, item := range items {
		v, ok := ToInt(item)
		if !ok {
			return CubeCoord{}, false
		}
		xyz[i] = v
	}
	return CubeCoord{X: xyz[0], Y: xyz[1], Z: xyz[2]}, true
}

// toResourceCounts accepts a list of resource names, five counts, or a
// resource -> count map.
func toResourceCounts(value any) ([5]int, bool) {
	var counts [5]int
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map {
		for _, key := range rv.MapKeys() {
			r, ok := toResource(key.Interface())
			if !ok {
				return counts, false
			}
			n, ok := ToInt(rv.MapIndex(key).Interface())
			if !ok || n < 0 {
				return counts, false
			}
			counts[resourceIndex(r)] += n
		}
		return counts, true
	}
	items, ok := toList(value)
	if !ok {
		return counts, false
	}
	if len(items) == 5 {
		if c, ok := toCounts(items); ok {
			return c, true
		}
	}
	for _, item := range items {
		r, ok := toResource(item)
		if !ok {
			return counts, false
		}
		counts[resourceIndex(r)]++
	}
	return counts, true
}

func toCounts(items []any) ([5]int, bool) {
	var counts [5]int
	if len(items) != 5 {
		return counts, false
	}
	for i, item := range items {
		n, ok := ToInt(item)
		if !ok || n < 0 {
			return counts, false
		}
		counts[i] = n
	}
	return counts, true
}

func toResource(v any) (Resource, bool) {
	switch t := v.(type) {
	case Resource:
		return ParseResource(string(t))
	case string:
		return ParseResource(t)
	}
	return "", false
}

func resourceIndex(r Resource) int {
	for i, known := range Resources {
		if known == r {
			return i
		}
	}
	return -1
}

// toList flattens any slice or array into []any.
func toList(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// ToInt coerces engine-native numbers: any int kind, integral floats,
// json.Number and numeric strings.
func ToInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint:
		return int(t), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	case uint64:
		return int(t), true
	case float32:
		return floatToInt(float64(t))
	case float64:
		return floatToInt(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return floatToInt(f)
		}
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
