package models

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/alena0604/data-techniques/enums"
)

// RawItem is an item as returned by the item endpoint. Numbers are kept as json.Number.
type RawItem map[string]any

// HackerNewsItem is the typed view of a RawItem. Pointer fields are nil when the
// source omitted them or sent a value of the wrong type.
type HackerNewsItem struct {
	ID          *int64
	Type        enums.ItemType
	By          *string
	Title       string
	URL         string
	Text        string
	Time        *int64
	Parent      *int64
	Score       *int64
	Descendants *int64
	Kids        []int64
	Deleted     bool
	Dead        bool
}

// ParseItem maps each known field independently. Malformed fields are dropped, never rejected.
func ParseItem(raw RawItem) HackerNewsItem {
	var item HackerNewsItem

	item.ID = int64Field(raw, "id")
	if t, ok := raw["type"].(string); ok {
		item.Type = enums.ItemType(t)
	}
	if by, ok := raw["by"].(string); ok {
		item.By = &by
	}
	item.Title, _ = raw["title"].(string)
	item.URL, _ = raw["url"].(string)
	item.Text, _ = raw["text"].(string)
	item.Time = int64Field(raw, "time")
	item.Parent = int64Field(raw, "parent")
	item.Score = int64Field(raw, "score")
	item.Descendants = int64Field(raw, "descendants")
	item.Deleted, _ = raw["deleted"].(bool)
	item.Dead, _ = raw["dead"].(bool)

	if kids, ok := raw["kids"].([]any); ok {
		item.Kids = make([]int64, 0, len(kids))
		for _, k := range kids {
			if id, ok := toInt64(k); ok {
				item.Kids = append(item.Kids, id)
			}
		}
	}

	return item
}

func int64Field(raw RawItem, key string) *int64 {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil
	}
	return &n
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
