// Package jsonutil walks decoded JSON values (maps, slices and scalars as
// produced by json.Unmarshal into any).
package jsonutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

var (
	ErrSegmentMissing = errors.New("path segment missing")
	ErrNotTraversable = errors.New("value is not traversable")
)

// Resolve follows path into root. Map segments are keys; slice segments
// must be decimal indexes.
func Resolve(root any, path []string) (any, error) {
	cur := root
	for i, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("%w: %q at position %d", ErrSegmentMissing, seg, i)
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("%w: index %q at position %d", ErrSegmentMissing, seg, i)
			}
			cur = node[idx]
		default:
			return nil, fmt.Errorf("%w: %q at position %d", ErrNotTraversable, seg, i)
		}
	}
	return cur, nil
}

// ResolveDotted resolves a dot separated path such as "data.items". A key
// holding the whole path literally, dots included, wins over the walk.
func ResolveDotted(root any, path string) (any, error) {
	if path == "" {
		return root, nil
	}
	if obj, ok := root.(map[string]any); ok {
		if v, found := obj[path]; found {
			return v, nil
		}
	}
	return Resolve(root, strings.Split(path, "."))
}

// Segments converts a configured property path into string segments. The
// value must be a list of strings or numbers.
func Segments(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			switch item.(type) {
			case string, float64, int, int64, json.Number:
				s, err := cast.ToStringE(item)
				if err != nil {
					return nil, false
				}
				out = append(out, s)
			default:
				return nil, false
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// PathFrom accepts either a segment list or a dotted string.
func PathFrom(v any) ([]string, bool) {
	if s, ok := v.(string); ok {
		if s == "" {
			return []string{}, true
		}
		return strings.Split(s, "."), true
	}
	return Segments(v)
}

// Truthy applies JavaScript truthiness to a decoded JSON value.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
