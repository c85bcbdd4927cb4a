// Package messages holds the pure parts of announcement message handling:
// audience filtering and seen-list reconciliation.
package messages

import (
	"fmt"
	"strings"

	"portal/internal/models"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const anyField = "$"

// FilterByGroup keeps messages without group restrictions and those sharing
// at least one group name with the user. The input slice is not modified.
func FilterByGroup(messages []models.Message, userGroups []string) []models.Message {
	member := make(map[string]struct{}, len(userGroups))
	for _, g := range userGroups {
		member[g] = struct{}{}
	}

	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if len(m.AudienceFilter.Groups) == 0 {
			out = append(out, m)
			continue
		}
		for _, g := range m.AudienceFilter.Groups {
			if _, ok := member[g]; ok {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// ParseArrayFilter normalizes a dataArrayFilter value. Entity files carry it
// either as an object or as a string holding a JSON object.
func ParseArrayFilter(v any) (map[string]any, error) {
	switch f := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return f, nil
	case string:
		if strings.TrimSpace(f) == "" {
			return nil, nil
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(f), &out); err != nil {
			return nil, fmt.Errorf("decode dataArrayFilter: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("dataArrayFilter has unsupported type %T", v)
	}
}

// AnyMatch reports whether at least one element of items satisfies filter.
func AnyMatch(items []any, filter map[string]any) bool {
	for _, item := range items {
		if MatchesFilter(item, filter) {
			return true
		}
	}
	return false
}

// MatchesFilter applies an object filter expression to a single element.
// Every key of the expression has to match; scalar expectations match as a
// case-insensitive substring and "$" matches against any field.
func MatchesFilter(item any, filter map[string]any) bool {
	for key, expected := range filter {
		if key == anyField {
			if !matchAnyField(item, expected) {
				return false
			}
			continue
		}
		obj, ok := item.(map[string]any)
		if !ok {
			return false
		}
		actual, present := obj[key]
		if !present || !matchValue(actual, expected) {
			return false
		}
	}
	return true
}

func matchAnyField(item, expected any) bool {
	obj, ok := item.(map[string]any)
	if !ok {
		return matchValue(item, expected)
	}
	for _, actual := range obj {
		if matchValue(actual, expected) {
			return true
		}
	}
	return false
}

func matchValue(actual, expected any) bool {
	switch exp := expected.(type) {
	case map[string]any:
		return MatchesFilter(actual, exp)
	case nil:
		return actual == nil
	}

	switch act := actual.(type) {
	case map[string]any:
		return matchAnyField(act, expected)
	case []any:
		for _, el := range act {
			if matchValue(el, expected) {
				return true
			}
		}
		return false
	case nil:
		return false
	}

	a, errA := cast.ToStringE(actual)
	e, errE := cast.ToStringE(expected)
	if errA != nil || errE != nil {
		return false
	}
	return strings.Contains(strings.ToLower(a), strings.ToLower(e))
}
