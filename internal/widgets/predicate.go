package widgets

import (
	"errors"
	"fmt"
	"reflect"

	"portal/internal/jsonutil"

	"github.com/spf13/cast"
)

// Emptiness rules are data, not code: a rule names a field path inside the
// widget content, a comparison operator and an optional operand.
const (
	OpEmpty    = "empty"
	OpNotEmpty = "notEmpty"
	OpMissing  = "missing"
	OpExists   = "exists"
	OpEq       = "eq"
	OpNe       = "ne"
	OpLt       = "lt"
	OpLte      = "lte"
	OpGt       = "gt"
	OpGte      = "gte"
	OpLenEq    = "lenEq"
	OpLenLt    = "lenLt"
	OpLenGt    = "lenGt"
)

var knownOps = map[string]bool{
	OpEmpty: true, OpNotEmpty: true, OpMissing: true, OpExists: true,
	OpEq: true, OpNe: true, OpLt: true, OpLte: true, OpGt: true, OpGte: true,
	OpLenEq: true, OpLenLt: true, OpLenGt: true,
}

var ErrInvalidRule = errors.New("invalid emptiness rule")

type Rule struct {
	Path  []string
	Op    string
	Value any
}

// ParseRules reads an emptyWhen value: a single rule object or a list of them.
func ParseRules(v any) ([]Rule, error) {
	switch raw := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		r, err := parseRule(raw)
		if err != nil {
			return nil, err
		}
		return []Rule{r}, nil
	case []any:
		rules := make([]Rule, 0, len(raw))
		for i, item := range raw {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d is not an object", ErrInvalidRule, i)
			}
			r, err := parseRule(m)
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		}
		return rules, nil
	default:
		return nil, fmt.Errorf("%w: expected object or list", ErrInvalidRule)
	}
}

func parseRule(m map[string]any) (Rule, error) {
	op := cast.ToString(m["op"])
	if !knownOps[op] {
		return Rule{}, fmt.Errorf("%w: unknown op %q", ErrInvalidRule, op)
	}
	path := []string{}
	if p, ok := m["path"]; ok && p != nil {
		segs, ok := jsonutil.PathFrom(p)
		if !ok {
			return Rule{}, fmt.Errorf("%w: path must be a string or a list", ErrInvalidRule)
		}
		path = segs
	}
	return Rule{Path: path, Op: op, Value: m["value"]}, nil
}

// Matches reports whether any rule holds for content.
func Matches(rules []Rule, content any) bool {
	for _, r := range rules {
		if r.Match(content) {
			return true
		}
	}
	return false
}

func (r Rule) Match(content any) bool {
	actual, err := jsonutil.Resolve(content, r.Path)
	found := err == nil

	switch r.Op {
	case OpMissing:
		return !found
	case OpExists:
		return found
	case OpEmpty:
		return !found || isEmptyValue(actual)
	case OpNotEmpty:
		return found && !isEmptyValue(actual)
	}

	if !found {
		return false
	}

	switch r.Op {
	case OpEq:
		return equalValues(actual, r.Value)
	case OpNe:
		return !equalValues(actual, r.Value)
	case OpLt, OpLte, OpGt, OpGte:
		a, errA := cast.ToFloat64E(actual)
		b, errB := cast.ToFloat64E(r.Value)
		if errA != nil || errB != nil {
			return false
		}
		return compare(r.Op, a, b)
	case OpLenEq, OpLenLt, OpLenGt:
		n, ok := length(actual)
		want, err := cast.ToIntE(r.Value)
		if !ok || err != nil {
			return false
		}
		switch r.Op {
		case OpLenEq:
			return n == want
		case OpLenLt:
			return n < want
		default:
			return n > want
		}
	}
	return false
}

func compare(op string, a, b float64) bool {
	switch op {
	case OpLt:
		return a < b
	case OpLte:
		return a <= b
	case OpGt:
		return a > b
	default:
		return a >= b
	}
}

func length(v any) (int, bool) {
	switch val := v.(type) {
	case []any:
		return len(val), true
	case map[string]any:
		return len(val), true
	case string:
		return len(val), true
	default:
		return 0, false
	}
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if n, ok := length(v); ok {
		return n == 0
	}
	return false
}

func equalValues(actual, expected any) bool {
	switch exp := expected.(type) {
	case nil:
		return actual == nil
	case bool:
		b, ok := actual.(bool)
		return ok && b == exp
	case string:
		if actual == nil {
			return false
		}
		s, err := cast.ToStringE(actual)
		return err == nil && s == exp
	case float64, int, int64:
		a, errA := cast.ToFloat64E(actual)
		b, errB := cast.ToFloat64E(exp)
		return errA == nil && errB == nil && a == b
	default:
		return reflect.DeepEqual(actual, expected)
	}
}
