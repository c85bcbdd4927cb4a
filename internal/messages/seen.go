package messages

import "portal/internal/models"

// ReconcileSeenIDs applies a dismiss or restore edit to the seen list.
// Dismiss appends ids of altered missing from original, in altered order.
// Restore drops ids of original missing from altered. Any other action
// returns original as is.
func ReconcileSeenIDs(original, altered []int64, action models.SeenAction) []int64 {
	switch action {
	case models.ActionDismiss:
		have := idSet(original)
		out := append(make([]int64, 0, len(original)+len(altered)), original...)
		for _, id := range altered {
			if _, ok := have[id]; ok {
				continue
			}
			have[id] = struct{}{}
			out = append(out, id)
		}
		return out
	case models.ActionRestore:
		keep := idSet(altered)
		out := make([]int64, 0, len(original))
		for _, id := range original {
			if _, ok := keep[id]; ok {
				out = append(out, id)
			}
		}
		return out
	default:
		return original
	}
}

// DecodeSeenIDs reads a stored seen list. Anything but an array of numbers
// yields an empty list.
func DecodeSeenIDs(v any) []int64 {
	arr, ok := v.([]any)
	if !ok {
		return []int64{}
	}
	out := make([]int64, 0, len(arr))
	for _, item := range arr {
		switch n := item.(type) {
		case float64:
			out = append(out, int64(n))
		case int64:
			out = append(out, n)
		case int:
			out = append(out, int64(n))
		default:
			return []int64{}
		}
	}
	return out
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
