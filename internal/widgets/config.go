package widgets

import (
	"maps"

	"portal/internal/jsonutil"

	"github.com/spf13/cast"
)

const (
	rssDefaultLimit        = 5
	rssMaxLimit            = 6
	rssTitleLimitWithDate  = 35
	rssTitleLimitNoDate    = 45
	rssMaxTitleLimit       = 50
	optionLinkArrayName    = "array"
	optionLinkValueField   = "value"
	optionLinkDisplayField = "display"
)

// RssConfigDefaults returns a copy of an rss widget config with display
// limits filled in and clamped.
func RssConfigDefaults(cfg map[string]any) map[string]any {
	out := make(map[string]any, len(cfg)+3)
	maps.Copy(out, cfg)

	lim := cast.ToInt(out["lim"])
	if lim == 0 {
		lim = rssDefaultLimit
	}
	titleLim := cast.ToInt(out["titleLim"])
	if titleLim == 0 {
		if jsonutil.Truthy(out["showdate"]) {
			titleLim = rssTitleLimitWithDate
		} else {
			titleLim = rssTitleLimitNoDate
		}
	}
	out["showShowing"] = jsonutil.Truthy(out["showShowing"])

	out["lim"] = min(lim, rssMaxLimit)
	out["titleLim"] = min(titleLim, rssMaxTitleLimit)
	return out
}

// OptionLinkConfigDefaults supplies the option-link config used when an
// entity file carries none.
func OptionLinkConfigDefaults(cfg map[string]any) map[string]any {
	if cfg != nil {
		return cfg
	}
	return map[string]any{
		"singleElement": false,
		"arrayName":     optionLinkArrayName,
		"value":         optionLinkValueField,
		"display":       optionLinkDisplayField,
	}
}

// SelectedURL picks the default selection of an option-link widget from
// the data returned by its widgetURL.
func SelectedURL(data any, cfg map[string]any) string {
	obj, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	valueKey := cast.ToString(cfg["value"])
	if jsonutil.Truthy(cfg["singleElement"]) {
		return cast.ToString(obj[valueKey])
	}
	arr, ok := obj[cast.ToString(cfg["arrayName"])].([]any)
	if !ok || len(arr) == 0 {
		return ""
	}
	first, ok := arr[0].(map[string]any)
	if !ok {
		return ""
	}
	return cast.ToString(first[valueKey])
}

// IsEmptyContent reports whether custom widget content should be shown as
// empty: an empty list, or content matching the configured emptyWhen rules.
func IsEmptyContent(content any, rules []Rule) bool {
	if arr, ok := content.([]any); ok && len(arr) == 0 {
		return true
	}
	return Matches(rules, content)
}
