package models

import json "github.com/goccy/go-json"

// Widget is a portal content panel as described by its entity file's
// layout object. Data-dependent fields (WidgetData, WidgetContent,
// SelectedURL) are filled in while the view is being built.
type Widget struct {
	Fname          string         `json:"fname"`
	Title          string         `json:"title,omitempty"`
	Description    string         `json:"description,omitempty"`
	URL            string         `json:"url,omitempty"`
	Target         string         `json:"target,omitempty"`
	MdIcon         string         `json:"mdIcon,omitempty"`
	WidgetType     WidgetType     `json:"widgetType"`
	WidgetConfig   map[string]any `json:"widgetConfig,omitempty"`
	WidgetURL      string         `json:"widgetURL,omitempty"`
	WidgetData     any            `json:"widgetData,omitempty"`
	WidgetContent  any            `json:"widgetContent,omitempty"`
	WidgetTemplate string         `json:"widgetTemplate,omitempty"`
	AltMaxURL      *bool          `json:"altMaxUrl,omitempty"`
	StaticContent  any            `json:"staticContent,omitempty"`
	RenderOnWeb    bool           `json:"renderOnWeb,omitempty"`
	SelectedURL    string         `json:"selectedUrl,omitempty"`

	ExternalMessageURL string `json:"widgetExternalMessageUrl,omitempty"`
	// Property paths into the external message response. Kept loosely typed
	// because entity files are not guaranteed to hold arrays here.
	ExternalMessageTextLocation      any `json:"widgetExternalMessageTextObjectLocation,omitempty"`
	ExternalMessageLearnMoreLocation any `json:"widgetExternalMessageLearnMoreUrl,omitempty"`
}

type widgetAlias Widget

// UnmarshalJSON also accepts the misspelled
// widgetExtneralMessageTextObjectLocation key still present in older entity files.
func (w *Widget) UnmarshalJSON(data []byte) error {
	var legacy struct {
		widgetAlias
		LegacyTextLocation any `json:"widgetExtneralMessageTextObjectLocation"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	*w = Widget(legacy.widgetAlias)
	if w.ExternalMessageTextLocation == nil && legacy.LegacyTextLocation != nil {
		w.ExternalMessageTextLocation = legacy.LegacyTextLocation
	}
	return nil
}

// AltMaxURLSet reports whether altMaxUrl is present and true.
func (w *Widget) AltMaxURLSet() bool {
	return w.AltMaxURL != nil && *w.AltMaxURL
}

// ConfigValue returns a widgetConfig entry, or nil when absent.
func (w *Widget) ConfigValue(key string) any {
	if w.WidgetConfig == nil {
		return nil
	}
	return w.WidgetConfig[key]
}

type Link struct {
	Title  string `json:"title,omitempty"`
	Href   string `json:"href"`
	Icon   string `json:"icon,omitempty"`
	Target string `json:"target,omitempty"`
	Rel    string `json:"rel,omitempty"`
}

type ExternalMessage struct {
	MessageText  any `json:"messageText,omitempty"`
	LearnMoreURL any `json:"learnMoreUrl,omitempty"`
}

type ActionItemCount struct {
	Item     map[string]any `json:"item"`
	Quantity *float64       `json:"quantity"`
}

// WidgetView is the complete render state of one widget card.
type WidgetView struct {
	Widget          *Widget           `json:"widget"`
	Type            string            `json:"type"`
	RenderURL       string            `json:"renderUrl,omitempty"`
	IsEmpty         bool              `json:"isEmpty"`
	Error           bool              `json:"error"`
	Content         any               `json:"content,omitempty"`
	Config          map[string]any    `json:"config,omitempty"`
	Feed            *RssFeed          `json:"feed,omitempty"`
	Weather         []WeatherRecord   `json:"weather,omitempty"`
	CurrentUnits    Unit              `json:"currentUnits,omitempty"`
	NextUnits       Unit              `json:"nextUnits,omitempty"`
	ActionItems     []ActionItemCount `json:"actionItems,omitempty"`
	SecureURL       string            `json:"secureUrl,omitempty"`
	ExternalMessage *ExternalMessage  `json:"externalMessage,omitempty"`
}
