package models

type StarterTemplate struct {
	ID           int            `json:"id"`
	Type         string         `json:"type"`
	WidgetType   string         `json:"widgetType,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	URL          string         `json:"url"`
	HasWidgetURL bool           `json:"hasWidgetURL"`
	WidgetURL    *string        `json:"widgetURL,omitempty"`
	JsonSample   any            `json:"jsonSample"`
	WidgetConfig map[string]any `json:"widgetConfig"`
}

// Draft is a widget under construction. Content and WidgetConfig are kept
// as the raw text the author typed so invalid JSON can be reported back.
type Draft struct {
	ID             string `json:"id"`
	Title          string `json:"title" validate:"required|maxLen:200"`
	WidgetType     string `json:"widgetType" validate:"required"`
	WidgetTemplate string `json:"widgetTemplate,omitempty"`
	WidgetURL      string `json:"widgetURL,omitempty"`
	Content        string `json:"content,omitempty"`
	WidgetConfig   string `json:"widgetConfig,omitempty"`
}

type Preview struct {
	View            *WidgetView `json:"view"`
	ErrorJSON       string      `json:"errorJSON,omitempty"`
	ErrorConfigJSON string      `json:"errorConfigJSON,omitempty"`
	ConfigErrors    []string    `json:"configErrors,omitempty"`
}
