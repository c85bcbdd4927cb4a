package models

type AudienceFilter struct {
	Groups     []string `json:"groups"`
	DataURL    string   `json:"dataUrl,omitempty"`
	DataObject string   `json:"dataObject,omitempty"`
	// Either a JSON object or a string holding one.
	DataArrayFilter any `json:"dataArrayFilter,omitempty"`
}

type Message struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	TitleShort       string         `json:"titleShort,omitempty"`
	Description      string         `json:"description,omitempty"`
	DescriptionShort string         `json:"descriptionShort,omitempty"`
	MessageType      string         `json:"messageType,omitempty"`
	GoLiveDate       string         `json:"goLiveDate,omitempty"`
	ExpireDate       string         `json:"expireDate,omitempty"`
	FeatureImageURL  string         `json:"featureImageUrl,omitempty"`
	Priority         string         `json:"priority,omitempty"`
	ActionButton     map[string]any `json:"actionButton,omitempty"`
	MoreInfoButton   map[string]any `json:"moreInfoButton,omitempty"`
	ConfirmButton    map[string]any `json:"confirmButton,omitempty"`
	AudienceFilter   AudienceFilter `json:"audienceFilter"`
}

type Group struct {
	Name string `json:"name"`
}

type SeenAction string

const (
	ActionDismiss SeenAction = "dismiss"
	ActionRestore SeenAction = "restore"
)
