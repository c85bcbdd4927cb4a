package models

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// WidgetType is the declared type of a widget. A missing key, a JSON null
// and an empty string all decode to the unset variant.
type WidgetType struct {
	name string
}

func NewWidgetType(name string) WidgetType {
	return WidgetType{name: name}
}

func (t WidgetType) IsSet() bool {
	return t.name != ""
}

func (t WidgetType) String() string {
	return t.name
}

func (t WidgetType) MarshalJSON() ([]byte, error) {
	if !t.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(t.name)
}

func (t *WidgetType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.name = ""
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	t.name = name
	return nil
}
