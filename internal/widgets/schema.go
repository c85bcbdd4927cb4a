package widgets

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var linksSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["href"],
		"properties": {
			"title": {"type": "string"},
			"href": {"type": "string", "minLength": 1},
			"icon": {"type": "string"},
			"target": {"type": "string"},
			"rel": {"type": "string"}
		}
	}
}`

var configSchemas = map[string]string{
	TypeListOfLinks: `{
		"type": "object",
		"required": ["links"],
		"properties": {
			"launchText": {"type": "string"},
			"additionalText": {"type": "string"},
			"links": ` + linksSchema + `
		}
	}`,
	TypeSearchWithLinks: `{
		"type": "object",
		"required": ["actionURL"],
		"properties": {
			"actionURL": {"type": "string", "minLength": 1},
			"actionTarget": {"type": "string"},
			"actionParameter": {"type": "string"},
			"launchText": {"type": "string"},
			"links": ` + linksSchema + `
		}
	}`,
	TypeRss: `{
		"type": "object",
		"properties": {
			"lim": {"type": "number", "minimum": 0},
			"titleLim": {"type": "number", "minimum": 0},
			"showdate": {"type": "boolean"},
			"showShowing": {"type": "boolean"},
			"dateFormat": {"type": "string"},
			"target": {"type": "string"}
		}
	}`,
	TypeOptionLink: `{
		"type": "object",
		"properties": {
			"singleElement": {"type": "boolean"},
			"arrayName": {"type": "string"},
			"value": {"type": "string"},
			"display": {"type": "string"}
		}
	}`,
	TypeCustom: `{
		"type": "object",
		"properties": {
			"emptyWhen": {"type": ["object", "array"]},
			"additionalText": {"type": "string"}
		}
	}`,
	TypeActionItems: `{
		"type": "object",
		"properties": {
			"actionItems": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["feedUrl"],
					"properties": {"feedUrl": {"type": "string", "minLength": 1}}
				}
			}
		}
	}`,
}

var (
	compileOnce     sync.Once
	compiledSchemas map[string]*jsonschema.Schema
	compileErr      error
)

func schemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchemas = make(map[string]*jsonschema.Schema, len(configSchemas))
		for widgetType, src := range configSchemas {
			sch, err := jsonschema.CompileString("widget-config-"+widgetType+".json", src)
			if err != nil {
				compileErr = fmt.Errorf("compile %s config schema: %w", widgetType, err)
				return
			}
			compiledSchemas[widgetType] = sch
		}
	})
	return compiledSchemas, compileErr
}

// ValidateConfig checks a decoded widgetConfig against the schema of the
// resolved widget type. Types without a schema always pass.
func ValidateConfig(widgetType string, cfg any) ([]string, error) {
	all, err := schemas()
	if err != nil {
		return nil, err
	}
	sch, ok := all[widgetType]
	if !ok {
		return nil, nil
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	var problems []string
	if err := sch.Validate(cfg); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, err
		}
		problems = leafProblems(ve)
		sort.Strings(problems)
	}
	if obj, ok := cfg.(map[string]any); ok && widgetType == TypeCustom {
		if _, err := ParseRules(obj["emptyWhen"]); err != nil {
			problems = append(problems, err.Error())
		}
	}
	return problems, nil
}

func leafProblems(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{loc + ": " + ve.Message}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, leafProblems(c)...)
	}
	return out
}
