package widgets

import (
	"portal/internal/models"

	"github.com/spf13/cast"
)

const (
	TypeBasic           = "basic"
	TypeListOfLinks     = "list-of-links"
	TypeGeneric         = "generic"
	TypeCustom          = "custom"
	TypeRss             = "rss"
	TypeWeather         = "weather"
	TypeOptionLink      = "option-link"
	TypeSearchWithLinks = "search-with-links"
	TypeActionItems     = "action-items"
)

// ResolveType maps a widget to the variant its card is rendered with.
func ResolveType(w *models.Widget) string {
	if !w.WidgetType.IsSet() {
		return TypeBasic
	}
	switch w.WidgetType.String() {
	case TypeListOfLinks:
		links := Links(w)
		if len(links) == 1 && w.AltMaxURLSet() && links[0].Href == w.URL {
			return TypeBasic
		}
		return TypeListOfLinks
	case TypeGeneric:
		return TypeCustom
	default:
		return w.WidgetType.String()
	}
}

// Links reads widgetConfig.links. Entries that are not objects keep their
// slot with an empty href so the count stays faithful to the config.
func Links(w *models.Widget) []models.Link {
	raw, ok := w.ConfigValue("links").([]any)
	if !ok {
		return nil
	}
	links := make([]models.Link, 0, len(raw))
	for _, item := range raw {
		entry, _ := item.(map[string]any)
		links = append(links, models.Link{
			Title:  cast.ToString(entry["title"]),
			Href:   cast.ToString(entry["href"]),
			Icon:   cast.ToString(entry["icon"]),
			Target: cast.ToString(entry["target"]),
			Rel:    cast.ToString(entry["rel"]),
		})
	}
	return links
}

// RenderURL picks the launch target of a card. Widgets that opt out of
// altMaxUrl are launched as static content or in exclusive mode.
func RenderURL(w *models.Widget, webPortletRender bool) string {
	if w.AltMaxURL != nil && !*w.AltMaxURL {
		if w.StaticContent != nil {
			return "static/" + w.Fname
		}
		if w.RenderOnWeb || webPortletRender {
			return "exclusive/" + w.Fname
		}
		return ""
	}
	return w.URL
}

const (
	errorPageAdditionalText = "Please contact your help desk if you " +
		"feel you should be able to access this content"
	errorPageTemplate = "<div class='overlay__widget-mode'>" +
		"<div class='overlay-content'>" +
		"<p><md-icon class='md-warn'>warning</md-icon></p>" +
		"<p>You do not have permission to access this content. " +
		"If you feel this is an error, please contact your help desk.</p>" +
		"</div>" +
		"</div>"
)

// ErrorPageWidget is shown in place of a widget whose entity file could
// not be loaded.
func ErrorPageWidget(fname string) *models.Widget {
	return &models.Widget{
		Fname:      fname,
		Title:      fname,
		MdIcon:     "help",
		WidgetType: models.NewWidgetType(TypeGeneric),
		WidgetConfig: map[string]any{
			"additionalText": errorPageAdditionalText,
		},
		WidgetTemplate: errorPageTemplate,
	}
}
