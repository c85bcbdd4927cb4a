package services

import (
	"context"
	"errors"
	"portal/internal/errs"
	"portal/internal/models"
	"portal/internal/providers"
	"portal/internal/storage/interfaces"
	"portal/internal/widgets"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gookit/validate"
)

const (
	invalidJSONMessage = "JSON NOT VALID"
	previewFname       = "widget-creator-preview"
)

type CreatorServiceInterface interface {
	StarterTemplates() []models.StarterTemplate
	Preview(draft models.Draft) (*models.Preview, error)
	SaveDraft(ctx context.Context, user string, draft models.Draft) (*models.Draft, error)
	GetDraft(ctx context.Context, user, id string) (*models.Draft, error)
	DeleteDraft(ctx context.Context, user, id string) error
}

type CreatorService struct {
	store  interfaces.KVStoreInterface
	logger providers.Logger
}

func (cs *CreatorService) StarterTemplates() []models.StarterTemplate {
	return starterTemplates()
}

// Preview renders a draft the way its widget card would show it. Invalid
// content or config JSON is reported on the preview, not returned as an error.
func (cs *CreatorService) Preview(draft models.Draft) (*models.Preview, error) {
	preview := &models.Preview{}

	cfg := map[string]any{}
	if strings.TrimSpace(draft.WidgetConfig) != "" {
		if err := json.Unmarshal([]byte(draft.WidgetConfig), &cfg); err != nil || cfg == nil {
			preview.ErrorConfigJSON = invalidJSONMessage
			cfg = map[string]any{}
		}
	}

	var content any = map[string]any{}
	contentValid := true
	blank := strings.TrimSpace(draft.Content) == ""
	if !blank {
		if err := json.Unmarshal([]byte(draft.Content), &content); err != nil {
			preview.ErrorJSON = invalidJSONMessage
			content = map[string]any{}
			contentValid = false
		}
	}

	widget := &models.Widget{
		Fname:          previewFname,
		Title:          draft.Title,
		WidgetType:     models.NewWidgetType(draft.WidgetType),
		WidgetTemplate: draft.WidgetTemplate,
		WidgetURL:      draft.WidgetURL,
		WidgetConfig:   cfg,
		WidgetData:     content,
	}
	view := &models.WidgetView{
		Widget:  widget,
		Type:    widgets.ResolveType(widget),
		Config:  cfg,
		Content: content,
	}

	problems, err := widgets.ValidateConfig(view.Type, cfg)
	if err != nil {
		return nil, err
	}
	preview.ConfigErrors = problems

	switch {
	case !contentValid, blank:
		view.IsEmpty = true
	case view.Type == widgets.TypeCustom:
		rules, err := widgets.ParseRules(cfg["emptyWhen"])
		if err != nil {
			rules = nil
		}
		view.IsEmpty = widget.WidgetTemplate == "" || widgets.IsEmptyContent(content, rules)
	}
	preview.View = view
	return preview, nil
}

// SaveDraft stores draft for user, assigning an id to new drafts.
func (cs *CreatorService) SaveDraft(ctx context.Context, user string, draft models.Draft) (*models.Draft, error) {
	v := validate.Struct(&draft)
	if !v.Validate() {
		return nil, errs.NewValidationError(v.Errors.String())
	}
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	} else if _, err := uuid.Parse(draft.ID); err != nil {
		return nil, errs.NewValidationError("draft id must be a uuid")
	}
	if !cs.store.IsActivated() {
		return nil, errs.NewUnavailableError("drafts are unavailable: key/value store is not activated")
	}

	value, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	if err := cs.store.SetValue(ctx, draftKey(user, draft.ID), value); err != nil {
		return nil, err
	}
	cs.logger.Debugf(providers.TypeApp, "Saved draft %s for %s", draft.ID, user)
	return &draft, nil
}

func (cs *CreatorService) GetDraft(ctx context.Context, user, id string) (*models.Draft, error) {
	if err := cs.checkDraftAccess(id); err != nil {
		return nil, err
	}
	raw, err := cs.store.GetValue(ctx, draftKey(user, id))
	if err != nil {
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			return nil, errs.NewNotFoundError("draft not found: " + id)
		}
		return nil, err
	}
	var draft models.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, errs.NewMalformedResponseError("decode draft "+id, err)
	}
	return &draft, nil
}

func (cs *CreatorService) DeleteDraft(ctx context.Context, user, id string) error {
	if err := cs.checkDraftAccess(id); err != nil {
		return err
	}
	return cs.store.DeleteValue(ctx, draftKey(user, id))
}

func (cs *CreatorService) checkDraftAccess(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewValidationError("draft id must be a uuid")
	}
	if !cs.store.IsActivated() {
		return errs.NewUnavailableError("drafts are unavailable: key/value store is not activated")
	}
	return nil
}

func draftKey(user, id string) string {
	return UserKey(user, DraftKeyPrefix+id)
}

func starterTemplates() []models.StarterTemplate {
	empty := ""
	links := func(entries ...map[string]any) []any {
		out := make([]any, 0, len(entries))
		for _, e := range entries {
			e["target"] = "_blank"
			e["rel"] = "noopener noreferrer"
			out = append(out, e)
		}
		return out
	}
	return []models.StarterTemplate{
		{
			ID:           4,
			Type:         "widget-creator",
			Title:        "Custom",
			Description:  "This super cool portlet can change lives.",
			URL:          "www.example.com",
			HasWidgetURL: false,
			JsonSample:   map[string]any{},
			WidgetConfig: map[string]any{},
		},
		{
			ID:           1,
			Type:         widgets.TypeSearchWithLinks,
			WidgetType:   widgets.TypeSearchWithLinks,
			Title:        "Search with Links",
			URL:          "www.example.com",
			HasWidgetURL: false,
			JsonSample:   false,
			WidgetConfig: map[string]any{
				"actionURL":       "https://rprg.wisc.edu/search/",
				"actionTarget":    "_blank",
				"actionParameter": "q",
				"launchText":      "Go to resource guide",
				"links": links(
					map[string]any{"title": "Get started", "href": "https://rprg.wisc.edu/phases/initiate/", "icon": "fa-map-o"},
					map[string]any{"title": "Resources", "href": "https://rprg.wisc.edu/category/resource/", "icon": "fa-th-list"},
				),
			},
		},
		{
			ID:           2,
			Type:         widgets.TypeRss,
			WidgetType:   widgets.TypeRss,
			Title:        "RSS Widget",
			URL:          "www.example.com",
			HasWidgetURL: true,
			WidgetURL:    &empty,
			JsonSample:   false,
			WidgetConfig: map[string]any{
				"lim":         6,
				"target":      "",
				"showdate":    true,
				"titleLim":    40,
				"dateFormat":  "MM-dd-yyyy",
				"showShowing": true,
			},
		},
		{
			ID:           3,
			Type:         widgets.TypeListOfLinks,
			WidgetType:   widgets.TypeListOfLinks,
			Title:        "List of Links",
			Description:  "A simple list of links",
			URL:          "www.example.com",
			HasWidgetURL: false,
			JsonSample:   false,
			WidgetConfig: map[string]any{
				"launchText":     "Launch the Full App",
				"additionalText": "Additional Text",
				"links": links(
					map[string]any{"title": "The Google", "href": "http://www.google.com", "icon": "fa-google"},
					map[string]any{"title": "Bing", "href": "http://www.bing.com", "icon": "fa-bed"},
				),
			},
		},
	}
}

func NewCreatorService(store interfaces.KVStoreInterface, logger providers.Logger) CreatorServiceInterface {
	return &CreatorService{
		store:  store,
		logger: logger,
	}
}
