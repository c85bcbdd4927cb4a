package services

import (
	"context"
	"errors"
	"portal/internal/errs"
	"portal/internal/jsonutil"
	"portal/internal/models"
	"portal/internal/providers"
	"portal/internal/storage/interfaces"
	"portal/internal/structures"
	"portal/internal/widgets"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"
)

const (
	kindEntry           = "entry"
	kindWidgetJSON      = "widget-json"
	kindRss             = "rss"
	kindActionItem      = "action-item"
	kindExternalMessage = "external-message"

	rssStatusOK = "ok"
)

// ViewOptions carries per-request rendering preferences.
type ViewOptions struct {
	WebPortletRender bool
}

type WidgetServiceInterface interface {
	FetchSingleWidget(ctx context.Context, user, fname string) *models.Widget
	FetchWidgetJSON(ctx context.Context, user string, widget *models.Widget) (any, bool)
	FetchRssAsJSON(ctx context.Context, user, url string) (*models.RssFeed, bool)
	FetchActionItemQuantity(ctx context.Context, user, url string) (float64, bool)
	FetchExternalMessage(ctx context.Context, user string, widget *models.Widget) *models.ExternalMessage
	BuildView(ctx context.Context, user, fname string, opts ViewOptions) *models.WidgetView
	BuildWidgetView(ctx context.Context, user string, widget *models.Widget, opts ViewOptions) *models.WidgetView
	GetWeatherPreference(ctx context.Context, user string) models.Unit
	SetWeatherPreference(ctx context.Context, user string, unit models.Unit) error
}

type WidgetService struct {
	conf   *structures.Config
	client providers.HttpClientInterface
	store  interfaces.KVStoreInterface
	logger providers.Logger
}

func (ws *WidgetService) entryURL(fname string) string {
	suffix := ".json"
	if ws.conf.WidgetApi.EntrySuffix != nil {
		suffix = *ws.conf.WidgetApi.EntrySuffix
	}
	return ws.conf.WidgetApi.Entry + fname + suffix
}

// FetchSingleWidget loads the layout object of an entity file. Any failure
// yields the permission error widget.
func (ws *WidgetService) FetchSingleWidget(ctx context.Context, user, fname string) *models.Widget {
	body, err := ws.client.Get(ctx, ws.entryURL(fname), providers.FetchOptions{User: user, Kind: kindEntry})
	if err != nil {
		ws.logger.Warnf(providers.TypeUpstream, "Error getting app directory entry for %s", fname)
		ws.logger.Errorf(providers.TypeUpstream, "%s", err)
		return widgets.ErrorPageWidget(fname)
	}

	var resp struct {
		Entry *struct {
			LayoutObject json.RawMessage `json:"layoutObject"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		ws.logger.Warnf(providers.TypeUpstream, "Error getting app directory entry for %s", fname)
		ws.logger.Errorf(providers.TypeUpstream, "%s", errs.NewMalformedResponseError("decode entity file "+fname, err))
		return widgets.ErrorPageWidget(fname)
	}
	if resp.Entry == nil || len(resp.Entry.LayoutObject) == 0 || string(resp.Entry.LayoutObject) == "null" {
		ws.logger.Warnf(providers.TypeUpstream, "Entity file for %s has no layout object", fname)
		return widgets.ErrorPageWidget(fname)
	}

	var widget models.Widget
	if err := json.Unmarshal(resp.Entry.LayoutObject, &widget); err != nil {
		ws.logger.Warnf(providers.TypeUpstream, "Error getting app directory entry for %s", fname)
		ws.logger.Errorf(providers.TypeUpstream, "%s", errs.NewMalformedResponseError("decode layout object "+fname, err))
		return widgets.ErrorPageWidget(fname)
	}
	if widget.Fname == "" {
		widget.Fname = fname
	}
	return &widget
}

// FetchWidgetJSON loads widget.WidgetURL. The result and content fields of
// an object payload are copied onto the widget when present.
func (ws *WidgetService) FetchWidgetJSON(ctx context.Context, user string, widget *models.Widget) (any, bool) {
	if widget.WidgetURL == "" {
		ws.logger.Warnf(providers.TypeApp, "%s", errs.NewConfigurationMissingError(widget.Fname+".widgetURL"))
		return nil, false
	}
	data, err := ws.getJSON(ctx, user, widget.WidgetURL, kindWidgetJSON, true)
	if err != nil {
		ws.logger.Errorf(providers.TypeUpstream, "Widget json for %s: %s", widget.Fname, err)
		return nil, false
	}
	if obj, ok := data.(map[string]any); ok {
		if result := obj["result"]; jsonutil.Truthy(result) {
			widget.WidgetData = result
		}
		if content := obj["content"]; jsonutil.Truthy(content) {
			widget.WidgetContent = content
		}
	}
	return data, true
}

func (ws *WidgetService) FetchRssAsJSON(ctx context.Context, user, url string) (*models.RssFeed, bool) {
	body, err := ws.client.Get(ctx, url, providers.FetchOptions{User: user, Cache: true, Kind: kindRss})
	if err != nil {
		ws.logger.Errorf(providers.TypeUpstream, "Couldn't get rss as JSON: %s", err)
		return nil, false
	}
	var feed models.RssFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		ws.logger.Errorf(providers.TypeUpstream, "%s", errs.NewMalformedResponseError("decode rss feed "+url, err))
		return nil, false
	}
	return &feed, true
}

// FetchActionItemQuantity accepts a bare number or {"quantity": n}.
func (ws *WidgetService) FetchActionItemQuantity(ctx context.Context, user, url string) (float64, bool) {
	data, err := ws.getJSON(ctx, user, url, kindActionItem, false)
	if err != nil {
		ws.logger.Warnf(providers.TypeUpstream, "Couldn't get action item quantity: %s", err)
		return 0, false
	}
	if obj, ok := data.(map[string]any); ok {
		data = obj["quantity"]
	}
	switch data.(type) {
	case float64, string:
		q, err := cast.ToFloat64E(data)
		if err == nil {
			return q, true
		}
	}
	ws.logger.Warnf(providers.TypeUpstream, "%s", errs.NewMalformedResponseError("action item quantity from "+url+" is not a number", nil))
	return 0, false
}

// FetchExternalMessage walks the configured property paths into the external
// message response. Unresolvable paths only drop the affected field.
func (ws *WidgetService) FetchExternalMessage(ctx context.Context, user string, widget *models.Widget) *models.ExternalMessage {
	if widget.ExternalMessageURL == "" {
		return nil
	}
	data, err := ws.getJSON(ctx, user, widget.ExternalMessageURL, kindExternalMessage, true)
	if err != nil {
		ws.logger.Warnf(providers.TypeUpstream, "Could not retrieve external message for: %s (%s)", widget.Fname, err)
		return nil
	}

	msg := &models.ExternalMessage{}
	if text, ok := ws.resolveLocation(data, widget.ExternalMessageTextLocation); ok {
		msg.MessageText = text
	} else {
		ws.logger.Warnf(providers.TypeApp, "Could not parse external message text for %s", widget.Fname)
	}
	if widget.ExternalMessageLearnMoreLocation != nil {
		if learnMore, ok := ws.resolveLocation(data, widget.ExternalMessageLearnMoreLocation); ok {
			msg.LearnMoreURL = learnMore
		} else {
			ws.logger.Warnf(providers.TypeApp, "Could not parse external message learn more url for %s", widget.Fname)
		}
	}
	return msg
}

func (ws *WidgetService) resolveLocation(data, location any) (any, bool) {
	path, ok := jsonutil.Segments(location)
	if !ok || len(path) == 0 {
		return nil, false
	}
	val, err := jsonutil.Resolve(data, path)
	if err != nil {
		return nil, false
	}
	return val, true
}

func (ws *WidgetService) getJSON(ctx context.Context, user, url, kind string, cache bool) (any, error) {
	body, err := ws.client.Get(ctx, url, providers.FetchOptions{User: user, Cache: cache, Kind: kind})
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errs.NewMalformedResponseError("decode "+kind+" response from "+url, err)
	}
	return data, nil
}

func (ws *WidgetService) BuildView(ctx context.Context, user, fname string, opts ViewOptions) *models.WidgetView {
	return ws.BuildWidgetView(ctx, user, ws.FetchSingleWidget(ctx, user, fname), opts)
}

// BuildWidgetView resolves the render variant of widget and loads the data
// that variant displays.
func (ws *WidgetService) BuildWidgetView(ctx context.Context, user string, widget *models.Widget, opts ViewOptions) *models.WidgetView {
	view := &models.WidgetView{
		Widget:    widget,
		Type:      widgets.ResolveType(widget),
		RenderURL: widgets.RenderURL(widget, opts.WebPortletRender),
		Config:    widget.WidgetConfig,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ws.populateView(gctx, user, view)
		return nil
	})
	if widget.ExternalMessageURL != "" {
		g.Go(func() error {
			view.ExternalMessage = ws.FetchExternalMessage(gctx, user, widget)
			return nil
		})
	}
	_ = g.Wait()
	return view
}

func (ws *WidgetService) populateView(ctx context.Context, user string, view *models.WidgetView) {
	widget := view.Widget
	switch view.Type {
	case widgets.TypeOptionLink:
		ws.optionLinkView(ctx, user, view)
	case widgets.TypeRss:
		ws.rssView(ctx, user, view)
	case widgets.TypeCustom:
		ws.customView(ctx, user, view)
	case widgets.TypeWeather:
		ws.weatherView(ctx, user, view)
	case widgets.TypeActionItems:
		ws.actionItemsView(ctx, user, view)
	case widgets.TypeSearchWithLinks:
		view.SecureURL = cast.ToString(widget.ConfigValue("actionURL"))
	}
}

func (ws *WidgetService) optionLinkView(ctx context.Context, user string, view *models.WidgetView) {
	widget := view.Widget
	view.Config = widgets.OptionLinkConfigDefaults(widget.WidgetConfig)
	if widget.WidgetConfig == nil {
		ws.logger.Warnf(providers.TypeApp, "Option link widget %s has no widget config", widget.Fname)
	}
	if widget.WidgetURL == "" {
		return
	}
	widget.WidgetData = []any{}
	if _, ok := ws.FetchWidgetJSON(ctx, user, widget); !ok {
		ws.logger.Warnf(providers.TypeApp, "Option link widget couldn't get json for: %s", widget.Fname)
		return
	}
	widget.SelectedURL = widgets.SelectedURL(widget.WidgetData, view.Config)
}

func (ws *WidgetService) rssView(ctx context.Context, user string, view *models.WidgetView) {
	widget := view.Widget
	if widget.WidgetURL == "" {
		ws.logger.Warnf(providers.TypeApp, "%s", errs.NewConfigurationMissingError(widget.Fname+".widgetURL"))
		view.Error = true
		return
	}
	view.Config = widgets.RssConfigDefaults(widget.WidgetConfig)

	feed, ok := ws.FetchRssAsJSON(ctx, user, widget.WidgetURL)
	if !ok {
		view.Error = true
		view.IsEmpty = true
		return
	}
	view.Feed = feed
	switch {
	case feed.Status != rssStatusOK:
		view.Error = true
	case len(feed.Items) == 0:
		view.IsEmpty = true
		view.Error = true
	case !cast.ToBool(view.Config["showShowing"]) && len(feed.Items) > cast.ToInt(view.Config["lim"]):
		view.Config["showShowing"] = true
	}
}

func (ws *WidgetService) customView(ctx context.Context, user string, view *models.WidgetView) {
	widget := view.Widget
	if widget.WidgetTemplate == "" {
		view.IsEmpty = true
		ws.logger.Warnf(providers.TypeApp, "%s said it's a custom/generic widget, but didn't provide a template", widget.Fname)
		return
	}
	if widget.ConfigValue("evalString") != nil {
		ws.logger.Warnf(providers.TypeApp, "%s uses evalString, which is ignored; use emptyWhen rules", widget.Fname)
	}
	rules, err := widgets.ParseRules(widget.ConfigValue("emptyWhen"))
	if err != nil {
		ws.logger.Warnf(providers.TypeApp, "%s has invalid emptyWhen: %s", widget.Fname, err)
		rules = nil
	}

	view.Content = []any{}
	if widget.WidgetURL == "" {
		return
	}
	data, ok := ws.FetchWidgetJSON(ctx, user, widget)
	if !ok || data == nil {
		ws.logger.Warnf(providers.TypeApp, "Got nothing back from widget fetch from: %s", widget.WidgetURL)
		view.IsEmpty = true
		return
	}
	widget.WidgetData = data
	view.Content = data
	view.IsEmpty = widgets.IsEmptyContent(data, rules)
}

func (ws *WidgetService) weatherView(ctx context.Context, user string, view *models.WidgetView) {
	widget := view.Widget
	if widget.WidgetURL == "" {
		ws.logger.Warnf(providers.TypeApp, "Weather widget %s did not receive a widgetURL", widget.Fname)
		return
	}

	var (
		data       any
		ok         bool
		preference models.Unit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, ok = ws.FetchWidgetJSON(gctx, user, widget)
		return nil
	})
	g.Go(func() error {
		preference = ws.GetWeatherPreference(gctx, user)
		return nil
	})
	_ = g.Wait()

	if !ok {
		view.Error = true
		ws.logger.Warnf(providers.TypeApp, "Weather widget %s couldn't get widget json", widget.Fname)
		return
	}

	records, err := decodeWeathers(data)
	if err != nil {
		view.Error = true
		ws.logger.Warnf(providers.TypeUpstream, "Weather widget %s: %s", widget.Fname, err)
		return
	}
	converted, current := widgets.ConvertToPreference(records, models.Fahrenheit, preference)
	view.Weather = converted
	view.CurrentUnits = current
	view.NextUnits = widgets.NextUnit(current)
}

func decodeWeathers(data any) ([]models.WeatherRecord, error) {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, errs.NewMalformedResponseError("weather payload is not an object", nil)
	}
	raw, ok := obj["weathers"]
	if !ok || raw == nil {
		return []models.WeatherRecord{}, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, errs.NewMalformedResponseError("encode weathers", err)
	}
	var records []models.WeatherRecord
	if err := json.Unmarshal(encoded, &records); err != nil {
		return nil, errs.NewMalformedResponseError("decode weathers", err)
	}
	return records, nil
}

func (ws *WidgetService) actionItemsView(ctx context.Context, user string, view *models.WidgetView) {
	raw, _ := view.Widget.ConfigValue("actionItems").([]any)
	counts := make([]models.ActionItemCount, len(raw))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ws.fanOutLimit())
	for i, entry := range raw {
		item, _ := entry.(map[string]any)
		counts[i] = models.ActionItemCount{Item: item}
		feedURL := cast.ToString(item["feedUrl"])
		if feedURL == "" {
			continue
		}
		g.Go(func() error {
			if q, ok := ws.FetchActionItemQuantity(gctx, user, feedURL); ok {
				counts[i].Quantity = &q
			}
			return nil
		})
	}
	_ = g.Wait()
	view.ActionItems = counts
}

func (ws *WidgetService) fanOutLimit() int {
	if n := ws.conf.Messages.MaxConcurrentFetches; n > 0 {
		return n
	}
	return -1
}

// GetWeatherPreference reads the stored unit. No store, no value or an
// unknown value all mean Fahrenheit.
func (ws *WidgetService) GetWeatherPreference(ctx context.Context, user string) models.Unit {
	if !ws.store.IsActivated() {
		return models.Fahrenheit
	}
	raw, err := ws.store.GetValue(ctx, UserKey(user, WeatherPreferenceKey))
	if err != nil {
		var notFound *errs.NotFoundError
		if !errors.As(err, &notFound) {
			ws.logger.Warnf(providers.TypeApp, "Unable to read weather preference for %s: %s", user, err)
		}
		return models.Fahrenheit
	}
	var pref models.WeatherPreference
	if err := json.Unmarshal(raw, &pref); err != nil || !pref.UserWeatherPreference.Valid() {
		return models.Fahrenheit
	}
	return pref.UserWeatherPreference
}

func (ws *WidgetService) SetWeatherPreference(ctx context.Context, user string, unit models.Unit) error {
	if !unit.Valid() {
		return errs.NewValidationError("units must be one of F, C, K")
	}
	if !ws.store.IsActivated() {
		return errs.NewUnavailableError("key/value store is not activated")
	}
	value, err := json.Marshal(models.WeatherPreference{UserWeatherPreference: unit})
	if err != nil {
		return err
	}
	return ws.store.SetValue(ctx, UserKey(user, WeatherPreferenceKey), value)
}

func NewWidgetService(conf *structures.Config, client providers.HttpClientInterface, store interfaces.KVStoreInterface, logger providers.Logger) WidgetServiceInterface {
	return &WidgetService{
		conf:   conf,
		client: client,
		store:  store,
		logger: logger,
	}
}
