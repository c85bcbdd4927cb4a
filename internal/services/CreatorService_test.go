package services

import (
	"context"
	"portal/internal/errs"
	"portal/internal/models"
	"portal/internal/testutil"
	"portal/internal/widgets"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreatorService() (*CreatorService, *testutil.MockKVStore) {
	store := testutil.NewMockKVStore()
	return NewCreatorService(store, &testutil.MockLogger{}).(*CreatorService), store
}

func TestStarterTemplates(t *testing.T) {
	svc, _ := newCreatorService()
	templates := svc.StarterTemplates()
	require.Len(t, templates, 4)

	byID := map[int]models.StarterTemplate{}
	for _, tpl := range templates {
		byID[tpl.ID] = tpl
	}
	assert.Equal(t, "widget-creator", byID[4].Type)
	assert.Equal(t, "https://rprg.wisc.edu/search/", byID[1].WidgetConfig["actionURL"])
	assert.True(t, byID[2].HasWidgetURL)
	assert.Equal(t, 6, byID[2].WidgetConfig["lim"])
	assert.Equal(t, "A simple list of links", byID[3].Description)

	for _, tpl := range templates {
		if tpl.WidgetType == "" {
			continue
		}
		problems, err := widgets.ValidateConfig(tpl.WidgetType, decodeRoundTrip(t, tpl.WidgetConfig))
		require.NoError(t, err)
		assert.Empty(t, problems, tpl.Title)
	}
}

func TestStarterTemplates_FreshCopies(t *testing.T) {
	svc, _ := newCreatorService()
	first := svc.StarterTemplates()
	first[1].WidgetConfig["actionURL"] = "changed"
	assert.Equal(t, "https://rprg.wisc.edu/search/", svc.StarterTemplates()[1].WidgetConfig["actionURL"])
}

func TestPreview_ValidCustom(t *testing.T) {
	svc, _ := newCreatorService()
	p, err := svc.Preview(models.Draft{
		Title:          "Grades",
		WidgetType:     "custom",
		WidgetTemplate: "<p>{{content.grade}}</p>",
		Content:        `{"grade":"A"}`,
		WidgetConfig:   `{"emptyWhen":{"path":"grade","op":"missing"}}`,
	})
	require.NoError(t, err)
	assert.Empty(t, p.ErrorJSON)
	assert.Empty(t, p.ErrorConfigJSON)
	assert.Empty(t, p.ConfigErrors)
	assert.Equal(t, widgets.TypeCustom, p.View.Type)
	assert.False(t, p.View.IsEmpty)
	assert.Equal(t, map[string]any{"grade": "A"}, p.View.Content)
}

func TestPreview_EmptyWhenMatches(t *testing.T) {
	svc, _ := newCreatorService()
	p, err := svc.Preview(models.Draft{
		Title:          "Grades",
		WidgetType:     "generic",
		WidgetTemplate: "<p/>",
		Content:        `{"grades":[]}`,
		WidgetConfig:   `{"emptyWhen":[{"path":"grades","op":"empty"}]}`,
	})
	require.NoError(t, err)
	assert.True(t, p.View.IsEmpty)
}

func TestPreview_InvalidJSON(t *testing.T) {
	svc, _ := newCreatorService()
	p, err := svc.Preview(models.Draft{
		Title:        "Broken",
		WidgetType:   "custom",
		Content:      `{"a":`,
		WidgetConfig: `not json`,
	})
	require.NoError(t, err)
	assert.Equal(t, "JSON NOT VALID", p.ErrorJSON)
	assert.Equal(t, "JSON NOT VALID", p.ErrorConfigJSON)
	assert.Equal(t, map[string]any{}, p.View.Content)
	assert.True(t, p.View.IsEmpty)
}

func TestPreview_EmptyContentIsNotAnError(t *testing.T) {
	svc, _ := newCreatorService()
	p, err := svc.Preview(models.Draft{Title: "Links", WidgetType: "list-of-links"})
	require.NoError(t, err)
	assert.Empty(t, p.ErrorJSON)
	assert.NotEmpty(t, p.ConfigErrors)
	assert.True(t, p.View.IsEmpty)
	assert.Equal(t, map[string]any{}, p.View.Content)
}

func TestPreview_BlankContentIsEmpty(t *testing.T) {
	svc, _ := newCreatorService()
	for _, content := range []string{"", "   \n\t"} {
		p, err := svc.Preview(models.Draft{
			Title:          "Grades",
			WidgetType:     "generic",
			WidgetTemplate: "<p>{{content.grade}}</p>",
			Content:        content,
		})
		require.NoError(t, err)
		assert.Empty(t, p.ErrorJSON)
		assert.True(t, p.View.IsEmpty, "%q", content)
	}
}

func TestPreview_SchemaProblems(t *testing.T) {
	svc, _ := newCreatorService()
	p, err := svc.Preview(models.Draft{
		Title:        "Search",
		WidgetType:   "search-with-links",
		WidgetConfig: `{"actionURL":"","links":[{"title":"x"}]}`,
	})
	require.NoError(t, err)
	assert.Len(t, p.ConfigErrors, 2)
}

func TestDrafts_Lifecycle(t *testing.T) {
	svc, store := newCreatorService()
	ctx := context.Background()

	saved, err := svc.SaveDraft(ctx, "bucky", models.Draft{Title: "Mine", WidgetType: "custom", Content: `{}`})
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	require.NoError(t, err)
	assert.Contains(t, store.Data, UserKey("bucky", DraftKeyPrefix+saved.ID))

	got, err := svc.GetDraft(ctx, "bucky", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = svc.GetDraft(ctx, "someone-else", saved.ID)
	var notFound *errs.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	saved.Title = "Renamed"
	updated, err := svc.SaveDraft(ctx, "bucky", *saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	require.NoError(t, svc.DeleteDraft(ctx, "bucky", saved.ID))
	_, err = svc.GetDraft(ctx, "bucky", saved.ID)
	assert.ErrorAs(t, err, &notFound)
}

func TestDrafts_Validation(t *testing.T) {
	svc, _ := newCreatorService()
	ctx := context.Background()
	var validation *errs.ValidationError

	_, err := svc.SaveDraft(ctx, "u", models.Draft{WidgetType: "custom"})
	assert.ErrorAs(t, err, &validation)

	_, err = svc.SaveDraft(ctx, "u", models.Draft{ID: "../../etc", Title: "x", WidgetType: "custom"})
	assert.ErrorAs(t, err, &validation)

	_, err = svc.GetDraft(ctx, "u", "not-a-uuid")
	assert.ErrorAs(t, err, &validation)
}

func TestDrafts_StoreInactive(t *testing.T) {
	svc, store := newCreatorService()
	store.Inactive = true
	ctx := context.Background()
	var unavailable *errs.UnavailableError

	_, err := svc.SaveDraft(ctx, "u", models.Draft{Title: "x", WidgetType: "custom"})
	assert.ErrorAs(t, err, &unavailable)

	_, err = svc.GetDraft(ctx, "u", uuid.NewString())
	assert.ErrorAs(t, err, &unavailable)

	assert.ErrorAs(t, svc.DeleteDraft(ctx, "u", uuid.NewString()), &unavailable)
}

func decodeRoundTrip(t *testing.T, v map[string]any) any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}
