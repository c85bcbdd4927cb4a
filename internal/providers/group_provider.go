package providers

import (
	"context"
	"portal/internal/errs"
	"portal/internal/models"
	"portal/internal/structures"

	json "github.com/goccy/go-json"
)

type GroupProviderInterface interface {
	GetGroups(ctx context.Context, user UserContext) ([]models.Group, error)
}

// HeaderGroupProvider trusts the groups forwarded with the request.
type HeaderGroupProvider struct{}

func (p *HeaderGroupProvider) GetGroups(_ context.Context, user UserContext) ([]models.Group, error) {
	groups := make([]models.Group, 0, len(user.Groups))
	for _, name := range user.Groups {
		groups = append(groups, models.Group{Name: name})
	}
	return groups, nil
}

// UrlGroupProvider asks the portal groups endpoint, which answers
// {"groups":[{"name":...}]} for the forwarded user.
type UrlGroupProvider struct {
	url    string
	client HttpClientInterface
}

func (p *UrlGroupProvider) GetGroups(ctx context.Context, user UserContext) ([]models.Group, error) {
	body, err := p.client.Get(ctx, p.url, FetchOptions{User: user.Name, Cache: true, Kind: "groups"})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Groups []models.Group `json:"groups"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errs.NewMalformedResponseError("decode groups response", err)
	}
	if resp.Groups == nil {
		return []models.Group{}, nil
	}
	return resp.Groups, nil
}

func NewGroupProvider(conf *structures.Config, client HttpClientInterface) GroupProviderInterface {
	if conf.Portal.GroupsSource == "url" {
		return &UrlGroupProvider{url: conf.Portal.GroupsUrl, client: client}
	}
	return &HeaderGroupProvider{}
}

// GroupNames flattens groups to their names.
func GroupNames(groups []models.Group) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}
