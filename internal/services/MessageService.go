package services

import (
	"context"
	"errors"
	"portal/internal/errs"
	"portal/internal/jsonutil"
	"portal/internal/messages"
	"portal/internal/models"
	"portal/internal/providers"
	"portal/internal/storage/interfaces"
	"portal/internal/structures"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	kindMessages    = "messages"
	kindMessageData = "message-data"
)

type MessageServiceInterface interface {
	GetAllMessages(ctx context.Context, user string) []models.Message
	FilterByData(ctx context.Context, user string, msgs []models.Message) []models.Message
	GetVisibleMessages(ctx context.Context, user providers.UserContext) []models.Message
	GetSeenIDs(ctx context.Context, user string) []int64
	SetMessagesSeen(ctx context.Context, user string, original, altered []int64, action models.SeenAction) []int64
}

type MessageService struct {
	conf    *structures.Config
	client  providers.HttpClientInterface
	groups  providers.GroupProviderInterface
	store   interfaces.KVStoreInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
}

// GetAllMessages accepts either a bare array or {"messages": [...]}.
func (ms *MessageService) GetAllMessages(ctx context.Context, user string) []models.Message {
	if ms.conf.Messages.Url == "" {
		ms.logger.Warnf(providers.TypeApp, "%s", errs.NewConfigurationMissingError("messages.url"))
		return []models.Message{}
	}
	body, err := ms.client.Get(ctx, ms.conf.Messages.Url, providers.FetchOptions{User: user, Cache: true, Kind: kindMessages})
	if err != nil {
		ms.logger.Errorf(providers.TypeUpstream, "Couldn't get messages: %s", err)
		return []models.Message{}
	}

	var list []models.Message
	if err := json.Unmarshal(body, &list); err == nil {
		return list
	}
	var wrapped struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		ms.logger.Errorf(providers.TypeUpstream, "%s", errs.NewMalformedResponseError("decode messages", err))
		return []models.Message{}
	}
	if wrapped.Messages == nil {
		return []models.Message{}
	}
	return wrapped.Messages
}

// FilterByData drops messages whose data condition does not hold. Data
// urls are fetched concurrently; the result keeps the input order.
func (ms *MessageService) FilterByData(ctx context.Context, user string, msgs []models.Message) []models.Message {
	keep := make([]bool, len(msgs))

	g, gctx := errgroup.WithContext(ctx)
	if n := ms.conf.Messages.MaxConcurrentFetches; n > 0 {
		g.SetLimit(n)
	}
	for i, msg := range msgs {
		if msg.AudienceFilter.DataURL == "" {
			keep[i] = true
			continue
		}
		g.Go(func() error {
			keep[i] = ms.dataConditionHolds(gctx, user, msg)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.Message, 0, len(msgs))
	for i, msg := range msgs {
		if keep[i] {
			out = append(out, msg)
		}
	}
	return out
}

func (ms *MessageService) dataConditionHolds(ctx context.Context, user string, msg models.Message) bool {
	af := msg.AudienceFilter
	body, err := ms.client.Get(ctx, af.DataURL, providers.FetchOptions{User: user, Cache: true, Kind: kindMessageData})
	if err != nil {
		ms.logger.Warnf(providers.TypeUpstream, "Message %d data fetch failed: %s", msg.ID, err)
		return false
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		ms.logger.Warnf(providers.TypeUpstream, "%s", errs.NewMalformedResponseError("decode data for message", err))
		return false
	}

	value, err := jsonutil.ResolveDotted(data, af.DataObject)
	if err != nil {
		value = nil
	}

	filter, err := messages.ParseArrayFilter(af.DataArrayFilter)
	if err != nil {
		ms.logger.Warnf(providers.TypeApp, "Message %d has an invalid dataArrayFilter: %s", msg.ID, err)
		return false
	}
	if filter == nil {
		return jsonutil.Truthy(value)
	}
	items, ok := value.([]any)
	if !ok {
		return false
	}
	return messages.AnyMatch(items, filter)
}

// GetVisibleMessages returns the messages addressed to user. When groups
// cannot be loaded only unrestricted messages are shown.
func (ms *MessageService) GetVisibleMessages(ctx context.Context, user providers.UserContext) []models.Message {
	all := ms.GetAllMessages(ctx, user.Name)

	groups, err := ms.groups.GetGroups(ctx, user)
	if err != nil {
		ms.logger.Warnf(providers.TypeUpstream, "Couldn't load groups for %s: %s", user.Name, err)
		groups = nil
	}

	visible := ms.FilterByData(ctx, user.Name, messages.FilterByGroup(all, providers.GroupNames(groups)))
	ms.metrics.ObserveVisibleMessages(len(visible))
	return visible
}

func (ms *MessageService) GetSeenIDs(ctx context.Context, user string) []int64 {
	if !ms.store.IsActivated() {
		return []int64{}
	}
	raw, err := ms.store.GetValue(ctx, UserKey(user, ViewedMessageIdsKey))
	if err != nil {
		var notFound *errs.NotFoundError
		if !errors.As(err, &notFound) {
			ms.logger.Warnf(providers.TypeApp, "Unable to read seen messages for %s: %s", user, err)
		}
		return []int64{}
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return []int64{}
	}
	return messages.DecodeSeenIDs(value)
}

// SetMessagesSeen reconciles the seen list and stores it. The reconciled
// list is returned even when it could not be stored. Concurrent writers
// for the same user are last-write-wins.
func (ms *MessageService) SetMessagesSeen(ctx context.Context, user string, original, altered []int64, action models.SeenAction) []int64 {
	ids := messages.ReconcileSeenIDs(original, altered, action)
	if !ms.store.IsActivated() {
		ms.logger.Warnf(providers.TypeApp, "Seen messages for %s not saved: key/value store is not activated", user)
		return ids
	}
	value, err := json.Marshal(ids)
	if err != nil {
		ms.logger.Warnf(providers.TypeApp, "Seen messages for %s not saved: %s", user, err)
		return ids
	}
	if err := ms.store.SetValue(ctx, UserKey(user, ViewedMessageIdsKey), value); err != nil {
		ms.logger.Warnf(providers.TypeApp, "Seen messages for %s not saved: %s", user, err)
	}
	return ids
}

func NewMessageService(
	conf *structures.Config,
	client providers.HttpClientInterface,
	groups providers.GroupProviderInterface,
	store interfaces.KVStoreInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) MessageServiceInterface {
	return &MessageService{
		conf:    conf,
		client:  client,
		groups:  groups,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}
