package commander

import (
	"context"
	"encoding/json"
	"fmt"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages of given type.
type Sender interface {
	Send(ctx context.Context, msgType string, body []byte) error
}

// Commander sends market tracker commands.
type Commander struct {
	sender Sender
}

// NewCommander returns new Commander using provided sender for sending messages.
func NewCommander(sender Sender) Commander {
	return Commander{
		sender: sender,
	}
}

// DiscoverItem sends discover item command.
func (c Commander) DiscoverItem(ctx context.Context, cmd DiscoverItemCommand) error {
	return c.send(ctx, TypeDiscoverItem, cmd)
}

// DiscoverFeed sends discover feed command with provided feedURL.
func (c Commander) DiscoverFeed(ctx context.Context, feedURL string) error {
	return c.send(ctx, TypeDiscoverFeed, DiscoverFeedCommand{FeedURL: feedURL})
}

// ReportFetchResult sends fetch result command.
func (c Commander) ReportFetchResult(ctx context.Context, cmd FetchResultCommand) error {
	return c.send(ctx, TypeFetchResult, cmd)
}

// StartCrawlPass sends crawl pass command.
func (c Commander) StartCrawlPass(ctx context.Context, maxN int) error {
	return c.send(ctx, TypeCrawlPass, CrawlPassCommand{MaxN: maxN})
}

// StartAggregatePass sends aggregate pass command.
func (c Commander) StartAggregatePass(ctx context.Context, cmd AggregatePassCommand) error {
	return c.send(ctx, TypeAggregatePass, cmd)
}

// Deactivate sends deactivate command.
func (c Commander) Deactivate(ctx context.Context, productID string) error {
	return c.send(ctx, TypeDeactivate, RecordCommand{ProductID: productID})
}

// Reactivate sends reactivate command.
func (c Commander) Reactivate(ctx context.Context, productID string) error {
	return c.send(ctx, TypeReactivate, RecordCommand{ProductID: productID})
}

// SetPriority sends set priority command.
func (c Commander) SetPriority(ctx context.Context, productID string, priority int) error {
	return c.send(ctx, TypeSetPriority, SetPriorityCommand{ProductID: productID, Priority: priority})
}

// BoostCategory sends boost category command.
func (c Commander) BoostCategory(ctx context.Context, categoryID string, amount int) error {
	return c.send(ctx, TypeBoostCategory, BoostCategoryCommand{CategoryID: categoryID, Amount: amount})
}

func (c Commander) send(ctx context.Context, msgType string, cmd any) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal %s command: %w", msgType, err)
	}

	return c.sender.Send(ctx, msgType, body)
}
