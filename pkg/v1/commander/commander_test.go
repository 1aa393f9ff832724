package commander_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MichalMitros/market-tracker/pkg/v1/commander"
	"github.com/MichalMitros/market-tracker/pkg/v1/commander/mocks"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitCommander(t *testing.T) {
	productID := faker.UUIDDigit()
	categoryID := faker.Word()
	feedURL := faker.URL()
	asOf := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		send     func(c commander.Commander) error
		wantType string
		wantBody string
	}{
		"discover item": {
			send: func(c commander.Commander) error {
				return c.DiscoverItem(context.TODO(), commander.DiscoverItemCommand{
					ProductID:    productID,
					CategoryID:   categoryID,
					CategoryName: "Toys",
					DiscoveredAt: &asOf,
				})
			},
			wantType: commander.TypeDiscoverItem,
			wantBody: fmt.Sprintf(
				`{"productId":"%s","categoryId":"%s","categoryName":"Toys","discoveredAt":"2024-03-10T12:00:00Z"}`,
				productID, categoryID,
			),
		},
		"discover feed": {
			send:     func(c commander.Commander) error { return c.DiscoverFeed(context.TODO(), feedURL) },
			wantType: commander.TypeDiscoverFeed,
			wantBody: fmt.Sprintf(`{"feedUrl":"%s"}`, feedURL),
		},
		"fetch result": {
			send: func(c commander.Commander) error {
				return c.ReportFetchResult(context.TODO(), commander.FetchResultCommand{
					ProductID: productID,
					Outcome:   commander.OutcomeSuccess,
					Fields:    map[string]any{"price": 10.5},
				})
			},
			wantType: commander.TypeFetchResult,
			wantBody: fmt.Sprintf(`{"productId":"%s","outcome":"success","fields":{"price":10.5}}`, productID),
		},
		"crawl pass": {
			send:     func(c commander.Commander) error { return c.StartCrawlPass(context.TODO(), 25) },
			wantType: commander.TypeCrawlPass,
			wantBody: `{"maxN":25}`,
		},
		"aggregate pass": {
			send: func(c commander.Commander) error {
				return c.StartAggregatePass(context.TODO(), commander.AggregatePassCommand{CategoryID: categoryID})
			},
			wantType: commander.TypeAggregatePass,
			wantBody: fmt.Sprintf(`{"categoryId":"%s"}`, categoryID),
		},
		"deactivate": {
			send:     func(c commander.Commander) error { return c.Deactivate(context.TODO(), productID) },
			wantType: commander.TypeDeactivate,
			wantBody: fmt.Sprintf(`{"productId":"%s"}`, productID),
		},
		"reactivate": {
			send:     func(c commander.Commander) error { return c.Reactivate(context.TODO(), productID) },
			wantType: commander.TypeReactivate,
			wantBody: fmt.Sprintf(`{"productId":"%s"}`, productID),
		},
		"set priority": {
			send:     func(c commander.Commander) error { return c.SetPriority(context.TODO(), productID, 2) },
			wantType: commander.TypeSetPriority,
			wantBody: fmt.Sprintf(`{"productId":"%s","priority":2}`, productID),
		},
		"boost category": {
			send:     func(c commander.Commander) error { return c.BoostCategory(context.TODO(), categoryID, 3) },
			wantType: commander.TypeBoostCategory,
			wantBody: fmt.Sprintf(`{"categoryId":"%s","amount":3}`, categoryID),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sender := mocks.NewSender(t)
			sender.On("Send", mock.Anything, tt.wantType, []byte(tt.wantBody)).Return(nil).Once()

			err := tt.send(commander.NewCommander(sender))

			require.NoError(t, err, "shouldn't return any error")
		})
	}
}

func TestUnitCommanderSenderError(t *testing.T) {
	sender := mocks.NewSender(t)
	sender.On("Send", mock.Anything, commander.TypeCrawlPass, mock.Anything).Return(assert.AnError).Once()

	err := commander.NewCommander(sender).StartCrawlPass(context.TODO(), 10)

	require.ErrorIs(t, err, assert.AnError, "should return sender error")
}
