package helpers

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MichalMitros/market-tracker/internal/decoder"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/MichalMitros/market-tracker/internal/platform/models/modelstesting"
	pgmodels "github.com/MichalMitros/market-tracker/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/market-tracker/internal/platform/storage/storagetesting"
	"github.com/go-jet/jet/v2/qrm"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"
	waitTimeout = 30 * time.Second
)

// WaitFor is blocking helper function, polls condition until it is met or fails test after timeout.
func WaitFor(t *testing.T, msg string, condition func() bool) {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case <-deadline:
			require.FailNow(t, "timeout exceeded", msg)
		case <-time.After(time.Millisecond * 250):
		}
		if condition() {
			return
		}
	}
}

// WaitForRecords waits until n product records are stored and returns them ordered by product id.
func WaitForRecords(t *testing.T, queryable qrm.Queryable, n int) []pgmodels.ProductRecord {
	t.Helper()

	var records []pgmodels.ProductRecord
	WaitFor(t, "records weren't registered", func() bool {
		records = storagetesting.GetRecords(t, queryable)
		return len(records) == n
	})

	return records
}

// WaitForRecord waits until product record satisfies condition and returns it.
func WaitForRecord(
	t *testing.T,
	queryable qrm.Queryable,
	productID string,
	condition func(r *pgmodels.ProductRecord) bool,
) pgmodels.ProductRecord {
	t.Helper()

	var record pgmodels.ProductRecord
	WaitFor(t, "record "+productID+" didn't reach expected state", func() bool {
		found, ok := lo.Find(storagetesting.GetRecords(t, queryable), func(r pgmodels.ProductRecord) bool {
			return r.ProductID == productID
		})
		record = found
		return ok && condition(&record)
	})

	return record
}

// PrepareMockedHTTPServer is helper function for mocking http srv and client.
// Returns function for setting feed file to return, feed number is from 0 to len(feedFiles) exclusive.
func PrepareMockedHTTPServer(t *testing.T, feedFiles [][]byte, statusCode int) (*httptest.Server, func(int)) {
	t.Helper()

	var feedFileToReturnIx atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		wrt.Header().Add(contentType, "application/xml")
		wrt.WriteHeader(statusCode)
		_, _ = wrt.Write(feedFiles[feedFileToReturnIx.Load()])
	}))

	t.Cleanup(func() {
		srv.Close()
	})

	return srv, func(i int) { feedFileToReturnIx.Store(int32(i)) }
}

// DeclareRMQExchange is helper function for declaring RMQ exchange.
func DeclareRMQExchange(t *testing.T, ch *amqp.Channel, exchange string) {
	t.Helper()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		require.FailNow(t, "can't declare exchange", exchange, err)
	}
}

// DeclareRMQQueue is helper function for declaring RMQ queue and binding and cleaning them after test is finished.
func DeclareRMQQueue(t *testing.T, channel *amqp.Channel, queueName, exchange, routingKey string) {
	t.Helper()

	_, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't declare queue", queueName, err)
	}

	err = channel.QueueBind(queueName, routingKey, exchange, false, nil)
	if err != nil {
		require.FailNow(t, "can't bind queue", queueName, routingKey, err)
	}

	t.Cleanup(func() {
		_, err := channel.QueueDelete(queueName, false, false, true)
		if err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}

// GenerateTestData generates n discoveries with ProductID in [1;n] in given category.
func GenerateTestData(t *testing.T, n int, categoryID string) []models.Discovery {
	t.Helper()

	results := make([]models.Discovery, n)

	for ix := range n {
		results[ix] = modelstesting.FakeDiscovery(func(d *models.Discovery) {
			d.ProductID = strconv.Itoa(ix + 1)
			d.CategoryID = categoryID
		})
	}

	return results
}

// DiscoveriesToXML is helper function which converts discoveries to feed xml and returns them as byte slice.
func DiscoveriesToXML(t *testing.T, discoveries []models.Discovery) []byte {
	t.Helper()

	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)

	for ix := range discoveries {
		item := toDecoderItem(&discoveries[ix])
		err := encoder.EncodeElement(&item, xml.StartElement{Name: xml.Name{Local: "item"}})
		if err != nil {
			require.FailNow(t, "can't encode discovery to xml", err)
		}
	}

	err := encoder.Flush()
	if err != nil {
		require.FailNow(t, "can't flush xml encoder", err)
	}

	err = encoder.Close()
	if err != nil {
		require.FailNow(t, "can't close xml encoder", err)
	}

	return buf.Bytes()
}

func toDecoderItem(discovery *models.Discovery) decoder.Item {
	return decoder.Item{
		ID:           discovery.ProductID,
		CategoryID:   discovery.CategoryID,
		CategoryName: discovery.CategoryName,
		DiscoveredAt: discovery.DiscoveredAt.Format(time.RFC3339),
	}
}
