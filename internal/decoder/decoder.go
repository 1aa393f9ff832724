package decoder

import (
	"context"
	"encoding/xml"
	"errors"
	"io"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
)

// Decoder decodes xml discovery feeds into discovered product ids.
type Decoder struct{}

// Decode decodes items from xmlFile and sends each of them with decoding error into output channel.
func (d Decoder) Decode(ctx context.Context, xmlFile io.Reader, output chan<- models.DiscoveryResult) error {
	dec := xml.NewDecoder(xmlFile)
	dec.Strict = true

	for {
		token, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		element, ok := token.(xml.StartElement)
		if !ok || element.Name.Local != "item" {
			continue
		}

		var (
			item      Item
			discovery models.Discovery
		)
		err = dec.DecodeElement(&item, &element)
		if err == nil {
			discovery, err = toDiscovery(&item)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case output <- models.DiscoveryResult{
			Discovery: discovery,
			Error:     err,
		}:
		}
	}
}
