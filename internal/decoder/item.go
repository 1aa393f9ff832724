package decoder

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
)

// Item is model for product items in discovery feed files.
type Item struct {
	ID           string `xml:"id"`
	CategoryID   string `xml:"category_id"`
	CategoryName string `xml:"category_name"`
	DiscoveredAt string `xml:"discovered_at"`
}

func toDiscovery(item *Item) (models.Discovery, error) {
	discovery := models.Discovery{
		ProductID:    strings.TrimSpace(item.ID),
		CategoryID:   strings.TrimSpace(item.CategoryID),
		CategoryName: strings.TrimSpace(html.UnescapeString(item.CategoryName)),
	}

	if discovery.ProductID == "" {
		return discovery, fmt.Errorf("item without id: %w", platform.ErrInvalidRecord)
	}

	if discoveredAt := strings.TrimSpace(item.DiscoveredAt); discoveredAt != "" {
		parsed, err := time.Parse(time.RFC3339, discoveredAt)
		if err != nil {
			return discovery, fmt.Errorf("invalid discovery time of %q: %w", discovery.ProductID, err)
		}
		discovery.DiscoveredAt = parsed.UTC()
	}

	return discovery, nil
}
