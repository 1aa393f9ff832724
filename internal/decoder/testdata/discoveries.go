package testdata

import (
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
)

// Discoveries are valid items of feed.xml in file order.
var Discoveries = []models.Discovery{
	{
		ProductID:    "1005006123456789",
		CategoryID:   "200000345",
		CategoryName: "Home & Garden",
		DiscoveredAt: time.Date(2024, time.March, 10, 11, 58, 3, 0, time.UTC),
	},
	{
		ProductID:    "1005005987654321",
		CategoryID:   "200000345",
		CategoryName: "Home & Garden",
	},
	{
		ProductID:    "1005004444555666",
		CategoryID:   "26",
		CategoryName: "Toys & Hobbies",
		DiscoveredAt: time.Date(2024, time.March, 9, 21, 15, 0, 0, time.UTC),
	},
}
