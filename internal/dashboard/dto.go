package dashboard

import "github.com/tsrs-robotics/robolab-backend/internal/items"

// CategoryCount is the stock volume held under one category.
type CategoryCount struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// Summary is the read-only overview served to the dashboard.
type Summary struct {
	ItemCount   int                  `json:"item_count"`
	StockVolume int                  `json:"stock_volume"`
	KitCount    int                  `json:"kit_count"`
	LowStock    []items.LowStockItem `json:"low_stock"`
	Categories  []CategoryCount      `json:"categories"`
}
