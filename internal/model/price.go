package model

import "time"

// ChangeWindow names one of the percent-change buckets carried on a
// PriceSnapshot.
type ChangeWindow string

const (
	Change15m ChangeWindow = "15m"
	Change30m ChangeWindow = "30m"
	Change1h  ChangeWindow = "1h"
	Change6h  ChangeWindow = "6h"
	Change12h ChangeWindow = "12h"
	Change24h ChangeWindow = "24h"
	Change7d  ChangeWindow = "7d"
	Change30d ChangeWindow = "30d"
	Change1y  ChangeWindow = "1y"
)

// PriceSnapshot is a point-in-time quote for a symbol.
type PriceSnapshot struct {
	Symbol        string
	Price         float64
	Change24hAbs  float64
	Change24hPct  float64
	Volume24h     float64
	MarketCap     *float64
	Rank          *int
	PctChanges    map[ChangeWindow]float64
	ATHPrice      *float64
	ATHDate       *time.Time
	FetchedAt     time.Time
	Source        string
}
