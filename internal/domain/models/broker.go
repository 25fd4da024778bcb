package models

import "time"

// BrokerActivity is one row of broker trading activity as delivered by
// the upstream provider: what a single broker bought and sold in a
// given stock on a given day.
type BrokerActivity struct {
	BrokerCode string
	BrokerName string
	Date       time.Time
	BuyLot     int64
	BuyValue   float64
	SellLot    int64
	SellValue  float64
}

// BrokerTotal aggregates one broker's activity over the requested
// window. NetValue is buy value minus sell value: positive means the
// broker accumulated the stock.
type BrokerTotal struct {
	BrokerCode string  `json:"broker_code" example:"YP"`
	BrokerName string  `json:"broker_name" example:"Mirae Asset Sekuritas"`
	BuyLot     int64   `json:"buy_lot" example:"120500"`
	BuyValue   float64 `json:"buy_value" example:"1087500000"`
	SellLot    int64   `json:"sell_lot" example:"80200"`
	SellValue  float64 `json:"sell_value" example:"724300000"`
	NetValue   float64 `json:"net_value" example:"363200000"`
}

// BrokerSummary is the aggregated view served by the API: per-broker
// totals for a symbol over a date window, ordered by net value
// descending, plus window-wide totals.
//
// swagger:model BrokerSummary
type BrokerSummary struct {
	Symbol         string        `json:"symbol" example:"BBCA"`
	StartDate      time.Time     `json:"start_date"`
	EndDate        time.Time     `json:"end_date"`
	Brokers        []BrokerTotal `json:"brokers"`
	TotalBuyLot    int64         `json:"total_buy_lot"`
	TotalBuyValue  float64       `json:"total_buy_value"`
	TotalSellLot   int64         `json:"total_sell_lot"`
	TotalSellValue float64       `json:"total_sell_value"`
}
